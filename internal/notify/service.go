package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"coinpay/internal/logger"
	"coinpay/internal/metrics"
)

const (
	queueKey       = "fulfillment"
	failedQueueKey = "fulfillment:failed"
	maxTries       = 3
)

// FulfillmentJob asks an operator to deliver a purchased item in-game.
// Coin top-ups never produce one; they complete inside the order
// transaction.
type FulfillmentJob struct {
	OrderID     string    `json:"order_id"`
	GamingID    string    `json:"gaming_id"`
	ProductName string    `json:"product_name"`
	Tries       int       `json:"tries"`
	Created     time.Time `json:"created"`
}

type Service struct {
	redis *redis.Client
}

func New(redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

// EnqueueFulfillment implements reconcile.Notifier.
func (s *Service) EnqueueFulfillment(ctx context.Context, orderID, gamingID, productName string) error {
	job := FulfillmentJob{
		OrderID:     orderID,
		GamingID:    gamingID,
		ProductName: productName,
		Tries:       0,
		Created:     time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal fulfillment job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue fulfillment for order %s: %v", orderID, err)
		metrics.RecordNotifyJob("enqueue_failed")
		return err
	}

	metrics.RecordNotifyJob("queued")
	logger.Infof("Fulfillment queued: order %s for %s", orderID, gamingID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Fulfillment service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Fulfillment service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job FulfillmentJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad fulfillment data: %v", err)
		metrics.RecordNotifyJob("malformed")
		return
	}

	job.Tries++
	logger.Infof("Dispatching fulfillment for order %s (attempt %d)", job.OrderID, job.Tries)
	if err := s.dispatch(ctx, job); err != nil {
		logger.Errorf("Failed to dispatch fulfillment for order %s: %v", job.OrderID, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying fulfillment for order %s (attempt %d)", job.OrderID, job.Tries+1)
		} else {
			logger.Errorf("Fulfillment for order %s failed after %d attempts", job.OrderID, maxTries)
			metrics.RecordNotifyJob("failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotifyJob("delivered")
	logger.Infof("Fulfillment dispatched for order %s", job.OrderID)
}

// dispatch publishes the job on the operator alert channel. Operators
// subscribe from the admin console; the durable record stays in the
// orders table regardless.
func (s *Service) dispatch(ctx context.Context, job FulfillmentJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Publish(ctx, "fulfillment:alerts", data).Err()
}

func (s *Service) saveFailed(job FulfillmentJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Fulfillment moved to failed queue: order %s", job.OrderID)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotifyQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
