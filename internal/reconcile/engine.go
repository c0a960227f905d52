package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinpay/internal/db"
	"coinpay/internal/logger"
	"coinpay/internal/metrics"
	"coinpay/internal/payment"
	"coinpay/internal/product"
	"coinpay/internal/user"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// amountTolerance absorbs currency rounding between the charged amount and
// the catalog price.
const amountTolerance = 100

const referralRewardPercent = 50

// Notifier queues a fulfillment task for orders that need manual delivery.
type Notifier interface {
	EnqueueFulfillment(ctx context.Context, orderID, gamingID, productName string) error
}

// Engine turns verified payment evidence into exactly one order plus its
// balance effects. Mutual exclusion between concurrent deliveries of the
// same evidence lives in the orders.external_reference unique index, not
// in process memory: handlers may run on separate machines.
type Engine struct {
	db       *sqlx.DB
	products product.Repository
	users    user.Repository
	notifier Notifier
}

func NewEngine(db *sqlx.DB, products product.Repository, users user.Repository, notifier Notifier) *Engine {
	return &Engine{
		db:       db,
		products: products,
		users:    users,
		notifier: notifier,
	}
}

// ProcessEvidence implements payment.Processor. Returns duplicate=true
// when the evidence had already been applied; that is a success for the
// caller, not an error.
func (e *Engine) ProcessEvidence(ctx context.Context, ev *payment.Evidence) (bool, error) {
	exists, err := e.orderExists(ctx, ev.ExternalReference)
	if err != nil {
		metrics.RecordReconciliation("error")
		return false, fmt.Errorf("%w: check duplicate: %v", payment.ErrTransactionFailed, err)
	}
	if exists {
		metrics.RecordReconciliation("duplicate")
		return true, nil
	}

	prod, err := e.products.FindByID(ctx, ev.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			metrics.RecordReconciliation("reference_not_found")
			return false, fmt.Errorf("%w: product %s", payment.ErrReferenceNotFound, ev.ProductID)
		}
		metrics.RecordReconciliation("error")
		return false, fmt.Errorf("%w: lookup product: %v", payment.ErrTransactionFailed, err)
	}

	buyer, err := e.users.FindByGamingID(ctx, ev.GamingID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			metrics.RecordReconciliation("reference_not_found")
			return false, fmt.Errorf("%w: user %s", payment.ErrReferenceNotFound, ev.GamingID)
		}
		metrics.RecordReconciliation("error")
		return false, fmt.Errorf("%w: lookup user: %v", payment.ErrTransactionFailed, err)
	}

	order, coinDelta := compute(ev, prod, buyer)

	if diff := order.FinalPrice - ev.Amount; diff > amountTolerance || diff < -amountTolerance {
		logger.Warn("payment amount differs from computed price",
			"external_reference", ev.ExternalReference,
			"paid", ev.Amount,
			"computed", order.FinalPrice,
		)
	}

	duplicate, err := e.apply(ctx, order, buyer, coinDelta)
	if err != nil {
		metrics.RecordReconciliation("tx_failed")
		return false, err
	}
	if duplicate {
		metrics.RecordReconciliation("duplicate")
		return true, nil
	}

	metrics.RecordReconciliation("applied")
	logger.Info("order reconciled",
		"order_id", order.ID,
		"external_reference", order.ExternalReference,
		"gaming_id", order.GamingID,
		"status", order.Status,
		"coins_used", order.CoinsUsed,
		"final_price", order.FinalPrice,
	)

	if order.Status == StatusProcessing && e.notifier != nil {
		if err := e.notifier.EnqueueFulfillment(ctx, order.ID, order.GamingID, order.ProductName); err != nil {
			// The order is already durable; a lost notification is
			// recoverable from the admin order list.
			logger.Error("failed to enqueue fulfillment notification", "error", err, "order_id", order.ID)
		}
	}

	return false, nil
}

// compute derives the order snapshot and the coin balance delta. A coin
// product mints its quantity and completes immediately; a deliverable item
// burns up to coinsApplicable coins and awaits manual fulfillment.
func compute(ev *payment.Evidence, prod *product.Product, buyer *user.User) (*Order, int64) {
	order := &Order{
		ID:                    uuid.NewString(),
		GamingID:              buyer.GamingID,
		ProductID:             prod.ID,
		ProductName:           prod.Name,
		ProductPrice:          prod.Price,
		ProductImageURL:       prod.ImageURL,
		PaymentMethod:         "UPI",
		ExternalReference:     ev.ExternalReference,
		ReferralCode:          buyer.ReferredByCode,
		IsCoinProduct:         prod.IsCoinProduct,
		CoinsAtTimeOfPurchase: buyer.Coins,
		CreatedAt:             time.Now(),
	}

	var coinDelta int64
	if prod.IsCoinProduct {
		order.CoinsUsed = 0
		order.FinalPrice = prod.EffectivePrice()
		order.Status = StatusCompleted
		coinDelta = prod.Quantity
	} else {
		coinsUsed := buyer.Coins
		if prod.CoinsApplicable < coinsUsed {
			coinsUsed = prod.CoinsApplicable
		}
		order.CoinsUsed = coinsUsed
		order.FinalPrice = prod.Price - coinsUsed
		order.Status = StatusProcessing
		coinDelta = -coinsUsed
	}

	return order, coinDelta
}

// apply performs the atomic unit: order insert, coin delta, referral
// credit and lock completion either all land or none do. A unique
// violation on external_reference means a concurrent delivery won the
// race; that is the idempotent duplicate path, not a failure.
func (e *Engine) apply(ctx context.Context, order *Order, buyer *user.User, coinDelta int64) (bool, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: begin: %v", payment.ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO orders (id, gaming_id, product_id, product_name, product_price,
			product_image_url, payment_method, status, external_reference, referral_code,
			coins_used, final_price, is_coin_product, coins_at_time_of_purchase,
			is_purchase_tracked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.ExecContext(ctx, insert,
		order.ID, order.GamingID, order.ProductID, order.ProductName, order.ProductPrice,
		order.ProductImageURL, order.PaymentMethod, order.Status, order.ExternalReference,
		order.ReferralCode, order.CoinsUsed, order.FinalPrice, order.IsCoinProduct,
		order.CoinsAtTimeOfPurchase, order.IsPurchaseTracked, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return true, nil
		}
		return false, fmt.Errorf("%w: insert order: %v", payment.ErrTransactionFailed, err)
	}

	if coinDelta != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET coins = coins + $2 WHERE gaming_id = $1`,
			order.GamingID, coinDelta,
		)
		if err != nil {
			return false, fmt.Errorf("%w: adjust coins: %v", payment.ErrTransactionFailed, err)
		}
	}

	if order.Status == StatusCompleted && buyer.ReferredByCode != nil {
		reward := order.FinalPrice * referralRewardPercent / 100
		_, err = tx.ExecContext(ctx,
			`UPDATE referral_accounts SET wallet_balance = wallet_balance + $2 WHERE referral_code = $1`,
			*buyer.ReferredByCode, reward,
		)
		if err != nil {
			return false, fmt.Errorf("%w: credit referral: %v", payment.ErrTransactionFailed, err)
		}
		metrics.ReferralCreditsTotal.Inc()
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payment_locks SET status = 'completed' WHERE gaming_id = $1 AND amount = $2 AND status = 'active'`,
		order.GamingID, order.FinalPrice,
	)
	if err != nil {
		return false, fmt.Errorf("%w: complete lock: %v", payment.ErrTransactionFailed, err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return true, nil
		}
		return false, fmt.Errorf("%w: commit: %v", payment.ErrTransactionFailed, err)
	}

	return false, nil
}

func (e *Engine) orderExists(ctx context.Context, externalReference string) (bool, error) {
	return db.Exists(ctx, e.db,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE external_reference = $1)`,
		externalReference,
	)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
