package reconcile

import "time"

const (
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
)

// Order snapshots the product at purchase time; product fields are never
// re-read from the catalog after creation. ExternalReference is the
// provider's payment id and carries a unique index, which is what makes
// reconciliation exactly-once.
type Order struct {
	ID                     string    `db:"id" json:"id"`
	GamingID               string    `db:"gaming_id" json:"gaming_id"`
	ProductID              string    `db:"product_id" json:"product_id"`
	ProductName            string    `db:"product_name" json:"product_name"`
	ProductPrice           int64     `db:"product_price" json:"product_price"`
	ProductImageURL        string    `db:"product_image_url" json:"product_image_url"`
	PaymentMethod          string    `db:"payment_method" json:"payment_method"`
	Status                 string    `db:"status" json:"status"`
	ExternalReference      string    `db:"external_reference" json:"external_reference"`
	ReferralCode           *string   `db:"referral_code" json:"referral_code,omitempty"`
	CoinsUsed              int64     `db:"coins_used" json:"coins_used"`
	FinalPrice             int64     `db:"final_price" json:"final_price"`
	IsCoinProduct          bool      `db:"is_coin_product" json:"is_coin_product"`
	CoinsAtTimeOfPurchase  int64     `db:"coins_at_time_of_purchase" json:"coins_at_time_of_purchase"`
	IsPurchaseTracked      bool      `db:"is_purchase_tracked" json:"is_purchase_tracked"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}
