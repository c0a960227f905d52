package product

import "time"

// Product is the catalog read side. Monetary fields are in paise.
// A coin product mints Quantity coins into the buyer's balance instead of
// delivering a game item; its effective price is PurchasePrice when set,
// otherwise Price.
type Product struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Price           int64     `db:"price" json:"price"`
	PurchasePrice   *int64    `db:"purchase_price" json:"purchase_price,omitempty"`
	CoinsApplicable int64     `db:"coins_applicable" json:"coins_applicable"`
	IsCoinProduct   bool      `db:"is_coin_product" json:"is_coin_product"`
	Quantity        int64     `db:"quantity" json:"quantity"`
	ImageURL        string    `db:"image_url" json:"image_url"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// EffectivePrice is what a coin-product buyer actually pays.
func (p *Product) EffectivePrice() int64 {
	if p.IsCoinProduct && p.PurchasePrice != nil {
		return *p.PurchasePrice
	}
	return p.Price
}
