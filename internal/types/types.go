package types

import "time"

// Units a cart item can be priced in.
const (
	UnitKg    = "kg"    // priced per kilogram, Weight holds kilograms
	UnitPiece = "piece" // priced per piece, Weight holds a count
)

// CartItem is one line of an in-progress trade. Weight doubles as the
// count for piece-priced items.
type CartItem struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Unit   string  `json:"unit"` // kg or piece
	Price  float64 `json:"price"`
	Weight float64 `json:"weight"`
}

// Trade is one persisted transaction record. ID is empty until the
// trade is first saved; the store assigns it along with CreatedAt.
type Trade struct {
	ID           string     `json:"id,omitempty"`
	CustomerName string     `json:"customer_name"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Cart         []CartItem `json:"cart"`
	TotalAmount  float64    `json:"total_amount"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TradePatch is a merge-update payload. Nil fields leave the stored
// value untouched.
type TradePatch struct {
	CustomerName *string     `json:"customer_name,omitempty"`
	Date         *string     `json:"date,omitempty"`
	Cart         *[]CartItem `json:"cart,omitempty"`
}

// TradeTotal is the calculator result for a cart.
type TradeTotal struct {
	SubTotal    float64 `json:"sub_total"`
	Commission  float64 `json:"commission"`
	TotalAmount float64 `json:"total_amount"`
}

// ShopInfo is the vendor's business profile printed on receipts.
// There is a single record per installation, no history.
type ShopInfo struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Mobile   string `json:"mobile"`
	Phone    string `json:"phone"`
	Fax      string `json:"fax"`
	Account1 string `json:"account1"`
	Account2 string `json:"account2"`
}

// Favorite is a pinned product shortcut carrying its default unit and
// price for faster re-entry.
type Favorite struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
}

// CustomerFavorite is a pinned customer name.
type CustomerFavorite struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Settings bundles both favorite lists. They are always persisted
// together as one unit, even when only one of them changed.
type Settings struct {
	FishFavorites     []Favorite         `json:"fishFavorites"`
	CustomerFavorites []CustomerFavorite `json:"customerFavorites"`
}
