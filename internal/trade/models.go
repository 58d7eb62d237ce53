package trade

import (
	"time"

	"gorm.io/gorm"

	"github.com/minsukim/fishmarket-api/internal/types"
)

// Record is the stored form of a trade. The cart snapshot lives in a
// JSON column; it is only ever written and read back whole.
type Record struct {
	gorm.Model   `json:"-"`
	TradeID      string    `gorm:"uniqueIndex" json:"trade_id"`
	CustomerName string    `json:"customer_name"`
	Date         string    `json:"date"` // YYYY-MM-DD
	CartJSON     string    `json:"-"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r Record) toTrade() types.Trade {
	var cart []types.CartItem
	if r.CartJSON != "" {
		if err := json.Unmarshal([]byte(r.CartJSON), &cart); err != nil {
			// A corrupt snapshot renders as an empty cart rather than
			// taking the whole history down with it.
			cart = nil
		}
	}

	return types.Trade{
		ID:           r.TradeID,
		CustomerName: r.CustomerName,
		Date:         r.Date,
		Cart:         cart,
		TotalAmount:  r.TotalAmount,
		CreatedAt:    r.CreatedAt,
	}
}
