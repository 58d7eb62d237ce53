package migrations

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/minsukim/fishmarket-api/internal/pricing"
	"github.com/minsukim/fishmarket-api/internal/trade"
	"github.com/minsukim/fishmarket-api/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BackfillTradeTotals recomputes the denormalized total_amount column
// for rows written before the column existed. Rows whose cart snapshot
// cannot be decoded are skipped rather than failing the migration.
func BackfillTradeTotals(db *gorm.DB) error {
	var records []trade.Record
	if err := db.Where("total_amount = ?", 0).Find(&records).Error; err != nil {
		return err
	}

	for _, record := range records {
		if record.CartJSON == "" {
			continue
		}

		var cart []types.CartItem
		if err := json.Unmarshal([]byte(record.CartJSON), &cart); err != nil {
			log.Warn().Err(err).Str("trade_id", record.TradeID).Msg("skipping trade with corrupt cart snapshot")
			continue
		}

		total := pricing.CalculateTradeTotal(cart).TotalAmount
		if total == 0 {
			continue
		}

		if err := db.Model(&trade.Record{}).
			Where("id = ?", record.ID).
			Update("total_amount", total).Error; err != nil {
			return err
		}
	}

	return nil
}
