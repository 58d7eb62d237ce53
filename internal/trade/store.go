package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/minsukim/fishmarket-api/internal/pricing"
	"github.com/minsukim/fishmarket-api/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound is returned when no trade carries the requested ID.
var ErrNotFound = errors.New("trade not found")

// Store is the gateway to the trade history collection. It holds no
// state of its own, it only transports trades.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FetchHistory returns all trades ordered by creation time descending.
// The returned slice is always usable: on a storage failure it is empty
// and the error reports the degradation, so read paths can still render.
func (s *Store) FetchHistory(ctx context.Context) ([]types.Trade, error) {
	var records []Record
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		log.Error().Err(err).Msg("failed to load trade history")
		return []types.Trade{}, err
	}

	return lo.Map(records, func(r Record, _ int) types.Trade {
		return r.toTrade()
	}), nil
}

// CreateTrade persists a new trade. Any client-supplied ID is discarded:
// the store assigns the ID and the creation timestamp, and the stored
// trade is returned with both filled in.
func (s *Store) CreateTrade(ctx context.Context, t types.Trade) (types.Trade, error) {
	cartJSON, err := json.Marshal(t.Cart)
	if err != nil {
		return types.Trade{}, fmt.Errorf("failed to encode cart: %w", err)
	}

	record := Record{
		TradeID:      uuid.New().String(),
		CustomerName: t.CustomerName,
		Date:         t.Date,
		CartJSON:     string(cartJSON),
		TotalAmount:  pricing.CalculateTradeTotal(t.Cart).TotalAmount,
		CreatedAt:    time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return types.Trade{}, err
	}

	return record.toTrade(), nil
}

// UpdateTrade merge-patches the record identified by tradeID: nil patch
// fields leave the stored values untouched. Returns the updated trade.
func (s *Store) UpdateTrade(ctx context.Context, tradeID string, patch types.TradePatch) (types.Trade, error) {
	var record Record
	if err := s.db.WithContext(ctx).Where("trade_id = ?", tradeID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Trade{}, ErrNotFound
		}
		return types.Trade{}, err
	}

	if patch.CustomerName != nil {
		record.CustomerName = *patch.CustomerName
	}
	if patch.Date != nil {
		record.Date = *patch.Date
	}
	if patch.Cart != nil {
		cartJSON, err := json.Marshal(*patch.Cart)
		if err != nil {
			return types.Trade{}, fmt.Errorf("failed to encode cart: %w", err)
		}
		record.CartJSON = string(cartJSON)
		record.TotalAmount = pricing.CalculateTradeTotal(*patch.Cart).TotalAmount
	}

	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return types.Trade{}, err
	}

	return record.toTrade(), nil
}

// DeleteTrade removes the record by ID.
func (s *Store) DeleteTrade(ctx context.Context, tradeID string) error {
	result := s.db.WithContext(ctx).Where("trade_id = ?", tradeID).Delete(&Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
