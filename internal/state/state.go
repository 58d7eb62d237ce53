package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/minsukim/fishmarket-api/internal/localstore"
	"github.com/minsukim/fishmarket-api/internal/trade"
	"github.com/minsukim/fishmarket-api/internal/types"
	"github.com/minsukim/fishmarket-api/pkg/metrics"
)

var (
	// ErrValidation rejects a request before any state mutation or
	// store call happens.
	ErrValidation = errors.New("missing required fields")

	// ErrNotConfirmed refuses a delete that lacks the explicit user
	// acknowledgement.
	ErrNotConfirmed = errors.New("delete requires confirmation")
)

// ProductInput is what consumers submit when adding to the cart.
type ProductInput struct {
	Name  string  `json:"name" validate:"required"`
	Unit  string  `json:"unit" validate:"required,oneof=kg piece"`
	// required rejects a zero price: the entry form treats an empty
	// price the same as a missing one.
	Price float64 `json:"price" validate:"required,gte=0"`
}

// TradeInput is a save request. An empty ID means create; a non-empty
// ID routes to a merge update of the existing trade.
type TradeInput struct {
	ID           string           `json:"id"`
	CustomerName string           `json:"customer_name" validate:"required"`
	Date         string           `json:"date"` // YYYY-MM-DD
	Cart         []types.CartItem `json:"cart" validate:"min=1"`
}

// Manager owns all application state: the in-progress cart, the saved
// trade history, both favorite lists and the shop profile. Consumers
// interact only through its operations; slices handed out are copies.
type Manager struct {
	mu                sync.Mutex
	cart              []types.CartItem
	history           []types.Trade
	favorites         []types.Favorite
	customerFavorites []types.CustomerFavorite
	shopInfo          types.ShopInfo
	loading           bool
	lastItemID        int64

	trades   *trade.Store
	local    *localstore.Store
	notifier Notifier
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewManager wires the state manager to its two gateways. A nil
// notifier falls back to the logging sink.
func NewManager(trades *trade.Store, local *localstore.Store, notifier Notifier) *Manager {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &Manager{
		cart:              []types.CartItem{},
		history:           []types.Trade{},
		favorites:         []types.Favorite{},
		customerFavorites: []types.CustomerFavorite{},
		loading:           true,
		trades:            trades,
		local:             local,
		notifier:          notifier,
		validate:          validator.New(),
		logger:            log.With().Str("component", "trade_state").Logger(),
		now:               time.Now,
	}
}

// Load populates all state slices at startup. The three fetches are
// independent and run concurrently; each slice falls back to its
// default when its branch degrades, and a single failure notification
// covers the lot.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	var (
		history  []types.Trade
		settings types.Settings
		shopInfo *types.ShopInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history, err = m.trades.FetchHistory(gctx)
		return err
	})
	g.Go(func() error {
		settings = m.local.LoadSettings()
		return nil
	})
	g.Go(func() error {
		shopInfo = m.local.LoadShopInfo()
		return nil
	})
	err := g.Wait()

	m.mu.Lock()
	m.history = history
	m.favorites = settings.FishFavorites
	m.customerFavorites = settings.CustomerFavorites
	if shopInfo != nil && shopInfo.Name != "" {
		m.shopInfo = *shopInfo
	}
	m.loading = false
	m.mu.Unlock()

	if err != nil {
		m.logger.Error().Err(err).Msg("initial data load degraded")
		m.notifier.Error("데이터를 불러오지 못했습니다.")
	}
}

// AddToCart merges by product identity: an item matching name, unit and
// price exactly gets its weight bumped by one; anything else becomes a
// new row with weight 1.
func (m *Manager) AddToCart(product ProductInput) (types.CartItem, error) {
	if err := m.validate.Struct(product); err != nil {
		m.notifier.Warn("어종과 단가를 입력해주세요!")
		return types.CartItem{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, item := range m.cart {
		if item.Name == product.Name && item.Unit == product.Unit && item.Price == product.Price {
			m.cart[i].Weight++
			m.notifier.Info(product.Name + " 수량 추가됨")
			return m.cart[i], nil
		}
	}

	item := types.CartItem{
		ID:     m.nextItemID(),
		Name:   product.Name,
		Unit:   product.Unit,
		Price:  product.Price,
		Weight: 1,
	}
	m.cart = append(m.cart, item)
	return item, nil
}

// RemoveFromCart drops the item with the given ID. Unknown IDs are a
// no-op.
func (m *Manager) RemoveFromCart(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart = lo.Filter(m.cart, func(item types.CartItem, _ int) bool {
		return item.ID != id
	})
}

// UpdateCartItem writes a numeric field on one cart row. The value is
// parsed leniently: anything that is not a number becomes 0, matching
// how the entry form behaves. Unknown fields and unknown IDs are no-ops.
func (m *Manager) UpdateCartItem(id int64, field, value string) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		parsed = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.cart {
		if m.cart[i].ID != id {
			continue
		}
		switch field {
		case "price":
			m.cart[i].Price = parsed
		case "weight":
			m.cart[i].Weight = parsed
		}
		return
	}
}

// ClearCart resets the cart to an empty sequence.
func (m *Manager) ClearCart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = []types.CartItem{}
}

// SetCartItems replaces the cart wholesale. Used when re-opening a
// saved trade for editing.
func (m *Manager) SetCartItems(items []types.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = append([]types.CartItem{}, items...)
}

// SaveTrade persists the trade and folds the result into history. When
// the input carries no cart, the current in-progress cart is used. A
// nil error is the success signal callers navigate on; on failure the
// in-memory history is left untouched.
func (m *Manager) SaveTrade(ctx context.Context, input TradeInput) (types.Trade, error) {
	if len(input.Cart) == 0 {
		input.Cart = m.Cart()
	}
	if err := m.validate.Struct(input); err != nil {
		m.notifier.Warn("거래처 이름과 상품을 입력해주세요!")
		return types.Trade{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if input.ID != "" {
		return m.updateTrade(ctx, input)
	}
	return m.createTrade(ctx, input)
}

func (m *Manager) createTrade(ctx context.Context, input TradeInput) (types.Trade, error) {
	created, err := m.trades.CreateTrade(ctx, types.Trade{
		CustomerName: input.CustomerName,
		Date:         input.Date,
		Cart:         input.Cart,
	})
	if err != nil {
		m.logger.Error().Err(err).Msg("trade create failed")
		m.notifier.Error("저장 실패")
		metrics.TradeSaveFailures.Inc()
		return types.Trade{}, err
	}

	m.mu.Lock()
	m.history = append([]types.Trade{created}, m.history...)
	m.mu.Unlock()

	metrics.TradesCreated.Inc()
	m.notifier.Success("저장되었습니다!")
	return created, nil
}

func (m *Manager) updateTrade(ctx context.Context, input TradeInput) (types.Trade, error) {
	patch := types.TradePatch{
		CustomerName: &input.CustomerName,
		Date:         &input.Date,
		Cart:         &input.Cart,
	}

	updated, err := m.trades.UpdateTrade(ctx, input.ID, patch)
	if err != nil {
		m.logger.Error().Err(err).Str("trade_id", input.ID).Msg("trade update failed")
		m.notifier.Error("저장 실패")
		metrics.TradeSaveFailures.Inc()
		return types.Trade{}, err
	}

	m.mu.Lock()
	m.history = lo.Map(m.history, func(t types.Trade, _ int) types.Trade {
		if t.ID == updated.ID {
			return updated
		}
		return t
	})
	m.mu.Unlock()

	metrics.TradesUpdated.Inc()
	m.notifier.Success("수정되었습니다!")
	return updated, nil
}

// DeleteTrade removes a trade for good. The confirmed flag carries the
// explicit user acknowledgement; without it nothing is touched, remote
// or local.
func (m *Manager) DeleteTrade(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := m.trades.DeleteTrade(ctx, id); err != nil {
		m.logger.Error().Err(err).Str("trade_id", id).Msg("trade delete failed")
		m.notifier.Error("삭제 실패")
		metrics.TradeSaveFailures.Inc()
		return err
	}

	m.mu.Lock()
	m.history = lo.Filter(m.history, func(t types.Trade, _ int) bool {
		return t.ID != id
	})
	m.mu.Unlock()

	metrics.TradesDeleted.Inc()
	m.notifier.Info("삭제되었습니다.")
	return nil
}

// SetFavorites replaces the product favorites outright.
func (m *Manager) SetFavorites(favorites []types.Favorite) {
	m.applyFavorites(func([]types.Favorite) []types.Favorite {
		return favorites
	})
}

// UpdateFavorites applies a pure transform to the previous list.
func (m *Manager) UpdateFavorites(fn func([]types.Favorite) []types.Favorite) {
	m.applyFavorites(fn)
}

// SetCustomerFavorites replaces the customer favorites outright.
func (m *Manager) SetCustomerFavorites(customers []types.CustomerFavorite) {
	m.applyCustomerFavorites(func([]types.CustomerFavorite) []types.CustomerFavorite {
		return customers
	})
}

// UpdateCustomerFavorites applies a pure transform to the previous list.
func (m *Manager) UpdateCustomerFavorites(fn func([]types.CustomerFavorite) []types.CustomerFavorite) {
	m.applyCustomerFavorites(fn)
}

func (m *Manager) applyFavorites(fn func([]types.Favorite) []types.Favorite) {
	m.mu.Lock()
	m.favorites = fn(m.favorites)
	if m.favorites == nil {
		m.favorites = []types.Favorite{}
	}
	favorites := append([]types.Favorite{}, m.favorites...)
	customers := append([]types.CustomerFavorite{}, m.customerFavorites...)
	m.mu.Unlock()

	// Both lists persist together even when only one changed.
	m.local.SaveSettings(favorites, customers)
}

func (m *Manager) applyCustomerFavorites(fn func([]types.CustomerFavorite) []types.CustomerFavorite) {
	m.mu.Lock()
	m.customerFavorites = fn(m.customerFavorites)
	if m.customerFavorites == nil {
		m.customerFavorites = []types.CustomerFavorite{}
	}
	favorites := append([]types.Favorite{}, m.favorites...)
	customers := append([]types.CustomerFavorite{}, m.customerFavorites...)
	m.mu.Unlock()

	m.local.SaveSettings(favorites, customers)
}

// UpdateShopInfo replaces the shop profile wholesale and persists it.
// Unlike trades there are no merge semantics here.
func (m *Manager) UpdateShopInfo(info types.ShopInfo) {
	m.mu.Lock()
	m.shopInfo = info
	m.mu.Unlock()

	m.local.SaveShopInfo(info)
}

// Cart returns a copy of the in-progress cart.
func (m *Manager) Cart() []types.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.CartItem{}, m.cart...)
}

// History returns a copy of the saved trades, newest first.
func (m *Manager) History() []types.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Trade{}, m.history...)
}

// TradeByID looks a trade up in the loaded history.
func (m *Manager) TradeByID(id string) (types.Trade, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Find(m.history, func(t types.Trade) bool {
		return t.ID == id
	})
}

// Favorites returns a copy of the product favorites.
func (m *Manager) Favorites() []types.Favorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Favorite{}, m.favorites...)
}

// CustomerFavorites returns a copy of the customer favorites.
func (m *Manager) CustomerFavorites() []types.CustomerFavorite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.CustomerFavorite{}, m.customerFavorites...)
}

// ShopInfo returns the current shop profile.
func (m *Manager) ShopInfo() types.ShopInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shopInfo
}

// Loading reports whether the initial load is still in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// nextItemID hands out creation-timestamp IDs. Two items created inside
// the same millisecond must still get distinct IDs. Callers hold mu.
func (m *Manager) nextItemID() int64 {
	id := m.now().UnixMilli()
	if id <= m.lastItemID {
		id = m.lastItemID + 1
	}
	m.lastItemID = id
	return id
}
