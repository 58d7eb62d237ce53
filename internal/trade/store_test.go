package trade

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/minsukim/fishmarket-api/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// A named in-memory database with a shared cache keeps every pooled
	// connection on the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Record{}))

	return NewStore(db)
}

func sampleCart() []types.CartItem {
	return []types.CartItem{
		{ID: 1, Name: "광어", Unit: types.UnitKg, Price: 1000, Weight: 2},
		{ID: 2, Name: "우럭", Unit: types.UnitPiece, Price: 500, Weight: 1},
	}
}

func TestCreateTradeAssignsID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateTrade(ctx, types.Trade{
		ID:           "client-supplied-must-be-ignored",
		CustomerName: "동해수산",
		Date:         "2026-08-28",
		Cart:         sampleCart(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "client-supplied-must-be-ignored", created.ID)
	assert.Equal(t, "동해수산", created.CustomerName)
	assert.Equal(t, sampleCart(), created.Cart)
	assert.Equal(t, float64(2700), created.TotalAmount)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestFetchHistoryOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		created, err := store.CreateTrade(ctx, types.Trade{
			CustomerName: fmt.Sprintf("거래처-%d", i),
			Date:         "2026-08-28",
			Cart:         sampleCart(),
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	history, err := store.FetchHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Newest created trade comes first.
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[0], history[2].ID)
	for i := 0; i < len(history)-1; i++ {
		assert.False(t, history[i].CreatedAt.Before(history[i+1].CreatedAt))
	}
}

func TestFetchHistoryDegradesToEmpty(t *testing.T) {
	store := newTestStore(t)

	sqlDB, err := store.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	history, err := store.FetchHistory(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestUpdateTradeMergesPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateTrade(ctx, types.Trade{
		CustomerName: "동해수산",
		Date:         "2026-08-28",
		Cart:         sampleCart(),
	})
	require.NoError(t, err)

	newName := "남포수산"
	updated, err := store.UpdateTrade(ctx, created.ID, types.TradePatch{
		CustomerName: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "남포수산", updated.CustomerName)
	assert.Equal(t, created.Date, updated.Date, "date not in patch, must be untouched")
	assert.Equal(t, created.Cart, updated.Cart, "cart not in patch, must be untouched")
	assert.Equal(t, created.TotalAmount, updated.TotalAmount)
}

func TestUpdateTradeRecomputesTotalOnCartChange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateTrade(ctx, types.Trade{
		CustomerName: "동해수산",
		Date:         "2026-08-28",
		Cart:         sampleCart(),
	})
	require.NoError(t, err)

	newCart := []types.CartItem{{ID: 3, Name: "도미", Unit: types.UnitKg, Price: 10000, Weight: 1}}
	updated, err := store.UpdateTrade(ctx, created.ID, types.TradePatch{Cart: &newCart})
	require.NoError(t, err)

	assert.Equal(t, newCart, updated.Cart)
	assert.Equal(t, float64(10800), updated.TotalAmount)
}

func TestUpdateTradeUnknownID(t *testing.T) {
	store := newTestStore(t)

	name := "아무개"
	_, err := store.UpdateTrade(context.Background(), "no-such-trade", types.TradePatch{CustomerName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTrade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateTrade(ctx, types.Trade{
		CustomerName: "동해수산",
		Date:         "2026-08-28",
		Cart:         sampleCart(),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteTrade(ctx, created.ID))

	history, err := store.FetchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, store.DeleteTrade(ctx, created.ID), ErrNotFound)
}
