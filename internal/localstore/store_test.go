package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukim/fishmarket-api/internal/types"
)

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	favorites := []types.Favorite{
		{ID: 1, Name: "광어", Unit: types.UnitKg, Price: 30000},
		{ID: 2, Name: "멍게", Unit: types.UnitPiece, Price: 0},
	}
	customers := []types.CustomerFavorite{
		{ID: 3, Name: "동해수산"},
	}

	store.SaveSettings(favorites, customers)

	settings := store.LoadSettings()
	assert.Equal(t, favorites, settings.FishFavorites)
	assert.Equal(t, customers, settings.CustomerFavorites)
}

func TestLoadSettingsDefaultsWhenAbsent(t *testing.T) {
	store := NewStore(t.TempDir())

	settings := store.LoadSettings()
	assert.NotNil(t, settings.FishFavorites)
	assert.NotNil(t, settings.CustomerFavorites)
	assert.Empty(t, settings.FishFavorites)
	assert.Empty(t, settings.CustomerFavorites)
}

func TestLoadSettingsDefaultsWhenCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsKey+".json"), []byte("{not json"), 0o644))

	store := NewStore(dir)

	settings := store.LoadSettings()
	assert.Empty(t, settings.FishFavorites)
	assert.Empty(t, settings.CustomerFavorites)
}

func TestShopInfoNilSentinelWhenAbsent(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.Nil(t, store.LoadShopInfo())
}

func TestShopInfoRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	info := types.ShopInfo{
		Name:     "민수수산",
		Owner:    "김민수",
		Mobile:   "010-1234-5678",
		Account1: "수협 123-456-789",
	}
	store.SaveShopInfo(info)

	loaded := store.LoadShopInfo()
	require.NotNil(t, loaded)
	assert.Equal(t, info, *loaded)
}

func TestReadSurvivesFileRemoval(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	info := types.ShopInfo{Name: "민수수산"}
	store.SaveShopInfo(info)

	// The cache keeps serving the last written blob even when the file
	// disappears underneath it.
	require.NoError(t, os.Remove(filepath.Join(dir, shopInfoKey+".json")))

	loaded := store.LoadShopInfo()
	require.NotNil(t, loaded)
	assert.Equal(t, info, *loaded)
}
