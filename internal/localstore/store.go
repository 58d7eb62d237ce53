package localstore

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/minsukim/fishmarket-api/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Blob keys. One JSON file per key under the data directory.
const (
	settingsKey = "app_settings"
	shopInfoKey = "shop_info"
)

// Store is a best-effort key-value blob store for settings and the shop
// profile. These are low-stakes convenience data: reads fall back to
// defaults and write failures are logged and swallowed, never surfaced.
type Store struct {
	dir   string
	cache *gocache.Cache
}

func NewStore(dir string) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to create local store directory")
	}

	return &Store{
		dir:   dir,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// LoadSettings returns the saved favorites bundle, or empty lists when
// nothing usable is stored.
func (s *Store) LoadSettings() types.Settings {
	settings := types.Settings{
		FishFavorites:     []types.Favorite{},
		CustomerFavorites: []types.CustomerFavorite{},
	}
	s.read(settingsKey, &settings)

	// Blobs written by older builds may carry null lists.
	if settings.FishFavorites == nil {
		settings.FishFavorites = []types.Favorite{}
	}
	if settings.CustomerFavorites == nil {
		settings.CustomerFavorites = []types.CustomerFavorite{}
	}

	return settings
}

// SaveSettings persists both favorite lists as one unit, best effort.
func (s *Store) SaveSettings(favorites []types.Favorite, customerFavorites []types.CustomerFavorite) {
	s.write(settingsKey, types.Settings{
		FishFavorites:     favorites,
		CustomerFavorites: customerFavorites,
	})
}

// LoadShopInfo returns the saved shop profile, or nil when none is
// stored. The caller decides the default.
func (s *Store) LoadShopInfo() *types.ShopInfo {
	var info types.ShopInfo
	if !s.read(shopInfoKey, &info) {
		return nil
	}
	return &info
}

// SaveShopInfo persists the shop profile wholesale, best effort.
func (s *Store) SaveShopInfo(info types.ShopInfo) {
	s.write(shopInfoKey, info)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) read(key string, v interface{}) bool {
	if cached, ok := s.cache.Get(key); ok {
		if err := json.Unmarshal(cached.([]byte), v); err == nil {
			return true
		}
	}

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("key", key).Msg("local store read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("local store blob corrupt")
		return false
	}

	s.cache.Set(key, raw, gocache.NoExpiration)
	return true
}

func (s *Store) write(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("local store encode failed")
		return
	}

	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("local store write failed")
		return
	}

	s.cache.Set(key, raw, gocache.NoExpiration)
}
