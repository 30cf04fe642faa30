package dao

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, driver Driver) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Driver = driver
	cfg.DataDir = filepath.Join(t.TempDir(), "storage")
	return cfg
}

func TestNewUnsupportedDriver(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := New(cfg, logger.NewNoop())
	assert.Error(t, err)
}

func TestFileStoreInitializesMissingFiles(t *testing.T) {
	cfg := testConfig(t, DriverJSON)

	s, err := New(cfg, logger.NewNoop())
	require.NoError(t, err)
	defer s.Close()

	userData, err := os.ReadFile(filepath.Join(cfg.DataDir, cfg.UserFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(userData))

	giftData, err := os.ReadFile(filepath.Join(cfg.DataDir, cfg.GiftFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"level1": {"level1": {}, "level2": {}, "level3": {}},
		"level2": {"level1": {}, "level2": {}, "level3": {}},
		"level3": {"level1": {}, "level2": {}, "level3": {}},
		"level4": {"level1": {}, "level2": {}, "level3": {}}
	}`, string(giftData))
}

func TestFileStoreInitializesEmptyFiles(t *testing.T) {
	cfg := testConfig(t, DriverJSON)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, cfg.UserFile), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, cfg.GiftFile), []byte("{}"), 0644))

	s, err := NewFileStore(cfg, logger.NewNoop())
	require.NoError(t, err)

	users, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)

	inv, err := s.LoadInventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.NewInventory(), inv)
}

func TestFileStoreKeepsExistingGifts(t *testing.T) {
	cfg := testConfig(t, DriverJSON)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))
	doc := `{"level1":{"level1":{"mug":{"name":"mug","count":2}},"level2":{},"level3":{}}}`
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, cfg.GiftFile), []byte(doc), 0644))

	s, err := NewFileStore(cfg, logger.NewNoop())
	require.NoError(t, err)

	data, err := os.ReadFile(s.GiftPath())
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(data))
}

func TestFileStorePathChecks(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		cfg := testConfig(t, DriverJSON)
		cfg.UserFile = "user.txt"
		_, err := NewFileStore(cfg, logger.NewNoop())
		assert.True(t, errors.Is(err, model.ErrNotJSON))
	})

	t.Run("directory", func(t *testing.T) {
		cfg := testConfig(t, DriverJSON)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.DataDir, cfg.GiftFile), 0755))
		_, err := NewFileStore(cfg, logger.NewNoop())
		assert.True(t, errors.Is(err, model.ErrNotFile))
	})
}

func TestFileStoreCancelledContext(t *testing.T) {
	s, err := NewFileStore(testConfig(t, DriverJSON), logger.NewNoop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.LoadUsers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.SaveInventory(ctx, model.NewInventory()), context.Canceled)
}

func TestStoreRoundTrip(t *testing.T) {
	for _, driver := range []Driver{DriverJSON, DriverBolt} {
		t.Run(string(driver), func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx := context.Background()

			s, err := New(cfg, logger.NewNoop())
			require.NoError(t, err)

			users, err := s.LoadUsers(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)

			inv, err := s.LoadInventory(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.NewInventory(), inv)

			users["shilei"] = model.NewUser("shilei", model.RoleAdmin)
			users["pengli"] = model.NewUser("pengli", model.RoleNormal)
			users["pengli"].Gift = append(users["pengli"].Gift, "mug")
			require.NoError(t, s.SaveUsers(ctx, users))

			_, err = inv.Add(model.Level2, model.Level3, "lamp", 4)
			require.NoError(t, err)
			require.NoError(t, s.SaveInventory(ctx, inv))
			require.NoError(t, s.Close())

			// 重新打开后数据仍在
			s, err = New(cfg, logger.NewNoop())
			require.NoError(t, err)
			defer s.Close()

			gotUsers, err := s.LoadUsers(ctx)
			require.NoError(t, err)
			require.Len(t, gotUsers, 2)
			assert.Equal(t, model.RoleAdmin, gotUsers["shilei"].Role)
			assert.Equal(t, []string{}, gotUsers["shilei"].Gift)
			assert.Equal(t, []string{"mug"}, gotUsers["pengli"].Gift)
			assert.InDelta(t, float64(users["pengli"].CreateTime), float64(gotUsers["pengli"].CreateTime), 1e-6)

			gotInv, err := s.LoadInventory(ctx)
			require.NoError(t, err)
			assert.Equal(t, inv, gotInv)
		})
	}
}

func TestDecodeUsersNormalizesGiftList(t *testing.T) {
	users, err := decodeUsers([]byte(`{"a":{"username":"a","role":"normal","active":true,"gift":null},"b":null}`))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, []string{}, users["a"].Gift)

	_, err = decodeUsers([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeInventoryDropsNullGifts(t *testing.T) {
	inv, err := decodeInventory([]byte(`{"level1":{"level1":{"mug":null,"pen":{"name":"pen","count":2}}}}`))
	require.NoError(t, err)
	assert.Equal(t, model.Bucket{"pen": {Name: "pen", Count: 2}}, inv[model.Level1][model.Level1])
	assert.Equal(t, []string{"pen"}, inv.Names())

	_, err = decodeInventory([]byte(`[1,2]`))
	assert.Error(t, err)
}
