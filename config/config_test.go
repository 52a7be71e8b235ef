package config

import (
	"testing"
	"time"

	"github.com/bellapacxx/bingo-caller/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "DEFAULT_BET_AMOUNT", "DEFAULT_HOUSE_EDGE", "DEFAULT_PATTERN",
		"DRAW_INTERVAL", "ALLOWED_ORIGINS", "AUTO_CREATE_ON_ACTIVATE", "HISTORY_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "10", cfg.DefaultBet.String())
	assert.Equal(t, "15", cfg.DefaultEdge.String())
	assert.Equal(t, "fullHouse", cfg.DefaultPattern)
	assert.Equal(t, 6*time.Second, cfg.DrawInterval)
	assert.True(t, cfg.AutoCreate)
	assert.Equal(t, 20, cfg.HistorySize)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_BET_AMOUNT", "2.50")
	t.Setenv("DRAW_INTERVAL", "1500ms")
	t.Setenv("AUTO_CREATE_ON_ACTIVATE", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "2.5", cfg.DefaultBet.String())
	assert.Equal(t, 1500*time.Millisecond, cfg.DrawInterval)
	assert.False(t, cfg.AutoCreate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DRAW_INTERVAL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "DRAW_INTERVAL")
}

func TestLoadRejectsNegativeHistory(t *testing.T) {
	t.Setenv("HISTORY_SIZE", "-1")
	_, err := Load()
	assert.ErrorContains(t, err, "HISTORY_SIZE")

	t.Setenv("HISTORY_SIZE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.HistorySize)
}

func TestSetupDatabaseRequiresDSN(t *testing.T) {
	_, err := SetupDatabase("")
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []interface{}{&models.Game{}, &models.Player{}, &models.Card{}, &models.Transaction{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
