package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sm8ta/webike_bike_registry/internal/adapter/logger"
)

func TestMigrate_LogsThroughApplicationLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dsn := filepath.Join(t.TempDir(), "bikes.db")
	opts := Options{
		Driver:        "sqlite3",
		DSN:           dsn,
		MigrationsDir: "migrations",
		Logger:        logger.NewFromZap(zap.New(core)),
	}

	gw, err := Open(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	applied := logs.FilterMessage("OK    00001_create_bikes.sql").All()
	require.Len(t, applied, 1)
	assert.Equal(t, "migrations", applied[0].ContextMap()["component"])

	// Reopening applies nothing.
	logs.TakeAll()
	gw, err = Open(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	entries := logs.TakeAll()
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[len(entries)-1].Message, "goose: no migrations to run")
}

func TestMigrateLogger_NilLogDropsOutput(t *testing.T) {
	l := &migrateLogger{}

	assert.NotPanics(t, func() {
		l.Print("a")
		l.Println("b")
		l.Printf("%s", "c")
	})
}
