package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sebridge/checkin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	return db
}

func makeRecord(level slog.Level, msg string, args ...any) slog.Record {
	rec := slog.NewRecord(time.Now(), level, msg, 0)
	rec.Add(args...)
	return rec
}

func TestPGHandlerOnlyHandlesErrors(t *testing.T) {
	h := NewPGHandler(newLogDB(t))
	defer h.Stop()

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPGHandlerExtractsKnownAttrs(t *testing.T) {
	db := newLogDB(t)
	h := NewPGHandler(db)
	defer h.Stop()

	rec := makeRecord(slog.LevelError, "finalize failed",
		"site", "greensboro",
		"trace_id", "abc-123",
		"user_email", "a@x.com",
		"action", "finalize",
		"error", "boom",
		"latency_ms", 42,
		"token", "17",
	)
	require.NoError(t, h.Handle(context.Background(), rec))
	h.flush()

	var stored models.SystemLog
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "ERROR", stored.Level)
	assert.Equal(t, "finalize failed", stored.Message)
	assert.Equal(t, "greensboro", stored.Site)
	assert.Equal(t, "abc-123", stored.TraceID)
	require.NotNil(t, stored.UserEmail)
	assert.Equal(t, "a@x.com", *stored.UserEmail)
	assert.Equal(t, "finalize", stored.Action)
	assert.Equal(t, "boom", stored.Error)
	assert.Equal(t, 42, stored.LatencyMs)
	// Unknown keys land in the extra blob.
	assert.Contains(t, string(stored.Extra), "token")
}

func TestMultiHandlerFansOut(t *testing.T) {
	db := newLogDB(t)
	pg := NewPGHandler(db)
	defer pg.Stop()

	discard := slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	multi := NewMultiHandler(discard, pg)

	// INFO goes only to the text handler; ERROR reaches both.
	require.NoError(t, multi.Handle(context.Background(), makeRecord(slog.LevelInfo, "boot")))
	require.NoError(t, multi.Handle(context.Background(), makeRecord(slog.LevelError, "broken")))
	pg.flush()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
