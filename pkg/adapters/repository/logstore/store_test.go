package logstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAppendLogsVisit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := New(zap.New(core))

	tag, err := store.Append(context.Background(), domain.Visit{
		ID:         "1",
		GuestName:  "Uncle Rajan",
		Timestamp:  time.Date(2026, 2, 22, 9, 0, 0, 0, time.UTC),
		DeviceType: domain.DeviceMobile,
	})
	require.NoError(t, err)
	assert.Equal(t, Backend, tag)

	entries := logs.FilterMessage("wedding visitor").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Uncle Rajan", fields["guest"])
	assert.Equal(t, "Mobile", fields["device"])
}

func TestReadAllIsNotQueryable(t *testing.T) {
	store := New(zap.NewNop())
	snap, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Queryable)
	assert.Empty(t, snap.Visits)
	assert.Equal(t, Backend, snap.Backend)
}
