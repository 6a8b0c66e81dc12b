package audit

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySink struct {
	mu      sync.Mutex
	records []Record
	fail    error
}

func (m *memorySink) Append(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.records = append(m.records, rec)
	return nil
}

func openSpool(t *testing.T) *BoltSpool {
	t.Helper()
	s, err := OpenBoltSpool(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_MarshalsSnapshots(t *testing.T) {
	entity := uuid.New()
	rec, err := New(uuid.New(), ActionDeleted, entity, map[string]int{"guest_count": 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, EntityReservation, rec.EntityType)
	assert.Equal(t, entity, rec.EntityID)
	assert.JSONEq(t, `{"guest_count":2}`, string(rec.Before))
	assert.Nil(t, rec.After)
	assert.False(t, rec.OccurredAt.IsZero())
}

func TestRecorder_AppendsToSink(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(sink, nil, zap.NewNop())

	rec, err := New(uuid.New(), ActionCreated, uuid.New(), nil, map[string]string{"code": "RS-ABCDEF"})
	require.NoError(t, err)
	r.Record(context.Background(), rec)

	require.Len(t, sink.records, 1)
	assert.Equal(t, rec.ID, sink.records[0].ID)
}

func TestRecorder_SpoolsOnFailureAndReplays(t *testing.T) {
	sink := &memorySink{fail: errors.New("db unavailable")}
	spool := openSpool(t)
	r := NewRecorder(sink, spool, zap.NewNop())

	first, _ := New(uuid.New(), ActionCreated, uuid.New(), nil, nil)
	second, _ := New(uuid.New(), ActionCheckedIn, uuid.New(), nil, nil)
	r.Record(context.Background(), first)
	r.Record(context.Background(), second)

	n, err := spool.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = r.Replay(context.Background())
	assert.Error(t, err)

	sink.fail = nil
	replayed, err := r.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, replayed)
	require.Len(t, sink.records, 2)
	assert.Equal(t, first.ID, sink.records[0].ID)
	assert.Equal(t, second.ID, sink.records[1].ID)

	n, err = spool.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRecorder_ReplayWithoutSpool(t *testing.T) {
	r := NewRecorder(&memorySink{}, nil, zap.NewNop())
	n, err := r.Replay(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
