package dao

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wakeupclock/alarmstore/internal/model"
	"github.com/wakeupclock/alarmstore/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlarm(id, clock string) model.Alarm {
	return model.Alarm{
		ID:         id,
		Time:       clock,
		Enabled:    true,
		Label:      "work",
		Mission:    model.MissionMath,
		Difficulty: model.DifficultyMedium,
		Repeat:     model.RepeatWorkdays,
		CustomDays: []int{},
		CreatedAt:  1,
	}
}

func testRecord(id, date, clock string, ts int64) model.WakeUpRecord {
	return model.WakeUpRecord{
		ID:        id,
		Date:      date,
		Time:      clock,
		Timestamp: ts,
	}
}

func nextSnapshot[T any](t *testing.T, ch <-chan store.Snapshot[T]) store.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed while waiting for snapshot")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return store.Snapshot[T]{}
}
