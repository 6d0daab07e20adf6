package activity

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, l.Record(ctx, Event{Kind: KindLogin, Status: "ok", Time: base}))
	require.NoError(t, l.Record(ctx, Event{Kind: KindUpload, Status: "ok", Detail: "2 runs", Time: base.Add(time.Minute)}))
	require.NoError(t, l.Record(ctx, Event{Kind: KindContact, Status: "sent", Time: base.Add(2 * time.Minute)}))

	events, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, KindContact, events[0].Kind)
	assert.Equal(t, KindUpload, events[1].Kind)
	assert.Equal(t, "2 runs", events[1].Detail)
	assert.Equal(t, base.Add(time.Minute), events[1].Time)
	assert.Len(t, events[0].ID, 26)
}

func TestRecordAssignsTime(t *testing.T) {
	l := openTestLog(t)
	fixed := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	require.NoError(t, l.Record(context.Background(), Event{Kind: KindLogin, Status: "failed"}))
	events, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Time)
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(context.Background(), Event{Kind: KindUpload, Status: "ok"}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	events, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NoError(t, r.Record(context.Background(), Event{}))
	events, err := r.Recent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, events)
}
