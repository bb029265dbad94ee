package notify

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

type recordingSink struct {
	mu       sync.Mutex
	fail     bool
	received []Message
}

func (s *recordingSink) Deliver(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("push service unavailable")
	}
	s.received = append(s.received, msg)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

func openTestOutbox(t *testing.T) *Outbox {
	t.Helper()
	outbox, err := OpenOutbox(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { outbox.Close() })
	return outbox
}

func TestOutboxPendingIsOrdered(t *testing.T) {
	outbox := openTestOutbox(t)
	base := time.Now()

	require.NoError(t, outbox.Put(Message{ID: "b", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, outbox.Put(Message{ID: "a", CreatedAt: base}))

	pending, err := outbox.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)

	require.NoError(t, outbox.Ack("a"))
	require.NoError(t, outbox.Ack("missing"))
	pending, err = outbox.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestDispatcherDeliversPublishedMessages(t *testing.T) {
	outbox := openTestOutbox(t)
	sink := &recordingSink{}
	d := NewDispatcher(outbox, sink, Options{Workers: 2})
	d.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Publish(context.Background(), "user-1", "balance changed"))
	}
	d.Stop()

	assert.Equal(t, 5, sink.count())
	pending, err := outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcherKeepsFailedMessagesUntilSweep(t *testing.T) {
	outbox := openTestOutbox(t)
	sink := &recordingSink{fail: true}
	d := NewDispatcher(outbox, sink, Options{Workers: 1, MaxAttempts: 3})
	d.Start()

	require.NoError(t, d.Publish(context.Background(), "user-1", "hello"))
	d.Stop()

	pending, err := outbox.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)

	sink.mu.Lock()
	sink.fail = false
	sink.mu.Unlock()
	require.NoError(t, d.Sweep(context.Background()))

	assert.Equal(t, 1, sink.count())
	pending, err = outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcherBuriesAfterMaxAttempts(t *testing.T) {
	outbox := openTestOutbox(t)
	d := NewDispatcher(outbox, &recordingSink{fail: true}, Options{MaxAttempts: 2})

	require.NoError(t, outbox.Put(Message{ID: "m1", UserID: "u", CreatedAt: time.Now()}))
	require.NoError(t, d.Sweep(context.Background()))
	require.NoError(t, d.Sweep(context.Background()))

	pending, err := outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	dead, err := outbox.Dead()
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, 2, dead[0].Attempts)
	assert.NotEmpty(t, dead[0].LastError)
}

func TestPublishAfterStop(t *testing.T) {
	d := NewDispatcher(openTestOutbox(t), &recordingSink{}, Options{})
	d.Start()
	d.Stop()
	d.Stop()

	err := d.Publish(context.Background(), "u", "late")
	assert.ErrorIs(t, err, ErrStopped)
}

func TestStoreSinkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	user := &models.User{Name: "N", Email: "n@example.com", PasswordHash: "x"}
	require.NoError(t, db.CreateUser(ctx, user))

	sink := StoreSink{DB: db}
	msg := Message{ID: "n-1", UserID: user.ID, Text: "Expense of 40 recorded", CreatedAt: time.Now()}
	require.NoError(t, sink.Deliver(ctx, msg))
	require.NoError(t, sink.Deliver(ctx, msg))

	list, err := db.GetNotificationsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Expense of 40 recorded", list[0].Message)
}
