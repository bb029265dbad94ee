package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func TestReadPasswordFromPipe(t *testing.T) {
	var prompt bytes.Buffer
	password, err := readPassword(strings.NewReader("s3cret!\n"), &prompt)
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", password)
	assert.Empty(t, prompt.String())

	password, err = readPassword(strings.NewReader("no-newline"), &prompt)
	require.NoError(t, err)
	assert.Equal(t, "no-newline", password)
}

func TestBroadcastReachesEveryUser(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(ctx))

	var users []*models.User
	for _, email := range []string{"a@example.com", "b@example.com"} {
		u := &models.User{Name: email, Email: email, PasswordHash: "hash"}
		require.NoError(t, db.CreateUser(ctx, u))
		users = append(users, u)
	}

	outbox, err := notify.OpenOutbox(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	defer outbox.Close()
	dispatcher := notify.NewDispatcher(outbox, notify.StoreSink{DB: db}, notify.Options{Workers: 1})
	dispatcher.Start()

	sent, err := broadcast(ctx, db, dispatcher, "Welcome!")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	dispatcher.Stop()

	for _, u := range users {
		got, err := db.GetNotificationsByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Welcome!", got[0].Message)
	}

	_, err = broadcast(ctx, db, dispatcher, "")
	assert.Error(t, err)
}

func TestPrintOutboxListsPendingAndDead(t *testing.T) {
	outbox, err := notify.OpenOutbox(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	defer outbox.Close()

	now := time.Now().UTC()
	require.NoError(t, outbox.Put(notify.Message{ID: "m1", UserID: "u1", Text: "Budget renewed", CreatedAt: now}))
	require.NoError(t, outbox.Bury(notify.Message{ID: "m2", UserID: "u2", Attempts: 5, LastError: "sink down", CreatedAt: now}))

	var out bytes.Buffer
	require.NoError(t, printOutbox(&out, outbox))
	assert.Contains(t, out.String(), "Pending: 1")
	assert.Contains(t, out.String(), `m1  user=u1  attempts=0  "Budget renewed"`)
	assert.Contains(t, out.String(), "Dead: 1")
	assert.Contains(t, out.String(), "m2  user=u2  attempts=5  last error: sink down")
}
