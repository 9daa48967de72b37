package worker_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"campus-events/config"
	"campus-events/internal/database"
	"campus-events/internal/feed"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/internal/repository/local"
	"campus-events/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshots struct {
	mu  sync.Mutex
	got [][]*model.Event
	ch  chan struct{}
}

func newSnapshots() *snapshots {
	return &snapshots{ch: make(chan struct{}, 16)}
}

func (s *snapshots) record(events []*model.Event) {
	s.mu.Lock()
	s.got = append(s.got, events)
	s.mu.Unlock()
	s.ch <- struct{}{}
}

func (s *snapshots) wait(t *testing.T) []*model.Event {
	t.Helper()
	select {
	case <-s.ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.got[len(s.got)-1]
}

func setup(t *testing.T) (repository.EventRepository, *feed.MemoryEventFeed) {
	t.Helper()
	db, err := database.InitSQLite(&config.LocalConfig{Path: filepath.Join(t.TempDir(), "campus.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return local.NewEventRepository(local.NewStore(db)), feed.NewMemoryEventFeed()
}

func createEvent(t *testing.T, repo repository.EventRepository, f feed.EventFeed, title string) *model.Event {
	t.Helper()
	ctx := context.Background()
	event := &model.Event{ID: uuid.New(), Title: title, Date: "2025-09-05", Time: "10:00", Venue: "Hall", CreatedAt: time.Now().UTC()}
	_, err := repo.Create(ctx, event)
	require.NoError(t, err)
	require.NoError(t, f.Publish(ctx, feed.NewChange(feed.ChangeCreated, event.ID)))
	return event
}

func TestEventWatcher_InitialAndReload(t *testing.T) {
	repo, f := setup(t)
	w := worker.NewEventWatcher(f, repo)
	defer w.Stop()
	snaps := newSnapshots()

	require.NoError(t, w.Watch(context.Background(), snaps.record))
	assert.Empty(t, snaps.wait(t))

	event := createEvent(t, repo, f, "Hack Night")

	events := snaps.wait(t)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
}

func TestEventWatcher_SingleSubscription(t *testing.T) {
	repo, f := setup(t)
	w := worker.NewEventWatcher(f, repo)
	defer w.Stop()

	first := newSnapshots()
	second := newSnapshots()
	require.NoError(t, w.Watch(context.Background(), first.record))
	first.wait(t)
	require.NoError(t, w.Watch(context.Background(), second.record))
	second.wait(t)

	assert.Equal(t, 1, f.Subscribers())

	createEvent(t, repo, f, "Hack Night")
	assert.Len(t, second.wait(t), 1)

	select {
	case <-first.ch:
		t.Fatal("cancelled subscription still received a snapshot")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventWatcher_Stop(t *testing.T) {
	repo, f := setup(t)
	w := worker.NewEventWatcher(f, repo)
	snaps := newSnapshots()
	require.NoError(t, w.Watch(context.Background(), snaps.record))
	snaps.wait(t)

	w.Stop()
	w.Stop()

	assert.Eventually(t, func() bool { return f.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}
