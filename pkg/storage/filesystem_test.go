package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanyardapp/lanyard/pkg/event"
)

func TestFilesystemEventRepository_RoundTrip(t *testing.T) {
	repo, err := NewFilesystemEventRepositoryWithPath(t.TempDir())
	require.NoError(t, err)

	ev, err := event.New("gophercon-2026", "GopherCon 2026")
	require.NoError(t, err)
	ev.Venue = "Moscone Center"

	require.NoError(t, repo.Save(ev))

	loaded, err := repo.Load("gophercon-2026")
	require.NoError(t, err)
	assert.Equal(t, ev.Name, loaded.Name)
	assert.Equal(t, ev.Venue, loaded.Venue)
	assert.Len(t, loaded.Form, 2)

	events, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, events, 1)

	require.NoError(t, repo.Delete("gophercon-2026"))
	_, err = repo.Load("gophercon-2026")
	assert.Error(t, err)
	assert.Error(t, repo.Delete("gophercon-2026"))
}

func TestFilesystemEventRepository_ListSkipsUnparseable(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFilesystemEventRepositoryWithPath(dir)
	require.NoError(t, err)

	ev, err := event.New("good-event", "Good Event")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ev))

	badPath := filepath.Join(dir, "events", "broken.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("not: [valid"), 0644))

	events, err := repo.List()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good-event", events[0].Slug)
}
