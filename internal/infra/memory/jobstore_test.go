package memory

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/amirrhe/code-review-system/internal/core/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *JobStore {
	return NewJobStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestJobStore_CreateAndGet(t *testing.T) {
	store := newTestStore()

	job := store.CreateJob("https://example/repo")
	require.NotEmpty(t, job.ID)
	assert.Equal(t, analysis.JobStatusPending, job.Status)
	assert.Equal(t, "https://example/repo", job.RepoRef)
	assert.False(t, job.CreatedAt.IsZero())

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, analysis.JobStatusPending, got.Status)
}

func TestJobStore_GetUnknownID(t *testing.T) {
	store := newTestStore()

	_, err := store.Get("no-such-id")
	assert.ErrorIs(t, err, analysis.ErrJobNotFound)
}

func TestJobStore_MarkReady(t *testing.T) {
	store := newTestStore()
	job := store.CreateJob("https://example/repo")

	store.MarkReady(job.ID, analysis.Workspace{Path: "/tmp/ws"})

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.JobStatusReady, got.Status)
	require.NotNil(t, got.Workspace)
	assert.Equal(t, "/tmp/ws", got.Workspace.Path)
}

func TestJobStore_MarkFailed(t *testing.T) {
	store := newTestStore()
	job := store.CreateJob("https://example/repo")

	store.MarkFailed(job.ID, "clone failed: repository not found")

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.JobStatusFailed, got.Status)
	assert.Equal(t, "clone failed: repository not found", got.ErrorDetail)
	assert.Nil(t, got.Workspace)
}

func TestJobStore_TerminalStatusIsImmutable(t *testing.T) {
	store := newTestStore()

	ready := store.CreateJob("https://example/a")
	store.MarkReady(ready.ID, analysis.Workspace{Path: "/tmp/a"})
	store.MarkFailed(ready.ID, "late failure")

	got, err := store.Get(ready.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.JobStatusReady, got.Status)
	assert.Empty(t, got.ErrorDetail)

	failed := store.CreateJob("https://example/b")
	store.MarkFailed(failed.ID, "first failure")
	store.MarkReady(failed.ID, analysis.Workspace{Path: "/tmp/b"})
	store.MarkFailed(failed.ID, "second failure")

	got, err = store.Get(failed.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.JobStatusFailed, got.Status)
	assert.Equal(t, "first failure", got.ErrorDetail)
}

func TestJobStore_UnknownTransitionsDoNotPanic(t *testing.T) {
	store := newTestStore()

	assert.NotPanics(t, func() {
		store.MarkReady("no-such-id", analysis.Workspace{Path: "/tmp"})
		store.MarkFailed("no-such-id", "detail")
	})
}

func TestJobStore_GetReturnsCopy(t *testing.T) {
	store := newTestStore()
	job := store.CreateJob("https://example/repo")
	store.MarkReady(job.ID, analysis.Workspace{Path: "/tmp/ws"})

	got, err := store.Get(job.ID)
	require.NoError(t, err)

	// 呼び出し側での変更はストアに波及しない
	got.Status = analysis.JobStatusFailed
	got.Workspace.Path = "/tmp/other"

	fresh, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.JobStatusReady, fresh.Status)
	assert.Equal(t, "/tmp/ws", fresh.Workspace.Path)
}

func TestJobStore_ConcurrentCreatesAndTransitions(t *testing.T) {
	const n = 100

	store := newTestStore()

	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			job := store.CreateJob("https://example/repo")
			if i%2 == 0 {
				store.MarkReady(job.ID, analysis.Workspace{Path: "/tmp/ws"})
			} else {
				store.MarkFailed(job.ID, "failed")
			}
			ids <- job.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate job id %s", id)
		seen[id] = struct{}{}

		job, err := store.Get(id)
		require.NoError(t, err)
		assert.True(t, job.Status.Terminal())
	}
	assert.Len(t, seen, n)
}
