package sessions

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsActive("tok"))
	_, ok := r.ClassID("tok")
	assert.False(t, ok)
	assert.Nil(t, r.Submissions("tok"))

	r.Create("tok", "CS-402")
	assert.True(t, r.IsActive("tok"))

	classID, ok := r.ClassID("tok")
	require.True(t, ok)
	assert.Equal(t, "CS-402", classID)

	count, ok := r.Count("tok")
	require.True(t, ok)
	assert.Zero(t, count)

	assert.True(t, r.Invalidate("tok"))
	assert.False(t, r.IsActive("tok"))

	// second invalidate is a no-op
	assert.False(t, r.Invalidate("tok"))
}

func TestRegistryCreateOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Create("tok", "CS-402")
	require.NoError(t, r.AddSubmission("tok", "22CSE1032"))

	r.Create("tok", "MA-201")
	classID, ok := r.ClassID("tok")
	require.True(t, ok)
	assert.Equal(t, "MA-201", classID)
	assert.Empty(t, r.Submissions("tok"))
}

func TestAddSubmission(t *testing.T) {
	r := NewRegistry()
	r.Create("tok", "CS-402")

	require.NoError(t, r.AddSubmission("tok", "22CSE1032"))
	assert.ErrorIs(t, r.AddSubmission("tok", "22CSE1032"), ErrAlreadySubmitted)
	assert.ErrorIs(t, r.AddSubmission("nope", "22CSE1032"), ErrSessionNotFound)

	r.Invalidate("tok")
	assert.ErrorIs(t, r.AddSubmission("tok", "22CSE1032"), ErrSessionNotFound)
}

func TestAddSubmissionConcurrentDuplicate(t *testing.T) {
	r := NewRegistry()
	r.Create("tok", "CS-402")

	const attempts = 64
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- r.AddSubmission("tok", "22CSE1032")
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == ErrAlreadySubmitted:
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
	assert.Equal(t, []string{"22CSE1032"}, r.Submissions("tok"))
}

func TestConcurrentDistinctSubmissions(t *testing.T) {
	r := NewRegistry()
	r.Create("tok", "CS-402")

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.AddSubmission("tok", fmt.Sprintf("22CSE%04d", i)); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	count, ok := r.Count("tok")
	require.True(t, ok)
	assert.Equal(t, n, count)
}

func TestSubmissionsSnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Create("tok", "CS-402")
	require.NoError(t, r.AddSubmission("tok", "22CSE1032"))

	snap := r.Submissions("tok")
	require.NoError(t, r.AddSubmission("tok", "22CSE1033"))
	assert.Len(t, snap, 1)
}
