package worker

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryJob(t *testing.T) {
	p := NewPool[int](context.Background(), 3, 10)

	for i := range 10 {
		n := i
		require.NoError(t, p.Submit(string(rune('a'+n)), func(context.Context) (int, error) {
			if n == 4 {
				return 0, errors.New("boom")
			}
			return n * n, nil
		}))
	}

	done := make(chan []Result[int])
	go func() {
		var got []Result[int]
		for r := range p.Results() {
			got = append(got, r)
		}
		done <- got
	}()
	p.Close()
	got := <-done

	require.Len(t, got, 10)
	sort.Slice(got, func(i, j int) bool { return got[i].JobID < got[j].JobID })
	assert.Equal(t, 9, got[3].Output)
	assert.EqualError(t, got[4].Err, "boom")
}

func TestPool_TrySubmitWhenFull(t *testing.T) {
	release := make(chan struct{})
	p := NewPool[struct{}](context.Background(), 1, 1)
	block := func(context.Context) (struct{}, error) {
		<-release
		return struct{}{}, nil
	}

	// One job occupies the worker, one fills the buffer; eventually the
	// next must be rejected.
	var err error
	for range 3 {
		if err = p.TrySubmit("j", block); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	go func() {
		for range p.Results() {
		}
	}()
	p.Close()
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool[int](context.Background(), 1, 0)
	p.Close()
	p.Close()
	assert.ErrorIs(t, p.Submit("x", nil), ErrClosed)
	assert.ErrorIs(t, p.TrySubmit("x", nil), ErrClosed)
}
