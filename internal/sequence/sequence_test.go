package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceIterator(t *testing.T) {
	ctx := context.Background()
	it := FromSlice([]int{1, 2})

	v, err := it.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	_, _ = it.Next(ctx)
	_, err = it.Next(ctx)
	assert.ErrorIs(t, err, Done)
	assert.Equal(t, 2, it.Pulled())

	require.NoError(t, it.Close())
	require.NoError(t, it.Close())
	assert.True(t, it.Closed())
	_, err = it.Next(ctx)
	assert.Error(t, err)
}

func TestSliceIteratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FromSlice([]int{1}).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectClosesOnError(t *testing.T) {
	boom := errors.New("boom")
	closed := 0
	calls := 0
	it := &Func[int]{
		NextFn: func(context.Context) (int, error) {
			calls++
			if calls > 2 {
				return 0, boom
			}
			return calls, nil
		},
		CloseFn: func() error { closed++; return nil },
	}
	got, err := Collect[int](context.Background(), it)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 1, closed)

	require.NoError(t, it.Close())
	assert.Equal(t, 1, closed, "second close is a no-op")
}
