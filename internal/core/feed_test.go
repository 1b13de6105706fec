package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"techtoday.app/daily-digest/internal/store"
)

type fakeCatalog struct {
	records []store.UpstreamRecord
	err     error
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]store.UpstreamRecord, error) {
	return f.records, f.err
}

func (f *fakeCatalog) GetProductByID(ctx context.Context, id string) (*store.UpstreamRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.ID.String() == id {
			return &r, nil
		}
	}
	return nil, nil
}

func threeProducts() []store.UpstreamRecord {
	return []store.UpstreamRecord{
		{ID: "b", Name: "Beta", Rank: 2},
		{ID: "a", Name: "Alpha", Rank: 1},
		{ID: "c", Name: "Gamma", Rank: 3},
	}
}

func loadedFeed(t *testing.T) *Feed {
	t.Helper()
	f := NewFeed()
	require.NoError(t, f.Load(context.Background(), &fakeCatalog{records: threeProducts()}))
	return f
}

func TestFeedLoadStates(t *testing.T) {
	t.Run("fresh feed is loading", func(t *testing.T) {
		assert.Equal(t, FeedLoading, NewFeed().State())
	})

	t.Run("provider failure is a distinct state", func(t *testing.T) {
		f := NewFeed()
		boom := errors.New("catalog down")
		err := f.Load(context.Background(), &fakeCatalog{err: boom})
		assert.Error(t, err)
		assert.Equal(t, FeedFailed, f.State())
		assert.ErrorIs(t, f.LoadError(), boom)
	})

	t.Run("empty catalog is not an error", func(t *testing.T) {
		f := NewFeed()
		require.NoError(t, f.Load(context.Background(), &fakeCatalog{}))
		assert.Equal(t, FeedEmpty, f.State())
		assert.Nil(t, f.LoadError())

		_, err := f.Current()
		assert.ErrorIs(t, err, ErrEmptyFeed)
		assert.ErrorIs(t, f.Next(), ErrEmptyFeed)
		assert.ErrorIs(t, f.Previous(), ErrEmptyFeed)
	})

	t.Run("loaded feed is ordered by rank", func(t *testing.T) {
		f := loadedFeed(t)
		assert.Equal(t, FeedLoaded, f.State())
		require.Equal(t, 3, f.Len())

		current, err := f.Current()
		require.NoError(t, err)
		assert.Equal(t, "Alpha", current.Name)
		assert.Equal(t, "Gamma", f.Items()[2].Name)
	})
}

func TestFeedNavigation(t *testing.T) {
	t.Run("next wraps after the last product", func(t *testing.T) {
		f := loadedFeed(t)
		for i := 0; i < f.Len(); i++ {
			require.NoError(t, f.Next())
		}
		assert.Equal(t, 0, f.Cursor())
	})

	t.Run("previous wraps before the first product", func(t *testing.T) {
		f := loadedFeed(t)
		require.NoError(t, f.Previous())
		assert.Equal(t, f.Len()-1, f.Cursor())
	})

	t.Run("jump to a valid index", func(t *testing.T) {
		f := loadedFeed(t)
		require.NoError(t, f.JumpTo(2))
		current, err := f.Current()
		require.NoError(t, err)
		assert.Equal(t, "Gamma", current.Name)
	})

	t.Run("jump rejects out-of-range without moving", func(t *testing.T) {
		f := loadedFeed(t)
		require.NoError(t, f.JumpTo(1))

		assert.ErrorIs(t, f.JumpTo(3), ErrIndexOutOfRange)
		assert.ErrorIs(t, f.JumpTo(-1), ErrIndexOutOfRange)
		assert.Equal(t, 1, f.Cursor())
	})

	t.Run("reload resets the cursor", func(t *testing.T) {
		f := loadedFeed(t)
		require.NoError(t, f.Next())
		require.NoError(t, f.Load(context.Background(), &fakeCatalog{records: threeProducts()}))
		assert.Equal(t, 0, f.Cursor())
	})
}
