package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// LoadState describes the outcome of the last feed load. Failed, Empty
// and Loaded are mutually exclusive and each gets distinct UI
// treatment (error panel, empty-state message, content).
type LoadState int

const (
	FeedLoading LoadState = iota
	FeedFailed
	FeedEmpty
	FeedLoaded
)

func (s LoadState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedFailed:
		return "failed"
	case FeedEmpty:
		return "empty"
	case FeedLoaded:
		return "loaded"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

var (
	ErrEmptyFeed       = errors.New("feed has no products")
	ErrIndexOutOfRange = errors.New("feed index out of range")
)

// Feed holds the ordered products for one browsing session and the
// cursor over them. It is owned by a single session; navigation is the
// only mutation after a load.
type Feed struct {
	items   []DisplayProduct
	cursor  int
	state   LoadState
	loadErr error
}

func NewFeed() *Feed {
	return &Feed{state: FeedLoading}
}

// Load fetches the catalog through the provider, normalizes every
// record and orders the result by rank ascending. The cursor resets to
// the first product. A provider error moves the feed into the failed
// state; an empty catalog into the empty state.
func (f *Feed) Load(ctx context.Context, provider CatalogProvider) error {
	f.state = FeedLoading
	f.items = nil
	f.cursor = 0
	f.loadErr = nil

	records, err := provider.ListProducts(ctx)
	if err != nil {
		f.state = FeedFailed
		f.loadErr = err
		return fmt.Errorf("failed to load product feed: %w", err)
	}

	if len(records) == 0 {
		f.state = FeedEmpty
		return nil
	}

	items := make([]DisplayProduct, 0, len(records))
	for _, record := range records {
		items = append(items, NormalizeProduct(record))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rank < items[j].Rank
	})

	f.items = items
	f.state = FeedLoaded
	return nil
}

func (f *Feed) State() LoadState { return f.state }

// LoadError returns the provider error behind a failed state, nil
// otherwise.
func (f *Feed) LoadError() error { return f.loadErr }

func (f *Feed) Len() int { return len(f.items) }

// Items returns the loaded products in feed order.
func (f *Feed) Items() []DisplayProduct { return f.items }

func (f *Feed) Cursor() int { return f.cursor }

// Current returns the product under the cursor, or ErrEmptyFeed when
// nothing is loaded. Callers gate rendering on a non-empty feed.
func (f *Feed) Current() (DisplayProduct, error) {
	if len(f.items) == 0 {
		return DisplayProduct{}, ErrEmptyFeed
	}
	return f.items[f.cursor], nil
}

// Next advances the cursor, wrapping past the last product.
func (f *Feed) Next() error {
	if len(f.items) == 0 {
		return ErrEmptyFeed
	}
	f.cursor = (f.cursor + 1) % len(f.items)
	return nil
}

// Previous moves the cursor back, wrapping before the first product.
func (f *Feed) Previous() error {
	if len(f.items) == 0 {
		return ErrEmptyFeed
	}
	f.cursor = (f.cursor - 1 + len(f.items)) % len(f.items)
	return nil
}

// JumpTo moves the cursor to an absolute index. Out-of-range indices
// are rejected rather than clamped; clamping would hide navigation
// bugs in callers.
func (f *Feed) JumpTo(i int) error {
	if len(f.items) == 0 {
		return ErrEmptyFeed
	}
	if i < 0 || i >= len(f.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(f.items))
	}
	f.cursor = i
	return nil
}
