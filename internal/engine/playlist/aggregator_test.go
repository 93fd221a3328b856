package playlist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skeletons(from, n int, opts Options) []VideoRecord {
	out := make([]VideoRecord, n)
	for i := range out {
		out[i] = NewSkeleton(PlaylistItemRef{VideoID: videoID(from + i), Position: from + i}, opts)
	}
	return out
}

func TestAggregatorRejectsWriteBeforeReserve(t *testing.T) {
	a := NewAggregator(0)

	err := a.WriteVideoDetails(0, VideoDetails{Title: "x"})
	require.ErrorIs(t, err, ErrInvalidSlot)
	var serr *SlotError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.Position)
	assert.Equal(t, 0, serr.Reserved)

	require.NoError(t, a.Reserve(skeletons(0, 3, DefaultOptions())...))
	assert.ErrorIs(t, a.WriteComments(3, nil), ErrInvalidSlot, "one past the reserved range")
	assert.ErrorIs(t, a.WriteComments(-1, nil), ErrInvalidSlot)
	assert.ErrorIs(t, a.MarkFailed(7, StageComments), ErrInvalidSlot)

	snap := a.Snapshot()
	for _, v := range snap {
		assert.Equal(t, StatePending, v.DetailsState, "rejected writes must not land anywhere")
	}
}

func TestAggregatorReserveMustContinueSequence(t *testing.T) {
	a := NewAggregator(0)
	require.NoError(t, a.Reserve(skeletons(0, 2, Options{})...))

	assert.ErrorIs(t, a.Reserve(skeletons(3, 1, Options{})...), ErrInvalidSlot, "gap")
	assert.ErrorIs(t, a.Reserve(skeletons(1, 1, Options{})...), ErrInvalidSlot, "reserved twice")
	assert.Equal(t, 2, a.Len(), "failed reserve must not grow")

	require.NoError(t, a.Reserve(skeletons(2, 2, Options{})...))
	assert.Equal(t, 4, a.Len())
}

func TestAggregatorWritesOwnFieldGroup(t *testing.T) {
	a := NewAggregator(2)
	require.NoError(t, a.Reserve(skeletons(0, 2, DefaultOptions())...))

	require.NoError(t, a.WriteComments(1, []CommentRecord{{AuthorName: "ann"}}))
	require.NoError(t, a.WriteVideoDetails(1, VideoDetails{Title: "t", ViewCount: "99999999999999999999"}))
	require.NoError(t, a.MarkFailed(0, StageVideoDetails))

	snap := a.Snapshot()
	assert.Equal(t, "t", snap[1].Title)
	assert.Equal(t, "99999999999999999999", snap[1].ViewCount)
	assert.Equal(t, "ann", snap[1].TopComments[0].AuthorName)
	assert.Equal(t, StateOK, snap[1].DetailsState)
	assert.Equal(t, StateOK, snap[1].CommentsState)

	assert.Equal(t, StateFailed, snap[0].DetailsState)
	assert.Equal(t, StatePending, snap[0].CommentsState)
	assert.Equal(t, []CommentRecord{}, snap[0].TopComments)
}

func TestAggregatorSealedAfterSnapshot(t *testing.T) {
	a := NewAggregator(0)
	require.NoError(t, a.Reserve(skeletons(0, 1, DefaultOptions())...))
	snap := a.Snapshot()

	assert.ErrorIs(t, a.WriteVideoDetails(0, VideoDetails{Title: "late"}), ErrSealed)
	assert.ErrorIs(t, a.Reserve(skeletons(1, 1, DefaultOptions())...), ErrSealed)
	assert.Empty(t, snap[0].Title)
}

func TestAggregatorConcurrentWritesAndGrowth(t *testing.T) {
	const pages, perPage = 20, 25
	a := NewAggregator(0)
	var wg sync.WaitGroup

	for p := range pages {
		base := p * perPage
		require.NoError(t, a.Reserve(skeletons(base, perPage, DefaultOptions())...))
		for i := base; i < base+perPage; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				assert.NoError(t, a.WriteVideoDetails(i, VideoDetails{Title: videoID(i)}))
			}()
			go func() {
				defer wg.Done()
				assert.NoError(t, a.WriteComments(i, []CommentRecord{{Text: videoID(i)}}))
			}()
		}
	}
	wg.Wait()

	snap := a.Snapshot()
	require.Len(t, snap, pages*perPage)
	for i, v := range snap {
		assert.Equal(t, i, v.Position)
		assert.Equal(t, videoID(i), v.Title)
		assert.Equal(t, videoID(i), v.TopComments[0].Text)
	}
}

func TestNewSkeletonStates(t *testing.T) {
	s := NewSkeleton(PlaylistItemRef{VideoID: "abc", Position: 4}, Options{FetchComments: true})
	assert.Equal(t, 4, s.Position)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", s.URL)
	assert.Equal(t, StateSkipped, s.DetailsState)
	assert.Equal(t, StatePending, s.CommentsState)
	assert.False(t, s.Enriched())
}
