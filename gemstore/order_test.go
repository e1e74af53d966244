package gemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gemgo/blobstore"
	"github.com/hupe1980/gemgo/model"
)

func TestCommitOrder(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore(), WithPrefix("study"))

	_, err := s.CurrentOrder(ctx)
	require.ErrorIs(t, err, ErrNoOrder)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	first, err := s.CommitOrder(ctx, []model.GemID{1, 0, 2})
	require.NoError(t, err)
	assert.NotEmpty(t, first.RunID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.CommitOrder(ctx, []model.GemID{2, 1, 0})
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)

	cur, err := s.CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, cur.RunID)
	assert.Equal(t, []model.GemID{2, 1, 0}, cur.Order)
	assert.Equal(t, "go-json", cur.Codec)

	orders, err := s.Orders(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ManifestName(first.RunID), ManifestName(second.RunID)}, orders)

	old, err := s.Manifest(ctx, ManifestName(first.RunID))
	require.NoError(t, err)
	assert.Equal(t, []model.GemID{1, 0, 2}, old.Order)

	decks, err := s.Decks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, decks, "manifests are not decks")
}

type conditionalCounter struct {
	*blobstore.MemoryStore
	conditional []string
}

func (c *conditionalCounter) PutIfAbsent(ctx context.Context, name string, data []byte) error {
	c.conditional = append(c.conditional, name)
	return c.MemoryStore.PutIfAbsent(ctx, name, data)
}

type plainBlobs struct {
	blobstore.BlobStore
}

func TestCommitOrder_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	blobs := &conditionalCounter{MemoryStore: blobstore.NewMemoryStore()}
	s := New(blobs, WithNoOverwrite())

	first, err := s.CommitOrder(ctx, []model.GemID{0})
	require.NoError(t, err)
	second, err := s.CommitOrder(ctx, []model.GemID{0})
	require.NoError(t, err)

	// Manifests are immutable; CURRENT still moves.
	assert.Equal(t, []string{ManifestName(first.RunID), ManifestName(second.RunID)}, blobs.conditional)
	cur, err := s.CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, cur.RunID)

	_, err = New(plainBlobs{blobstore.NewMemoryStore()}, WithNoOverwrite()).CommitOrder(ctx, []model.GemID{0})
	assert.ErrorContains(t, err, "conditional writes")
}
