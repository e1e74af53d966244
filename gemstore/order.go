package gemstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/gemgo/blobstore"
	"github.com/hupe1980/gemgo/model"
)

const (
	ordersDir = "orders"
	// CurrentName is the pointer blob naming the latest committed manifest.
	CurrentName = "CURRENT"
)

// ErrNoOrder is returned by CurrentOrder before the first commit.
var ErrNoOrder = fmt.Errorf("gemstore: no committed order: %w", blobstore.ErrNotFound)

// OrderManifest records one finalized order.
type OrderManifest struct {
	RunID     string        `json:"run_id"`
	CreatedAt time.Time     `json:"created_at"`
	Codec     string        `json:"codec"`
	Order     []model.GemID `json:"order"`
}

// ManifestName returns the blob name of the manifest for runID.
func ManifestName(runID string) string {
	return path.Join(ordersDir, runID+".json")
}

// CommitOrder writes a new manifest for order and moves CURRENT to it.
//
// The manifest is written first, so a crash between the two writes leaves
// an unreferenced manifest rather than a dangling pointer. Errors matching
// blobstore.ErrConflict mean another writer moved CURRENT concurrently.
func (s *Store) CommitOrder(ctx context.Context, order []model.GemID) (*OrderManifest, error) {
	m := &OrderManifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Codec:     s.codec.Name(),
		Order:     order,
	}

	data, err := s.codec.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("gemstore: encode manifest: %w", err)
	}

	name := ManifestName(m.RunID)
	if err := s.put(ctx, name, data); err != nil {
		return nil, fmt.Errorf("gemstore: write manifest %q: %w", name, err)
	}
	if err := s.blobs.Put(ctx, s.key(CurrentName), []byte(name)); err != nil {
		return nil, fmt.Errorf("gemstore: commit %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "order committed", "run_id", m.RunID, "gems", len(order))
	return m, nil
}

// CurrentOrder reads the manifest CURRENT points to.
func (s *Store) CurrentOrder(ctx context.Context) (*OrderManifest, error) {
	ptr, err := blobstore.ReadAll(ctx, s.blobs, s.key(CurrentName))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNoOrder
		}
		return nil, fmt.Errorf("gemstore: read %s: %w", CurrentName, err)
	}

	name := strings.TrimSpace(string(ptr))
	if name == "" {
		return nil, ErrNoOrder
	}
	return s.Manifest(ctx, name)
}

// Manifest reads a manifest by blob name.
func (s *Store) Manifest(ctx context.Context, name string) (*OrderManifest, error) {
	var m OrderManifest
	err := blobstore.View(ctx, s.blobs, s.key(name), func(data []byte) error {
		return s.codec.Unmarshal(data, &m)
	})
	if err != nil {
		return nil, fmt.Errorf("gemstore: read manifest %q: %w", name, err)
	}
	return &m, nil
}

// Orders lists the names of all committed manifests, sorted.
func (s *Store) Orders(ctx context.Context) ([]string, error) {
	names, err := s.blobs.List(ctx, s.key(ordersDir+"/"))
	if err != nil {
		return nil, err
	}
	if s.prefix != "" {
		for i, n := range names {
			names[i] = n[min(len(n), len(s.prefix)+1):]
		}
	}
	return names, nil
}
