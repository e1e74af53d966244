package gemstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/gemgo"
	"github.com/hupe1980/gemgo/blobstore"
	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/model"
	"github.com/hupe1980/gemgo/resource"
)

// Store loads and saves gem decks on top of a blob store.
// It is safe for concurrent use.
type Store struct {
	blobs            blobstore.BlobStore
	codec            codec.Codec
	compression      Compression
	rc               *resource.Controller
	prefix           string
	noOverwrite      bool
	logger           *gemgo.Logger
	metricsCollector gemgo.MetricsCollector
}

// New creates a Store backed by blobs.
func New(blobs blobstore.BlobStore, opts ...Option) *Store {
	o := options{
		codec:            codec.Default,
		logger:           gemgo.NoopLogger(),
		metricsCollector: gemgo.NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		blobs:            blobs,
		codec:            o.codec,
		compression:      o.compression,
		rc:               o.rc,
		prefix:           o.prefix,
		noOverwrite:      o.noOverwrite,
		logger:           o.logger,
		metricsCollector: o.metricsCollector,
	}
}

// Blobs returns the underlying blob store.
func (s *Store) Blobs() blobstore.BlobStore {
	return s.blobs
}

func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Load reads one deck. Gem ids start at 0 in file order.
func (s *Store) Load(ctx context.Context, name string) ([]model.Gem, error) {
	if err := s.rc.AcquireWorker(ctx); err != nil {
		return nil, err
	}
	defer s.rc.ReleaseWorker()

	return s.load(ctx, name)
}

// LoadAll reads several decks concurrently and concatenates them in
// argument order. Ids run sequentially across files.
func (s *Store) LoadAll(ctx context.Context, names ...string) ([]model.Gem, error) {
	decks := make([][]model.Gem, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := s.rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer s.rc.ReleaseWorker()

			gems, err := s.load(gctx, name)
			if err != nil {
				return err
			}
			decks[i] = gems
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, d := range decks {
		total += len(d)
	}

	out := make([]model.Gem, 0, total)
	for _, d := range decks {
		for _, gem := range d {
			gem.ID = model.GemID(len(out))
			out = append(out, gem)
		}
	}
	return out, nil
}

func (s *Store) load(ctx context.Context, name string) (gems []model.Gem, err error) {
	start := time.Now()
	var size int64
	defer func() {
		elapsed := time.Since(start)
		s.metricsCollector.RecordLoad(len(gems), size, elapsed, err)
		s.logger.LogLoad(ctx, name, len(gems), size, elapsed, err)
	}()

	err = blobstore.View(ctx, s.blobs, s.key(name), func(data []byte) error {
		size = int64(len(data))

		granted, err := s.rc.AcquireMemory(ctx, size)
		if err != nil {
			return err
		}
		defer s.rc.ReleaseMemory(granted)

		raw := data
		comp := CompressionFor(name)
		if c := DetectCompression(data); c != CompressionNone {
			comp = c
		}
		if comp != CompressionNone || s.rc != nil {
			r := resource.NewRateLimitedReader(ctx, bytes.NewReader(data), s.rc)
			if raw, err = decompress(comp, r); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInvalidDeck, comp, err)
			}
		}

		gems, err = decodeDeck(s.codec, raw, 0)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("gemstore: load %q: %w", name, err)
	}
	return gems, nil
}

// Save writes gems as a deck. Compression follows WithCompression, or the
// name suffix when none was forced.
func (s *Store) Save(ctx context.Context, name string, gems []model.Gem) error {
	data, err := encodeDeck(s.codec, gems)
	if err != nil {
		return fmt.Errorf("gemstore: encode %q: %w", name, err)
	}

	comp := s.compression
	if comp == CompressionAuto {
		comp = CompressionFor(name)
	}
	if data, err = compress(comp, data); err != nil {
		return fmt.Errorf("gemstore: compress %q: %w", name, err)
	}

	if err := s.put(ctx, name, data); err != nil {
		return fmt.Errorf("gemstore: save %q: %w", name, err)
	}
	return nil
}

// SaveOrder writes gems rearranged into order. Every id in order must
// refer to one of gems.
func (s *Store) SaveOrder(ctx context.Context, name string, gems []model.Gem, order []model.GemID) error {
	byID := make(map[model.GemID]model.Gem, len(gems))
	for _, g := range gems {
		byID[g.ID] = g
	}

	ordered := make([]model.Gem, 0, len(order))
	for _, id := range order {
		g, ok := byID[id]
		if !ok {
			return fmt.Errorf("gemstore: save order %q: unknown %s", name, id)
		}
		ordered = append(ordered, g)
	}
	return s.Save(ctx, name, ordered)
}

func (s *Store) put(ctx context.Context, name string, data []byte) error {
	if !s.noOverwrite {
		return s.blobs.Put(ctx, s.key(name), data)
	}
	cp, ok := s.blobs.(blobstore.ConditionalPutter)
	if !ok {
		return errors.New("backend does not support conditional writes")
	}
	return cp.PutIfAbsent(ctx, s.key(name), data)
}

// Exists reports whether a blob is present.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	b, err := s.blobs.Open(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, b.Close()
}

// Decks lists the deck files under dir, relative to the store prefix.
// Order manifests are skipped.
func (s *Store) Decks(ctx context.Context, dir string) ([]string, error) {
	names, err := s.blobs.List(ctx, s.key(dir))
	if err != nil {
		return nil, err
	}

	out := names[:0]
	for _, n := range names {
		if s.prefix != "" {
			n = n[min(len(n), len(s.prefix)+1):]
		}
		if strings.HasPrefix(n, ordersDir+"/") {
			continue
		}
		switch path.Ext(n) {
		case ".json", ".zst", ".lz4":
			out = append(out, n)
		}
	}
	return out, nil
}
