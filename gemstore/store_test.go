package gemstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gemgo"
	"github.com/hupe1980/gemgo/blobstore"
	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/model"
	"github.com/hupe1980/gemgo/resource"
)

const deckJSON = `[
	{"sides":{"0":"我们","1":"we"},"unknown_facets":["我","们"]},
	{"sides":{"0":"我","1":"I"},"unknown_facets":["我","我"]},
	{"sides":{"0":"好"},"unknown_facets":[]}
]`

func putDeck(t *testing.T, st blobstore.BlobStore, name, data string) {
	t.Helper()
	require.NoError(t, st.Put(context.Background(), name, []byte(data)))
}

func TestLoad(t *testing.T) {
	mem := blobstore.NewMemoryStore()
	putDeck(t, mem, "deck.json", deckJSON)

	gems, err := New(mem).Load(context.Background(), "deck.json")
	require.NoError(t, err)
	require.Len(t, gems, 3)

	assert.Equal(t, model.GemID(0), gems[0].ID)
	assert.Equal(t, "我们", gems[0].Sides[0])
	assert.Equal(t, "we", gems[0].Sides[1])
	assert.Equal(t, []string{"我", "们"}, gems[0].UnknownFacets)

	assert.Equal(t, []string{"我"}, gems[1].UnknownFacets, "duplicate facets collapse")
	assert.True(t, gems[2].Known())
	assert.Equal(t, model.GemID(2), gems[2].ID)
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	putDeck(t, mem, "bad-key.json", `[{"sides":{"front":"x"},"unknown_facets":["a"]}]`)
	putDeck(t, mem, "garbage.json", `{not json`)
	s := New(mem)

	_, err := s.Load(ctx, "bad-key.json")
	assert.ErrorIs(t, err, ErrInvalidDeck)
	assert.Contains(t, err.Error(), "bad-key.json")

	_, err = s.Load(ctx, "garbage.json")
	assert.ErrorIs(t, err, ErrInvalidDeck)

	_, err = s.Load(ctx, "missing.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSaveLoad_Compression(t *testing.T) {
	gems := []model.Gem{
		model.NewGem(0, map[int]string{0: "xy", 2: "note"}, "x", "y"),
		model.NewGem(1, map[int]string{0: "x"}, "x"),
		model.NewGem(2, map[int]string{0: "done"}),
	}

	for _, name := range []string{"deck.json", "deck.json.zst", "deck.json.lz4"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(blobstore.NewMemoryStore())

			require.NoError(t, s.Save(ctx, name, gems))

			got, err := s.Load(ctx, name)
			require.NoError(t, err)
			require.Len(t, got, len(gems))
			for i := range gems {
				assert.Equal(t, gems[i].ID, got[i].ID)
				assert.Equal(t, gems[i].Sides, got[i].Sides)
				assert.ElementsMatch(t, gems[i].UnknownFacets, got[i].UnknownFacets)
			}
		})
	}
}

func TestSave_ForcedCompression(t *testing.T) {
	ctx := context.Background()
	gems := []model.Gem{
		model.NewGem(0, map[int]string{0: "a"}, "a"),
		model.NewGem(1, map[int]string{0: "b", 1: "c"}, "b", "c"),
	}

	for _, c := range []Compression{CompressionZstd, CompressionLZ4} {
		t.Run(c.String(), func(t *testing.T) {
			mem := blobstore.NewMemoryStore()
			s := New(mem, WithCompression(c))
			require.NoError(t, s.SaveOrder(ctx, "ordered.json", gems, []model.GemID{1, 0}))

			data, err := blobstore.ReadAll(ctx, mem, "ordered.json")
			require.NoError(t, err)
			assert.Equal(t, c, DetectCompression(data))

			// The name says plain JSON; the content decides.
			for _, r := range []*Store{s, New(mem)} {
				got, err := r.Load(ctx, "ordered.json")
				require.NoError(t, err)
				require.Len(t, got, 2)
				assert.Equal(t, "b", got[0].Sides[0])
				assert.Equal(t, []string{"b", "c"}, got[0].UnknownFacets)
				assert.Equal(t, "a", got[1].Sides[0])
			}
		})
	}
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionNone, DetectCompression([]byte(`[]`)))
	assert.Equal(t, CompressionNone, DetectCompression(nil))

	z, err := compress(CompressionZstd, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, DetectCompression(z))

	l, err := compress(CompressionLZ4, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, CompressionLZ4, DetectCompression(l))
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	putDeck(t, mem, "a.json", deckJSON)
	putDeck(t, mem, "b.json", `[{"sides":{"0":"他"},"unknown_facets":["他"]}]`)

	rc := resource.NewController(resource.Config{MaxConcurrentLoads: 1})
	mc := &gemgo.BasicMetricsCollector{}
	s := New(mem, WithResourceController(rc), WithMetricsCollector(mc))

	gems, err := s.LoadAll(ctx, "b.json", "a.json")
	require.NoError(t, err)
	require.Len(t, gems, 4)

	for i, g := range gems {
		assert.Equal(t, model.GemID(i), g.ID)
	}
	assert.Equal(t, "他", gems[0].Sides[0])
	assert.Equal(t, "我们", gems[1].Sides[0])

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(4), stats.LoadedGems)
	assert.Equal(t, int64(0), rc.MemoryUsage())

	_, err = s.LoadAll(ctx, "a.json", "nope.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestLoad_LocalStore(t *testing.T) {
	ctx := context.Background()
	local := blobstore.NewLocalStore(t.TempDir())
	putDeck(t, local, "decks/hsk1.json", deckJSON)

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   1 << 20,
		MaxConcurrentLoads: 2,
		IOLimitBytesPerSec: 1 << 20,
	})
	s := New(local, WithResourceController(rc), WithCodec(codec.JSON{}))

	gems, err := s.Load(ctx, "decks/hsk1.json")
	require.NoError(t, err)
	assert.Len(t, gems, 3)

	decks, err := s.Decks(ctx, "decks/")
	require.NoError(t, err)
	assert.Equal(t, []string{"decks/hsk1.json"}, decks)
}

func TestSaveOrder(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore())
	gems := []model.Gem{
		model.NewGem(0, map[int]string{0: "xy"}, "x", "y"),
		model.NewGem(1, map[int]string{0: "x"}, "x"),
	}

	require.NoError(t, s.SaveOrder(ctx, "ordered.json", gems, []model.GemID{1, 0}))

	got, err := s.Load(ctx, "ordered.json")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[0].Sides[0])
	assert.Equal(t, "xy", got[1].Sides[0])

	err = s.SaveOrder(ctx, "bad.json", gems, []model.GemID{7})
	assert.ErrorContains(t, err, "Gem(7)")
}

func TestSave_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	s := New(blobstore.NewMemoryStore(), WithNoOverwrite(), WithPrefix("runs/1"))
	gems := []model.Gem{model.NewGem(0, nil, "a")}

	require.NoError(t, s.Save(ctx, "deck.json", gems))
	assert.ErrorIs(t, s.Save(ctx, "deck.json", gems), blobstore.ErrConflict)

	ok, err := s.Exists(ctx, "deck.json")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = New(s.Blobs()).Exists(ctx, "deck.json")
	require.NoError(t, err)
	assert.False(t, ok, "prefix applies to every name")
}

func TestCompression_Parse(t *testing.T) {
	c, err := ParseCompression("zst")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	assert.Equal(t, "zstd", c.String())

	_, err = ParseCompression("gzip")
	assert.Error(t, err)

	assert.Equal(t, CompressionLZ4, CompressionFor("a.json.lz4"))
	assert.Equal(t, CompressionNone, CompressionFor("a.json"))
}
