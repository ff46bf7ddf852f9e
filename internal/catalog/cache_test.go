package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	rarityCalls atomic.Int64
	landCalls   atomic.Int64
	delay       time.Duration
	fail        bool

	cards map[Rarity][]Card
	lands []Card
}

func (f *fakeSource) CardsByRarity(ctx context.Context, setCode string, rarity Rarity) ([]Card, error) {
	f.rarityCalls.Add(1)
	time.Sleep(f.delay)
	if f.fail {
		return nil, errors.New("catalog down")
	}
	return f.cards[rarity], nil
}

func (f *fakeSource) BasicLands(ctx context.Context, setCode string) ([]Card, error) {
	f.landCalls.Add(1)
	time.Sleep(f.delay)
	if f.fail {
		return nil, errors.New("catalog down")
	}
	return f.lands, nil
}

func card(id, oracle, name string, rarity Rarity, colors ...Color) Card {
	return Card{ID: id, OracleID: oracle, Name: name, SetCode: "tst", Rarity: rarity, Colors: colors}
}

func TestEnsure_PartitionsAndIndexesByColor(t *testing.T) {
	src := &fakeSource{
		cards: map[Rarity][]Card{
			RarityCommon: {
				card("c1", "o1", "Alpha", RarityCommon, ColorWhite),
				card("c2", "o2", "Beta", RarityCommon, ColorBlue),
				card("c3", "o3", "Gamma", RarityCommon, ColorWhite, ColorBlue),
				card("c4", "o4", "Delta", RarityCommon), // colorless
			},
			RarityUncommon: {card("u1", "o5", "Epsilon", RarityUncommon, ColorRed)},
			RarityRare:     {card("r1", "o6", "Zeta", RarityRare, ColorGreen)},
			RarityMythic:   {card("m1", "o7", "Eta", RarityMythic, ColorBlack)},
		},
		lands: []Card{card("l1", "o8", "Plains", RarityCommon, ColorWhite)},
	}
	cache := NewCache(src, zap.NewNop())

	snap, err := cache.Ensure(context.Background(), "tst")
	require.NoError(t, err)

	assert.Len(t, snap.Commons, 4)
	assert.Len(t, snap.Uncommons, 1)
	assert.Len(t, snap.Rares, 1)
	assert.Len(t, snap.Mythics, 1)
	assert.Len(t, snap.Lands, 1)

	// Multicolor commons are indexed under each of their colors; the
	// colorless one under none.
	assert.Len(t, snap.CommonsByColor[ColorWhite], 2)
	assert.Len(t, snap.CommonsByColor[ColorBlue], 2)
	assert.Empty(t, snap.CommonsByColor[ColorRed])
}

func TestEnsure_FiltersBackFacesAndNonPlayableLayouts(t *testing.T) {
	back := card("c1", "o1", "Werewolf // Wolf", RarityCommon, ColorGreen)
	back.Side = "b"
	token := card("c2", "o2", "Goblin Token", RarityCommon, ColorRed)
	token.Layout = "token"
	ok := card("c3", "o3", "Plainscycler", RarityCommon, ColorWhite)

	src := &fakeSource{cards: map[Rarity][]Card{RarityCommon: {back, token, ok}}}
	cache := NewCache(src, zap.NewNop())

	snap, err := cache.Ensure(context.Background(), "tst")
	require.NoError(t, err)
	require.Len(t, snap.Commons, 1)
	assert.Equal(t, "c3", snap.Commons[0].ID)
}

func TestEnsure_ConcurrentCallsShareOneFetch(t *testing.T) {
	src := &fakeSource{delay: 20 * time.Millisecond, cards: map[Rarity][]Card{}}
	cache := NewCache(src, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Ensure(context.Background(), "tst")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(len(Rarities)), src.rarityCalls.Load(), "one fetch per rarity")
	assert.Equal(t, int64(1), src.landCalls.Load(), "one land fetch")
}

func TestEnsure_SecondCallHitsCache(t *testing.T) {
	src := &fakeSource{cards: map[Rarity][]Card{}}
	cache := NewCache(src, zap.NewNop())

	_, err := cache.Ensure(context.Background(), "tst")
	require.NoError(t, err)
	_, err = cache.Ensure(context.Background(), "tst")
	require.NoError(t, err)

	assert.Equal(t, int64(len(Rarities)), src.rarityCalls.Load())
}

func TestEnsure_FailureCachesNothing(t *testing.T) {
	src := &fakeSource{fail: true, cards: map[Rarity][]Card{}}
	cache := NewCache(src, zap.NewNop())

	_, err := cache.Ensure(context.Background(), "tst")
	require.Error(t, err)

	// Recovery: the next Ensure retries instead of serving the failure.
	src.fail = false
	_, err = cache.Ensure(context.Background(), "tst")
	assert.NoError(t, err)
}

func TestOracleKey_FallsBackToNameAndSet(t *testing.T) {
	withOracle := card("c1", "o1", "Alpha", RarityCommon)
	assert.Equal(t, "o1", withOracle.OracleKey())

	without := card("c2", "", "Beta", RarityCommon)
	assert.Equal(t, "Beta|tst", without.OracleKey())
}
