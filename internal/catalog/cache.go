package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Snapshot is the immutable per-set view pack assembly reads from: every
// playable printing partitioned by rarity, basic lands, and commons
// additionally indexed by color identity.
type Snapshot struct {
	Commons        []Card
	Uncommons      []Card
	Rares          []Card
	Mythics        []Card
	Lands          []Card
	CommonsByColor map[Color][]Card
}

// Cache fetches each set at most once per process lifetime. Concurrent
// Ensure calls for an uncached set share a single in-flight fetch.
type Cache struct {
	src Source
	log *zap.Logger

	mu    sync.RWMutex
	sets  map[string]*Snapshot
	group singleflight.Group
}

func NewCache(src Source, log *zap.Logger) *Cache {
	return &Cache{
		src:  src,
		log:  log,
		sets: make(map[string]*Snapshot),
	}
}

// Ensure returns the snapshot for setCode, fetching it on first use. A
// failed fetch caches nothing; a later call retries.
func (c *Cache) Ensure(ctx context.Context, setCode string) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.sets[setCode]
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	v, err, _ := c.group.Do(setCode, func() (any, error) {
		// Re-check: a previous flight may have stored it already.
		c.mu.RLock()
		cached := c.sets[setCode]
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		loaded, err := c.load(ctx, setCode)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.sets[setCode] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *Cache) load(ctx context.Context, setCode string) (*Snapshot, error) {
	var byRarity [4][]Card
	var lands []Card

	g, gctx := errgroup.WithContext(ctx)
	for i, rarity := range Rarities {
		i, rarity := i, rarity
		g.Go(func() error {
			cards, err := c.src.CardsByRarity(gctx, setCode, rarity)
			if err != nil {
				return err
			}
			byRarity[i] = playableOnly(cards)
			return nil
		})
	}
	g.Go(func() error {
		cards, err := c.src.BasicLands(gctx, setCode)
		if err != nil {
			return err
		}
		lands = playableOnly(cards)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Commons:        byRarity[0],
		Uncommons:      byRarity[1],
		Rares:          byRarity[2],
		Mythics:        byRarity[3],
		Lands:          lands,
		CommonsByColor: indexByColor(byRarity[0]),
	}
	c.log.Info("cached card set",
		zap.String("set", setCode),
		zap.Int("commons", len(snap.Commons)),
		zap.Int("uncommons", len(snap.Uncommons)),
		zap.Int("rares", len(snap.Rares)),
		zap.Int("mythics", len(snap.Mythics)),
		zap.Int("lands", len(snap.Lands)))
	return snap, nil
}

func playableOnly(cards []Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, card := range cards {
		if card.Playable() {
			out = append(out, card)
		}
	}
	return out
}

func indexByColor(commons []Card) map[Color][]Card {
	byColor := make(map[Color][]Card, len(ColorOrder))
	for _, color := range ColorOrder {
		byColor[color] = nil
	}
	for _, card := range commons {
		for _, color := range card.Colors {
			if _, ok := byColor[color]; ok {
				byColor[color] = append(byColor[color], card)
			}
		}
	}
	return byColor
}
