package pool

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sealed-arena/backend/internal/catalog"
)

// DefaultPackCount is the number of packs a participant receives for a
// sealed pool.
const DefaultPackCount = 6

// Instance is one physical copy of a printing: the catalog record plus a
// session-unique instance id minted when the copy is created.
type Instance struct {
	catalog.Card
	InstanceID string `json:"instanceId"`
}

// Pack is one assembled booster, in slot order: 5 color-balanced commons,
// 5 further commons, 3 uncommons, 1 rare or mythic.
type Pack []Instance

// Assembler builds packs from a catalog cache. Safe for concurrent use;
// assembly for one call runs under a single lock so the rng is never
// shared between interleaved picks.
type Assembler struct {
	cache *catalog.Cache
	log   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssembler wires an assembler to a cache. A nil rng gets a
// time-seeded one; tests pass a seeded source.
func NewAssembler(cache *catalog.Cache, log *zap.Logger, rng *rand.Rand) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assembler{cache: cache, log: log, rng: rng}
}

// Assemble builds packCount packs for the set. Every placed card gets a
// fresh instance id; uniqueness within a pack is by oracle key, so two
// printings of the same card never share a pack slot group.
func (a *Assembler) Assemble(ctx context.Context, setCode string, packCount int) ([]Pack, error) {
	if packCount <= 0 {
		packCount = DefaultPackCount
	}
	snap, err := a.cache.Ensure(ctx, setCode)
	if err != nil {
		return nil, fmt.Errorf("assemble packs for %s: %w", setCode, err)
	}

	commons := groupByOracle(snap.Commons)
	uncommons := groupByOracle(snap.Uncommons)
	rares := groupByOracle(snap.Rares)
	mythics := groupByOracle(snap.Mythics)
	commonsByColor := make(map[catalog.Color]oracleGroups, len(catalog.ColorOrder))
	for color, cards := range snap.CommonsByColor {
		commonsByColor[color] = groupByOracle(cards)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	packs := make([]Pack, 0, packCount)
	for i := 0; i < packCount; i++ {
		packs = append(packs, a.buildPack(setCode, commons, uncommons, rares, mythics, commonsByColor))
	}
	return packs, nil
}

func (a *Assembler) buildPack(setCode string, commons, uncommons, rares, mythics oracleGroups, commonsByColor map[catalog.Color]oracleGroups) Pack {
	pack := make(Pack, 0, 14)
	usedCommons := make(map[string]bool)

	// Slot 1: one common per color, fixed WUBRG order.
	for _, color := range catalog.ColorOrder {
		card, ok := a.pickUnused(commonsByColor[color], usedCommons)
		if !ok {
			a.log.Warn("no common candidate for color slot",
				zap.String("set", setCode), zap.String("color", string(color)))
			continue
		}
		pack = append(pack, a.mint(card))
	}

	// Slot 2: five more commons, disjoint from the color slots.
	for i := 0; i < 5; i++ {
		card, ok := a.pickUnused(commons, usedCommons)
		if !ok {
			a.log.Warn("common pool exhausted", zap.String("set", setCode))
			break
		}
		pack = append(pack, a.mint(card))
	}

	// Slot 3: three uncommons, tracked independently of the commons.
	usedUncommons := make(map[string]bool)
	for i := 0; i < 3; i++ {
		card, ok := a.pickUnused(uncommons, usedUncommons)
		if !ok {
			a.log.Warn("uncommon pool exhausted", zap.String("set", setCode))
			break
		}
		pack = append(pack, a.mint(card))
	}

	// Slot 4: rare, upgraded to mythic with probability 1/8 when the set
	// has any mythics.
	top := rares
	if len(mythics) > 0 && a.rng.Float64() < 1.0/8 {
		top = mythics
	}
	if card, ok := a.pickUnused(top, map[string]bool{}); ok {
		pack = append(pack, a.mint(card))
	} else {
		a.log.Warn("rare slot empty", zap.String("set", setCode))
	}

	return pack
}

// pickUnused selects a random oracle identity not yet used, marks it
// used, and returns a random printing of it.
func (a *Assembler) pickUnused(groups oracleGroups, used map[string]bool) (catalog.Card, bool) {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		if !used[key] {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return catalog.Card{}, false
	}
	key := keys[a.rng.Intn(len(keys))]
	used[key] = true
	prints := groups[key]
	return prints[a.rng.Intn(len(prints))], true
}

func (a *Assembler) mint(card catalog.Card) Instance {
	return Instance{Card: card, InstanceID: uuid.NewString()}
}

// BasicLands returns count fresh instances of the named basic land,
// cycling through the distinct printings the set has. An unknown land
// name yields an empty result, not an error.
func (a *Assembler) BasicLands(ctx context.Context, setCode, landName string, count int) ([]Instance, error) {
	snap, err := a.cache.Ensure(ctx, setCode)
	if err != nil {
		return nil, fmt.Errorf("fetch basic lands for %s: %w", setCode, err)
	}

	var prints []catalog.Card
	needle := strings.ToLower(landName)
	for _, card := range snap.Lands {
		if strings.Contains(strings.ToLower(card.Name), needle) {
			prints = append(prints, card)
		}
	}
	if len(prints) == 0 || count <= 0 {
		return nil, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Instance, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, a.mint(prints[i%len(prints)]))
	}
	return out, nil
}

// oracleGroups maps an oracle key to every printing sharing it.
type oracleGroups map[string][]catalog.Card

func groupByOracle(cards []catalog.Card) oracleGroups {
	groups := make(oracleGroups)
	for _, card := range cards {
		key := card.OracleKey()
		groups[key] = append(groups[key], card)
	}
	return groups
}
