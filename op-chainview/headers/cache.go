package headers

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/mantlenetworkio/chainview/op-chainview/chain"
	"github.com/mantlenetworkio/chainview/op-chainview/types"
)

const cacheLabel = "header"

type Metrics interface {
	CacheAdd(label string, cacheSize int, evicted bool)
	CacheGet(label string, hit bool)
}

// Cache remembers recently produced headers by hash, including headers
// that were later rewound out of the chain.
type Cache struct {
	m     Metrics
	mu    sync.Mutex
	cache *simplelru.LRU[common.Hash, types.BlockRef]
}

func NewCache(m Metrics, size int) (*Cache, error) {
	cache, err := simplelru.NewLRU[common.Hash, types.BlockRef](size, nil)
	if err != nil {
		return nil, err
	}
	return &Cache{m: m, cache: cache}, nil
}

func (c *Cache) Add(ref types.BlockRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := c.cache.Add(ref.Hash, ref)
	c.m.CacheAdd(cacheLabel, c.cache.Len(), evicted)
}

func (c *Cache) Get(hash common.Hash) (types.BlockRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ref, ok := c.cache.Get(hash)
	c.m.CacheGet(cacheLabel, ok)
	return ref, ok
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Canonical looks up a header by hash and reports whether it is part of the snapshot.
// Headers that are not cached return false for both.
func (c *Cache) Canonical(snap *chain.Snapshot[types.BlockRef], hash common.Hash) (ref types.BlockRef, known bool, canonical bool) {
	ref, known = c.Get(hash)
	if !known {
		return types.BlockRef{}, false, false
	}
	return ref, true, snap.Contains(ref)
}
