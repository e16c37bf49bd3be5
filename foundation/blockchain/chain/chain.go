// Package chain is the core API for the blockchain and implements the rules
// for building, mining and appending blocks.
package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/mempool"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/storage/memory"
)

// DefaultReward is the amount paid to the miner when no reward is provided.
const DefaultReward = 50.0

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of building and mining blocks.
type EventHandler func(v string, args ...any)

// WithReward overrides the default mining reward.
func WithReward(reward float64) func(c *Chain) {
	return func(c *Chain) {
		c.reward = reward
	}
}

// WithEvHandler registers the function that receives the chain's events.
func WithEvHandler(evHandler EventHandler) func(c *Chain) {
	return func(c *Chain) {
		c.evHandler = evHandler
	}
}

// WithStorage replaces the default in memory storage for the blocks.
func WithStorage(storage database.Storage) func(c *Chain) {
	return func(c *Chain) {
		c.storage = storage
	}
}

// =============================================================================

// Chain manages the blocks and the pool of pending transactions. It is the
// sole owner of both and expects a single writer.
type Chain struct {
	mu           sync.Mutex
	minerAddress string
	difficulty   uint
	reward       float64
	evHandler    EventHandler
	latestBlock  database.Block
	height       uint64

	mempool *mempool.Mempool
	storage database.Storage
}

// New constructs a new blockchain and mines the genesis block. The context
// bounds the time spent mining the genesis block.
func New(ctx context.Context, minerAddress string, difficulty uint, options ...func(c *Chain)) (*Chain, error) {
	strg, err := memory.New()
	if err != nil {
		return nil, err
	}

	c := Chain{
		minerAddress: minerAddress,
		difficulty:   difficulty,
		reward:       DefaultReward,
		mempool:      mempool.New(),
		storage:      strg,
	}

	for _, option := range options {
		option(&c)
	}

	// Build a safe event handler function for use.
	ev := c.evHandler
	c.evHandler = func(v string, args ...any) {
		if ev != nil {
			ev(v, args...)
		}
	}

	c.evHandler("chain: New: miner[%s]: difficulty[%d]: reward[%g]", c.minerAddress, c.difficulty, c.reward)

	if _, err := c.GenerateNewBlock(ctx); err != nil {
		return nil, fmt.Errorf("mining genesis block: %w", err)
	}

	return &c, nil
}

// Shutdown releases the storage for the blocks.
func (c *Chain) Shutdown() error {
	c.evHandler("chain: Shutdown: close storage")

	return c.storage.Close()
}

// Truncate removes every block and pending transaction. The next call to
// GenerateNewBlock mines a new genesis block.
func (c *Chain) Truncate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: Truncate: reset blocks and mempool")

	if err := c.storage.Reset(); err != nil {
		return err
	}

	c.mempool.Truncate()
	c.latestBlock = database.Block{}
	c.height = 0

	return nil
}
