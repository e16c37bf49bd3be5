package chain

import "github.com/ardanlabs/blocksandbox/foundation/blockchain/database"

// Difficulty returns the difficulty for the next block.
func (c *Chain) Difficulty() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.difficulty
}

// Reward returns the reward for the next block.
func (c *Chain) Reward() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reward
}

// MinerAddress returns the account receiving the mining rewards.
func (c *Chain) MinerAddress() string {
	return c.minerAddress
}

// LastHash returns the hash of the latest block or the zero hash when
// there are no blocks.
func (c *Chain) LastHash() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastHash()
}

// Length returns the number of blocks in the chain.
func (c *Chain) Length() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.height
}

// LatestBlock returns the latest block. The bool is false when the chain
// has no blocks.
func (c *Chain) LatestBlock() (database.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.height == 0 {
		return database.Block{}, false
	}

	return c.latestBlock.Clone(), true
}

// Blocks returns a copy of every block in chain order.
func (c *Chain) Blocks() ([]database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return database.ReadAllBlocks(c.storage)
}

// Pending returns the number of transactions waiting to be mined.
func (c *Chain) Pending() int {
	return c.mempool.Count()
}

// PendingTransactions returns a copy of the transactions waiting to
// be mined.
func (c *Chain) PendingTransactions() []database.Tx {
	return c.mempool.Copy()
}
