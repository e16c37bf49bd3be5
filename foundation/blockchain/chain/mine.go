package chain

import (
	"context"
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// GenerateNewBlock builds the next block from the pending transactions,
// mines it and appends it to the chain. The call blocks until a nonce is
// found or the context is cancelled. On any error nothing is appended and
// the pending transactions stay in the pool.
func (c *Chain) GenerateNewBlock(ctx context.Context) (database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: GenerateNewBlock: MINING: build header: blk[%d]", c.height)

	nb := database.NewBlock(c.height, c.lastHash(), c.difficulty)

	c.evHandler("chain: GenerateNewBlock: MINING: assign transactions: pending[%d]", c.mempool.Count())

	pending := c.mempool.Copy()
	nb.AssignTransactions(database.NewRewardTx(c.minerAddress, c.reward), pending)

	c.evHandler("chain: GenerateNewBlock: MINING: commit merkle root")

	if err := nb.CommitMerkle(); err != nil {
		return database.Block{}, fmt.Errorf("committing merkle root: %w", err)
	}

	c.evHandler("chain: GenerateNewBlock: MINING: perform POW")

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	if _, err := nb.PerformPOW(ctx, c.evHandler); err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	c.evHandler("chain: GenerateNewBlock: MINING: append block")

	if err := c.storage.Write(database.NewBlockData(nb)); err != nil {
		return database.Block{}, fmt.Errorf("writing block: %w", err)
	}

	c.latestBlock = nb
	c.height++
	c.mempool.Delete(len(pending))

	return nb.Clone(), nil
}

// =============================================================================

// lastHash returns the hash of the latest block. The caller must hold the
// lock.
func (c *Chain) lastHash() string {
	if c.height == 0 {
		return signature.ZeroHash
	}

	return c.latestBlock.Hash()
}
