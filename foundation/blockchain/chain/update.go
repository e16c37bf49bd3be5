package chain

import "github.com/ardanlabs/blocksandbox/foundation/blockchain/database"

// AddTransaction places a transaction in the pool of pending transactions
// and returns the number of pending transactions. Nothing about the
// transaction is validated.
func (c *Chain) AddTransaction(sender string, receiver string, amount float64) int {
	tx := database.NewTx(sender, receiver, amount)

	n := c.mempool.Add(tx)
	c.evHandler("chain: AddTransaction: tx[%s]: pending[%d]", tx, n)

	return n
}

// UpdateDifficulty replaces the difficulty used for the next block. Blocks
// already mined keep the difficulty they were mined with.
func (c *Chain) UpdateDifficulty(difficulty uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: UpdateDifficulty: old[%d]: new[%d]", c.difficulty, difficulty)
	c.difficulty = difficulty
}

// UpdateReward replaces the reward paid for the next block.
func (c *Chain) UpdateReward(reward float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("chain: UpdateReward: old[%g]: new[%g]", c.reward, reward)
	c.reward = reward
}
