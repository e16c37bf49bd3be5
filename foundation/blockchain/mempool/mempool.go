// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
)

// Mempool represents the transactions waiting to be mined, kept in the
// order they were received. Duplicates are allowed.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool and returns the new count.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in the pool in the order they
// were received.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Delete removes the first howMany transactions from the pool. These are the
// transactions that were picked up by a block.
func (mp *Mempool) Delete(howMany int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if howMany >= len(mp.pool) {
		mp.pool = nil
		return
	}

	mp.pool = append([]database.Tx(nil), mp.pool[howMany:]...)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
