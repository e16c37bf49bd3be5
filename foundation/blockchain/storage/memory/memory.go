// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// ErrNotFound is returned when a block number is not in storage.
var ErrNotFound = errors.New("block does not exist")

// =============================================================================

// Memory represents the serialization implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs an Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write takes the specified block and stores it in memory. The block must
// be the next number and link to the hash of the last stored block.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := uint64(len(m.blocks))
	if blockData.Header.Number != l {
		return fmt.Errorf("got %d, exp %d: %w", blockData.Header.Number, l, database.ErrOutOfOrder)
	}

	prevHash := signature.ZeroHash
	if l > 0 {
		prevHash = m.blocks[l-1].Hash
	}

	if blockData.Header.PrevBlockHash != prevHash {
		return fmt.Errorf("got %s, exp %s: %w", blockData.Header.PrevBlockHash, prevHash, database.ErrLinkBroken)
	}

	m.blocks = append(m.blocks, copyBlockData(blockData))

	return nil
}

// GetBlock searches the blockchain to locate and return the contents of
// the specified block by number.
func (m *Memory) GetBlock(num uint64) (database.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l := uint64(len(m.blocks))
	if l == 0 || num >= l {
		return database.BlockData{}, ErrNotFound
	}

	return copyBlockData(m.blocks[num]), nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 0.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the blockchain in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = []database.BlockData{}
	return nil
}

// =============================================================================

// copyBlockData keeps callers from sharing the transaction slice with
// the stored block.
func copyBlockData(blockData database.BlockData) database.BlockData {
	trans := make([]database.Tx, len(blockData.Trans))
	copy(trans, blockData.Trans)

	blockData.Trans = trans
	return blockData
}

// memoryIterator represents the iteration implementation for walking
// through and reading blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from memory.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	mi.current++

	return blockData, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
