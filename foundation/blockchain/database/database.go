// Package database handles all the lower level support for the blockchain:
// the block and transaction model, the proof of work and the contracts for
// storing blocks.
package database

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator converts the stored block data into blocks while
// iterating over the storage.
type DatabaseIterator struct {
	iterator Iterator
}

// NewIterator wraps the storage iterator.
func NewIterator(storage Storage) *DatabaseIterator {
	return &DatabaseIterator{iterator: storage.ForEach()}
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData), nil
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// ReadAllBlocks walks the storage and returns every block in chain order.
func ReadAllBlocks(storage Storage) ([]Block, error) {
	var blocks []Block

	iter := NewIterator(storage)
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}
