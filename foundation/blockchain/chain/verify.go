package chain

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
)

// IntegrityError is returned by Verify when a block breaks one of the rules
// of the chain. Err identifies the rule: database.ErrOutOfOrder,
// database.ErrLinkBroken, database.ErrCountMismatch,
// database.ErrMerkleMismatch or database.ErrNotSolved.
type IntegrityError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ie *IntegrityError) Error() string {
	return fmt.Sprintf("chain integrity violation at block index %d: %s", ie.Index, ie.Err)
}

// Unwrap provides access to the rule that was broken.
func (ie *IntegrityError) Unwrap() error {
	return ie.Err
}

// IsIntegrityError checks if an error of type IntegrityError exists.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// GetIntegrityError returns a copy of the IntegrityError pointer.
func GetIntegrityError(err error) *IntegrityError {
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		return nil
	}
	return ie
}

// =============================================================================

// Verify walks every block and checks the block number, the link to the
// parent block, the transaction count, the merkle root and the proof of work.
func (c *Chain) Verify() error {
	blocks, err := c.Blocks()
	if err != nil {
		return err
	}

	c.evHandler("chain: Verify: started: blocks[%d]", len(blocks))
	defer c.evHandler("chain: Verify: completed")

	var previousBlock database.Block
	for i, block := range blocks {
		if block.Header.Number != uint64(i) {
			err := fmt.Errorf("got %d, exp %d: %w", block.Header.Number, i, database.ErrOutOfOrder)
			return &IntegrityError{Index: uint64(i), Err: err}
		}

		if err := block.ValidateBlock(previousBlock, c.evHandler); err != nil {
			return &IntegrityError{Index: uint64(i), Err: err}
		}

		previousBlock = block
	}

	return nil
}
