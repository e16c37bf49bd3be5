package chain

import (
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/goccy/go-json"
)

// LatestBlockExport returns the latest block as a single line of JSON. The
// bool is false when the chain has no blocks.
func (c *Chain) LatestBlockExport() (string, bool, error) {
	block, exists := c.LatestBlock()
	if !exists {
		return "", false, nil
	}

	export, err := exportBlock(block)
	if err != nil {
		return "", true, err
	}

	return export, true, nil
}

// AllBlocksExport returns every block as a single line of JSON, in
// chain order.
func (c *Chain) AllBlocksExport() ([]string, error) {
	blocks, err := c.Blocks()
	if err != nil {
		return nil, err
	}

	exports := make([]string, len(blocks))
	for i, block := range blocks {
		export, err := exportBlock(block)
		if err != nil {
			return nil, err
		}
		exports[i] = export
	}

	return exports, nil
}

// =============================================================================

func exportBlock(block database.Block) (string, error) {
	data, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		return "", fmt.Errorf("exporting block %d: %w", block.Header.Number, err)
	}

	return string(data), nil
}
