// Package genesis maintains access to the genesis file.
package genesis

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Genesis represents the genesis file. Every field is optional, anything
// left out falls back to the configuration of the application.
type Genesis struct {
	MinerAddress string        `toml:"miner_address"` // Account receiving the mining rewards.
	Difficulty   *uint         `toml:"difficulty"`    // How difficult it needs to be to solve the work problem.
	MiningReward *float64      `toml:"mining_reward"` // Reward for mining a block.
	Transactions []Transaction `toml:"transactions"`  // Transactions placed in the pool once the chain starts.
}

// Transaction is a pending transaction declared in the genesis file.
type Transaction struct {
	Sender   string  `toml:"sender"`
	Receiver string  `toml:"receiver"`
	Amount   float64 `toml:"amount"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	var genesis Genesis

	md, err := toml.DecodeFile(path, &genesis)
	if err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file %q: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Genesis{}, fmt.Errorf("decoding genesis file %q: unknown key %q", path, undecoded[0].String())
	}

	return genesis, nil
}
