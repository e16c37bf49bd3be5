package menu

import (
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
	"github.com/ardanlabs/blocksandbox/foundation/validate"
)

// MaxDifficulty is the highest difficulty a hash can solve.
const MaxDifficulty = signature.HashLength

// Settings are the values the chain is constructed with.
type Settings struct {
	Miner      string `json:"miner" validate:"required"`
	Difficulty uint   `json:"difficulty" validate:"lte=64"`
}

// Validate checks the settings can build a chain.
func (s Settings) Validate() error {
	return validate.Check(s)
}

// checkDifficulty validates a difficulty entered from the menu.
func checkDifficulty(difficulty uint) error {
	return validate.Check(struct {
		Difficulty uint `json:"difficulty" validate:"lte=64"`
	}{difficulty})
}
