package cmd

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/merkle"
	"github.com/spf13/cobra"
)

// merkleCmd represents the merkle command
var merkleCmd = &cobra.Command{
	Use:   "merkle",
	Short: "Print the merkle root and the proof of each transaction",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := parseTrans(trans)
		if err != nil {
			return err
		}

		if len(txs) == 0 {
			return errors.New("at least one --tx is required")
		}

		tree, err := merkle.NewTree(txs)
		if err != nil {
			return err
		}

		fmt.Printf("Merkle root: %s\n", tree.RootHex())

		for _, tx := range txs {
			proof, order, err := tree.Proof(tx)
			if err != nil {
				return err
			}

			hash, err := tx.Hash()
			if err != nil {
				return err
			}

			status := "verified"
			if err := tree.VerifyProof(hash, proof, order); err != nil {
				status = err.Error()
			}

			fmt.Printf("\n%s: %s\n", tx, status)
			fmt.Printf("  leaf: %s\n", hash)
			for i := range proof {
				fmt.Printf("  %s: %s\n", side(order[i]), proof[i])
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(merkleCmd)
}

// side names where the proof hash is concatenated.
func side(order int64) string {
	if order == 0 {
		return "left "
	}
	return "right"
}
