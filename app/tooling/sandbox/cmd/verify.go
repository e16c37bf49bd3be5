package cmd

import (
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/chain"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Mine blocks and verify the integrity of the chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		txs, err := parseTrans(trans)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		chn, cleanup, err := newChain(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := mineBlocks(ctx, chn, txs, verifyBlocks); err != nil {
			return err
		}

		if err := chn.Verify(); err != nil {
			if ie := chain.GetIntegrityError(err); ie != nil {
				return fmt.Errorf("block %d: %w", ie.Index, ie.Err)
			}
			return err
		}

		fmt.Printf("Chain of %d blocks is valid, last hash %s\n", chn.Length(), chn.LastHash())
		return nil
	},
}

var verifyBlocks int

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().IntVarP(&verifyBlocks, "blocks", "b", 3, "Blocks to mine after the genesis block.")
}
