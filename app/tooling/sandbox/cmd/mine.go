package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/blocksandbox/business/core/report"
	"github.com/spf13/cobra"
)

var blocks int

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine blocks and print the chain",
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

		if err := mineBlocks(ctx, chn, txs, blocks); err != nil {
			return err
		}

		exports, err := chn.AllBlocksExport()
		if err != nil {
			return err
		}
		report.Exports(os.Stdout, exports)

		all, err := chn.Blocks()
		if err != nil {
			return err
		}

		if err := report.Table(os.Stdout, all); err != nil {
			return err
		}

		fmt.Printf("Last hash: %s\n", chn.LastHash())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&blocks, "blocks", "b", 1, "Blocks to mine after the genesis block.")
}
