// Package report renders blocks for the console.
package report

import (
	"fmt"
	"io"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// shortHash is how many characters of a hash are shown in the table.
const shortHash = 12

// Short shortens a hash for display.
func Short(hash string) string {
	if len(hash) <= shortHash {
		return hash
	}
	return hash[:shortHash] + "..."
}

// Reward returns the amount paid to the miner of the block.
func Reward(block database.Block) float64 {
	if len(block.Trans) == 0 || !block.Trans[0].IsReward() {
		return 0
	}
	return block.Trans[0].Amount
}

// Mined writes the summary of a freshly mined block.
func Mined(w io.Writer, block database.Block) {
	fmt.Fprintf(w, "Hash:         %s\n", block.Hash())
	fmt.Fprintf(w, "Prev Hash:    %s\n", block.Header.PrevBlockHash)
	fmt.Fprintf(w, "Nonce:        %s\n", humanize.Comma(int64(block.Header.Nonce)))
	fmt.Fprintf(w, "Transactions: %d\n", len(block.Trans))
	fmt.Fprintf(w, "Reward:       %g\n", Reward(block))
}

// Exports writes one export per block under a block banner.
func Exports(w io.Writer, exports []string) {
	for i, export := range exports {
		fmt.Fprintf(w, "--- Block #%d ---\n%s\n\n", i, export)
	}
}

// Table writes one summary row per block.
func Table(w io.Writer, blocks []database.Block) error {
	data := make([][]string, len(blocks))
	for i, block := range blocks {
		data[i] = []string{
			fmt.Sprintf("%d", block.Header.Number),
			Short(block.Hash()),
			Short(block.Header.PrevBlockHash),
			humanize.Comma(int64(block.Header.Nonce)),
			fmt.Sprintf("%d", block.Header.Difficulty),
			fmt.Sprintf("%d", block.Count),
			fmt.Sprintf("%g", Reward(block)),
			humanize.Time(block.Header.TimeStamp),
		}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignNone),
		tablewriter.WithRowAlignment(tw.AlignNone),
	)
	table.Header([]string{"Block", "Hash", "Prev Hash", "Nonce", "Difficulty", "Txs", "Reward", "Mined"})

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("building table: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return nil
}
