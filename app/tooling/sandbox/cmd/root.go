// Package cmd contains the sandbox tooling commands.
package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/chain"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/database"
	"github.com/ardanlabs/blocksandbox/foundation/logger"
	"github.com/spf13/cobra"
)

var (
	minerAddress string
	difficulty   uint
	reward       float64
	timeout      time.Duration
	logLevel     string
	trans        []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Mine and inspect a proof of work sandbox chain",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&minerAddress, "miner", "m", "miner1", "Account receiving the mining rewards.")
	rootCmd.PersistentFlags().UintVarP(&difficulty, "difficulty", "d", 2, "Leading zeros required in a block hash.")
	rootCmd.PersistentFlags().Float64VarP(&reward, "reward", "r", chain.DefaultReward, "Reward paid for each block.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort mining after this duration (0 is no limit).")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set to debug to see the mining events on stderr.")
	rootCmd.PersistentFlags().StringArrayVarP(&trans, "tx", "t", nil, "Transaction as sender:receiver:amount, can be repeated.")
}

// =============================================================================

// parseTx converts a sender:receiver:amount value into a transaction.
func parseTx(s string) (database.Tx, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return database.Tx{}, fmt.Errorf("transaction %q: expected sender:receiver:amount", s)
	}

	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return database.Tx{}, fmt.Errorf("transaction %q: amount: %w", s, err)
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return database.Tx{}, fmt.Errorf("transaction %q: amount must be a finite number", s)
	}

	return database.NewTx(parts[0], parts[1], amount), nil
}

// parseTrans converts every --tx value into a transaction.
func parseTrans(values []string) ([]database.Tx, error) {
	txs := make([]database.Tx, 0, len(values))
	for _, v := range values {
		tx, err := parseTx(v)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// newChain constructs a chain from the persistent flags with the events
// going to the logger.
func newChain(ctx context.Context) (*chain.Chain, func(), error) {
	log, err := logger.New("SANDBOX-CLI", logger.Config{Level: logLevel})
	if err != nil {
		return nil, nil, err
	}

	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	chn, err := chain.New(ctx, minerAddress, difficulty, chain.WithReward(reward), chain.WithEvHandler(ev))
	if err != nil {
		log.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		chn.Shutdown()
		log.Sync()
	}

	return chn, cleanup, nil
}

// mineContext returns the context used to mine a block.
func mineContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// mineBlocks mines the transactions into the first block followed by
// count-1 blocks with only the reward.
func mineBlocks(ctx context.Context, chn *chain.Chain, txs []database.Tx, count int) error {
	for _, tx := range txs {
		chn.AddTransaction(tx.Sender, tx.Receiver, tx.Amount)
	}

	for range count {
		ctx, cancel := mineContext(ctx)
		_, err := chn.GenerateNewBlock(ctx)
		cancel()

		if err != nil {
			return fmt.Errorf("mining block %d: %w", chn.Length(), err)
		}
	}

	return nil
}
