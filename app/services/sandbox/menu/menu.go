// Package menu drives the chain from an interactive text menu.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ardanlabs/blocksandbox/business/core/report"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/chain"
	"github.com/ardanlabs/blocksandbox/foundation/events"
	"github.com/ardanlabs/blocksandbox/foundation/validate"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Set of colors used to render the menu.
var (
	title   = color.New(color.FgBlue, color.Bold)
	good    = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	info    = color.New(color.FgCyan, color.Bold)
	bad     = color.New(color.FgRed)
	exiting = color.New(color.FgRed, color.Bold)
	faint   = color.New(color.Faint)
)

// Config contains all the mandatory systems required by the menu.
type Config struct {
	Log         *zap.SugaredLogger
	Console     *Console
	Out         io.Writer
	Chain       *chain.Chain
	Evts        *events.Events
	MineTimeout time.Duration
}

// Menu runs the options of the interactive menu against the chain.
type Menu struct {
	log         *zap.SugaredLogger
	console     *Console
	out         io.Writer
	chain       *chain.Chain
	evts        *events.Events
	mineTimeout time.Duration
}

// New constructs a menu for use.
func New(cfg Config) *Menu {
	return &Menu{
		log:         cfg.Log,
		console:     cfg.Console,
		out:         cfg.Out,
		chain:       cfg.Chain,
		evts:        cfg.Evts,
		mineTimeout: cfg.MineTimeout,
	}
}

// Run shows the menu and handles choices until the exit option is chosen
// or the input is closed.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out)
		title.Fprintln(m.out, "Choose an option:")
		color.New(color.FgMagenta).Fprintln(m.out, "1. New Transaction")
		color.New(color.FgGreen).Fprintln(m.out, "2. Mine a new block")
		color.New(color.FgYellow).Fprintln(m.out, "3. Change difficulty")
		color.New(color.FgCyan).Fprintln(m.out, "4. Change reward")
		color.New(color.FgWhite).Fprintln(m.out, "5. Show blockchain")
		color.New(color.FgHiBlue).Fprintln(m.out, "6. Verify blockchain")
		color.New(color.FgRed, color.Underline).Fprintln(m.out, "0. Exit")

		choice, err := m.console.Prompt("Enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading choice: %w", err)
		}

		exit, err := m.Handle(ctx, choice)
		if err != nil {
			return err
		}

		if exit {
			return nil
		}
	}
}

// Handle performs the option that was chosen. The bool is true when the
// exit option was chosen.
func (m *Menu) Handle(ctx context.Context, choice string) (bool, error) {
	var err error

	switch choice {
	case "1":
		err = m.newTransaction()
	case "2":
		err = m.mine(ctx)
	case "3":
		err = m.changeDifficulty()
	case "4":
		err = m.changeReward()
	case "5":
		err = m.show()
	case "6":
		err = m.verify()
	case "0":
		exiting.Fprintln(m.out, "Exiting program.")
		return true, nil
	default:
		bad.Fprintln(m.out, "Invalid choice, try again.")
	}

	// Running out of input in the middle of an option ends the menu.
	if errors.Is(err, io.EOF) {
		return true, nil
	}

	return false, err
}

// =============================================================================

func (m *Menu) newTransaction() error {
	sender, err := m.console.Prompt("Sender: ")
	if err != nil {
		return err
	}

	receiver, err := m.console.Prompt("Receiver: ")
	if err != nil {
		return err
	}

	input, err := m.console.Prompt("Amount: ")
	if err != nil {
		return err
	}
	amount := ParseAmount(input, 0)

	m.chain.AddTransaction(sender, receiver, amount)

	good.Fprintln(m.out, "Transaction added successfully:")
	fmt.Fprintf(m.out, "From: %s\n", sender)
	fmt.Fprintf(m.out, "To: %s\n", receiver)
	fmt.Fprintf(m.out, "Amount: %g\n", amount)

	return nil
}

func (m *Menu) mine(ctx context.Context) error {
	pending := m.chain.PendingTransactions()
	fmt.Fprintf(m.out, "Pending transactions: %d\n", len(pending))
	for _, tx := range pending {
		fmt.Fprintf(m.out, "  %s\n", tx)
	}

	warn.Fprintln(m.out, "Mining new block... (Ctrl-C to abort)")

	// Ctrl-C only aborts the build while mining.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if m.mineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.mineTimeout)
		defer cancel()
	}

	done := m.progress()
	block, err := m.chain.GenerateNewBlock(ctx)
	done()

	if err != nil {
		if ctx.Err() == nil {
			return err
		}

		m.log.Infow("mine", "status", "build aborted", "ERROR", err)
		bad.Fprintf(m.out, "Mining aborted: %s\n", err)
		fmt.Fprintf(m.out, "Pending transactions kept: %d\n", m.chain.Pending())
		return nil
	}

	good.Fprintln(m.out, "New block mined:")
	report.Mined(m.out, block)

	return nil
}

// progress renders the mining attempts until the returned function is
// called. The function waits for the renderer to finish.
func (m *Menu) progress() func() {
	id, ch := m.evts.Acquire()
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		for s := range ch {
			if strings.Contains(s, "MINING: attempts") {
				faint.Fprintf(m.out, "  %s\n", s[strings.Index(s, "attempts"):])
			}
		}
	}()

	return func() {
		if err := m.evts.Release(id); err != nil {
			m.log.Infow("mine", "status", "release progress", "ERROR", err)
		}
		<-finished
	}
}

func (m *Menu) changeDifficulty() error {
	input, err := m.console.Prompt(fmt.Sprintf("Enter new difficulty (0-%d): ", MaxDifficulty))
	if err != nil {
		return err
	}

	oldDifficulty := m.chain.Difficulty()
	newDifficulty := ParseDifficulty(input, oldDifficulty)

	if err := checkDifficulty(newDifficulty); err != nil {
		for _, msg := range validate.GetFieldErrors(err).Messages() {
			bad.Fprintln(m.out, msg)
		}
		return nil
	}

	m.chain.UpdateDifficulty(newDifficulty)

	info.Fprintln(m.out, "Difficulty updated:")
	fmt.Fprintf(m.out, "Old: %d\n", oldDifficulty)
	fmt.Fprintf(m.out, "New: %d\n", newDifficulty)

	return nil
}

func (m *Menu) changeReward() error {
	input, err := m.console.Prompt("Enter new reward: ")
	if err != nil {
		return err
	}

	oldReward := m.chain.Reward()
	newReward := ParseAmount(input, oldReward)

	m.chain.UpdateReward(newReward)

	info.Fprintln(m.out, "Reward updated:")
	fmt.Fprintf(m.out, "  Old: %g\n", oldReward)
	fmt.Fprintf(m.out, "  New: %g\n", newReward)

	return nil
}

func (m *Menu) show() error {
	exports, err := m.chain.AllBlocksExport()
	if err != nil {
		return fmt.Errorf("exporting blocks: %w", err)
	}

	blocks, err := m.chain.Blocks()
	if err != nil {
		return fmt.Errorf("reading blocks: %w", err)
	}

	color.New(color.Bold).Fprintln(m.out, "Current blockchain:")
	report.Exports(m.out, exports)

	return report.Table(m.out, blocks)
}

func (m *Menu) verify() error {
	err := m.chain.Verify()
	if err == nil {
		good.Fprintf(m.out, "Blockchain is valid: %d blocks\n", m.chain.Length())
		return nil
	}

	if ie := chain.GetIntegrityError(err); ie != nil {
		bad.Fprintln(m.out, ie.Error())
		return nil
	}

	return fmt.Errorf("verifying chain: %w", err)
}
