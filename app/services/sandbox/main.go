package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/blocksandbox/app/services/sandbox/menu"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/chain"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/genesis"
	"github.com/ardanlabs/blocksandbox/foundation/events"
	"github.com/ardanlabs/blocksandbox/foundation/logger"
	"github.com/ardanlabs/blocksandbox/foundation/validate"
	"github.com/ardanlabs/conf/v3"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Configuration is parsed before the logger exists since it decides
	// where the logs go.
	cfg, help, err := parseConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if help != "" {
		fmt.Println(help)
		return
	}

	// Construct the application logger.
	log, err := logger.New("SANDBOX", logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log, cfg); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		color.New(color.FgRed).Println(err)
		os.Exit(1)
	}
}

// config is all the configuration for the application and the default values.
type config struct {
	conf.Version
	Chain struct {
		MinerAddress string
		Difficulty   uint          `conf:"default:2"`
		Reward       float64       `conf:"default:50"`
		GenesisFile  string        `conf:"help:optional TOML file with the chain settings and initial transactions"`
		MineTimeout  time.Duration `conf:"default:0s,help:abort mining after this duration (0 is no limit)"`
	}
	Log struct {
		Level      string `conf:"default:info"`
		File       string `conf:"default:zblock/sandbox.log"`
		MaxSize    int    `conf:"default:10"`
		MaxBackups int    `conf:"default:3"`
		MaxAge     int    `conf:"default:7"`
	}
}

// parseConfig sets the defaults and then looks for any overriding values
// in environment variables and command line flags.
func parseConfig() (config, string, error) {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "interactive proof of work blockchain sandbox",
		},
	}

	const prefix = "SANDBOX"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return cfg, help, nil
		}
		return cfg, "", fmt.Errorf("parsing config: %w", err)
	}

	return cfg, "", nil
}

func run(log *zap.SugaredLogger, cfg config) error {

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	console := menu.NewConsole(os.Stdin, os.Stdout)

	// =========================================================================
	// Genesis Support

	// The genesis file is optional. Any value it sets replaces the value
	// from the configuration.
	var gen genesis.Genesis
	if cfg.Chain.GenesisFile != "" {
		if gen, err = genesis.Load(cfg.Chain.GenesisFile); err != nil {
			return err
		}
		log.Infow("startup", "status", "genesis loaded", "file", cfg.Chain.GenesisFile, "transactions", len(gen.Transactions))
	}

	settings := menu.Settings{
		Miner:      cfg.Chain.MinerAddress,
		Difficulty: cfg.Chain.Difficulty,
	}
	reward := cfg.Chain.Reward

	if gen.MinerAddress != "" {
		settings.Miner = gen.MinerAddress
	}
	if gen.Difficulty != nil {
		settings.Difficulty = *gen.Difficulty
	}
	if gen.MiningReward != nil {
		reward = *gen.MiningReward
	}

	// Ask for the miner when nothing provided one.
	if settings.Miner == "" {
		if settings.Miner, err = console.Prompt("Enter miner address: "); err != nil {
			return fmt.Errorf("reading miner address: %w", err)
		}

		input, err := console.Prompt(fmt.Sprintf("Enter difficulty (default %d): ", settings.Difficulty))
		if err != nil {
			return fmt.Errorf("reading difficulty: %w", err)
		}
		settings.Difficulty = menu.ParseDifficulty(input, settings.Difficulty)
	}

	if err := settings.Validate(); err != nil {
		if fe := validate.GetFieldErrors(err); fe != nil {
			return fmt.Errorf("invalid settings: %v", fe.Messages())
		}
		return err
	}

	// =========================================================================
	// Blockchain Support

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to the progress
	// renderer of the menu through the events package.
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s)
		evts.Send(s)
	}

	fmt.Println("Generating genesis block...")

	ctx := context.Background()
	if cfg.Chain.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Chain.MineTimeout)
		defer cancel()
	}

	chn, err := chain.New(ctx, settings.Miner, settings.Difficulty,
		chain.WithReward(reward),
		chain.WithEvHandler(ev),
	)
	if err != nil {
		return err
	}
	defer chn.Shutdown()

	if export, exists, err := chn.LatestBlockExport(); err == nil && exists {
		fmt.Println("Genesis Block:")
		color.New(color.FgGreen).Println(export)
	}

	for _, tx := range gen.Transactions {
		chn.AddTransaction(tx.Sender, tx.Receiver, tx.Amount)
	}

	// =========================================================================
	// Menu

	m := menu.New(menu.Config{
		Log:         log,
		Console:     console,
		Out:         os.Stdout,
		Chain:       chn,
		Evts:        evts,
		MineTimeout: cfg.Chain.MineTimeout,
	})

	return m.Run(context.Background())
}
