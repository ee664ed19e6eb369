// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/crowdfund/config"
	"github.com/ava-labs/crowdfund/consts"
	"github.com/ava-labs/crowdfund/controller"
	"github.com/ava-labs/crowdfund/leveldb"
	"github.com/ava-labs/crowdfund/pebble"
	"github.com/ava-labs/crowdfund/state"
	"github.com/ava-labs/crowdfund/utils"
	"github.com/ava-labs/crowdfund/version"

	crowdtrace "github.com/ava-labs/crowdfund/trace"
)

const (
	dataDirName = ".crowdfund"
	stateDBName = "state"
	keysDBName  = "keys"
	logsDirName = "logs"
)

type closableBackend interface {
	state.Backend

	Close() error
}

// crowdfund is the state shared by every subcommand. It is populated before
// a subcommand runs and released once cobra finishes.
type crowdfund struct {
	configPath string
	logLevel   string
	dataDir    string
	memory     bool

	cfg        *config.Config
	logFactory *logFactory
	log        logging.Logger
	tracer     trace.Tracer
	keys       *keystore
	controller *controller.Controller
	gatherers  prometheus.Gatherers

	closers []func() error
}

func NewRootCmd() *cobra.Command {
	c := &crowdfund{}
	cmd := &cobra.Command{
		Use:     consts.Name,
		Short:   "Crowdfunding campaign registry",
		Version: version.Version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context(), cmd.Flags().Changed("log-level"))
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a JSON config file")
	flags.StringVar(&c.logLevel, "log-level", "info", "log level")
	flags.StringVar(&c.dataDir, "data-dir", defaultDataDir(), "directory holding state, keys and logs")
	flags.BoolVar(&c.memory, "memory", false, "keep state and keys in memory for the lifetime of the command")

	cmd.AddCommand(
		newKeyCmd(c),
		newRunCmd(c),
		newCampaignsCmd(c),
		newCampaignCmd(c),
		newBalanceCmd(c),
		newServeCmd(c),
	)

	// databases and the tracer must be released even when a subcommand fails
	cobra.OnFinalize(func() {
		if err := c.close(); err != nil {
			utils.Outf("{{red}}failed to close:{{/}} %s\n", err)
		}
	})
	return cmd
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

func (c *crowdfund) init(ctx context.Context, overrideLevel bool) error {
	var raw []byte
	if len(c.configPath) > 0 {
		b, err := os.ReadFile(c.configPath)
		if err != nil {
			return err
		}
		raw = b
	}
	cfg, err := config.New(raw)
	if err != nil {
		return err
	}
	if overrideLevel || len(raw) == 0 {
		level, err := logging.ToLevel(c.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	c.cfg = cfg

	logDir := cfg.LogDir
	if len(logDir) == 0 {
		logDir = filepath.Join(c.dataDir, logsDirName)
	}
	c.logFactory = newLogFactory(newLogConfig(logDir, cfg.GetLogLevel(), true))
	c.closers = append(c.closers, func() error {
		c.logFactory.Close()
		return nil
	})
	c.log, err = c.logFactory.Make(consts.Name)
	if err != nil {
		return err
	}

	c.tracer, err = crowdtrace.New(cfg.GetTraceConfig())
	if err != nil {
		return err
	}
	c.closers = append(c.closers, c.tracer.Close)

	stateDB, stateRegistry, err := c.openDatabase(stateDBName)
	if err != nil {
		return err
	}
	keysDB, _, err := c.openDatabase(keysDBName)
	if err != nil {
		return err
	}
	c.keys = newKeystore(keysDB)

	registry := prometheus.NewRegistry()
	c.gatherers = prometheus.Gatherers{registry}
	if stateRegistry != nil {
		c.gatherers = append(c.gatherers, stateRegistry)
	}
	c.controller, err = controller.New(cfg, stateDB, c.log, c.tracer, registry)
	if err != nil {
		return err
	}
	if err := c.controller.Init(ctx); err != nil {
		return err
	}
	c.log.Debug("initialized",
		zap.String("dataDir", c.dataDir),
		zap.Bool("memory", c.memory),
		zap.Stringer("level", cfg.GetLogLevel()),
	)
	return nil
}

// openDatabase returns an in-memory database when --memory is set and the
// configured durable database under the data directory otherwise. Only
// pebble exposes a metrics registry.
func (c *crowdfund) openDatabase(name string) (closableBackend, *prometheus.Registry, error) {
	if c.memory {
		db := memdb.New()
		c.closers = append(c.closers, db.Close)
		return db, nil, nil
	}
	dir, err := utils.InitSubDirectory(c.dataDir, name)
	if err != nil {
		return nil, nil, err
	}
	var (
		db       closableBackend
		registry *prometheus.Registry
	)
	switch c.cfg.DBType {
	case config.LevelDB:
		db, err = leveldb.New(dir, c.cfg.DBConfig.Sync)
	default:
		db, registry, err = pebble.New(dir, c.cfg.DBConfig)
	}
	if err != nil {
		return nil, nil, err
	}
	c.closers = append(c.closers, db.Close)
	return db, registry, nil
}

// close releases resources in reverse order of acquisition.
func (c *crowdfund) close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
