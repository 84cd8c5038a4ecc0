package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mixprep/internal/batch"
	"mixprep/internal/config"
	"mixprep/internal/ledger"
	"mixprep/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	workersFlag  *int

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, workersFlag *int) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		workersFlag:  workersFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if c.workersFlag != nil && *c.workersFlag > 0 {
			cfg.Mixing.Workers = *c.workersFlag
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := ""
		if c.logLevelFlag != nil {
			level = *c.logLevelFlag
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, level)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openLedger() (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ledger.Open(cfg)
}

// newPipeline wires a batch pipeline recording into the ledger. The returned
// closer releases the ledger. showProgress enables the per-run track bar.
func (c *commandContext) newPipeline(cmd *cobra.Command, showProgress bool) (*batch.Pipeline, io.Closer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openLedger()
	if err != nil {
		return nil, nil, err
	}
	opts := []batch.RunnerOption{batch.WithLedger(store)}
	if w := progressWriter(cmd.ErrOrStderr()); w != nil && showProgress {
		opts = append(opts, batch.WithProgress(w))
	}
	runner := batch.NewRunner(cfg.Mixing.Workers, logger, opts...)
	return batch.NewPipeline(cfg, runner, logger), store, nil
}

// progressWriter returns w when it is a terminal, nil otherwise.
func progressWriter(w io.Writer) io.Writer {
	if file, ok := w.(*os.File); ok && shouldColorize(file) {
		return file
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
