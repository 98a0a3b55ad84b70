package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/davebream/mcpreflect/internal/config"
	"github.com/davebream/mcpreflect/internal/logging"
	"github.com/davebream/mcpreflect/internal/reflection"
	"github.com/davebream/mcpreflect/internal/server"
	"github.com/davebream/mcpreflect/internal/tools"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	serveLogLevel string
	serveLogFile  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP requests over stdin/stdout",
	RunE:  runServe,
}

func addServeFlags(c *cobra.Command) {
	c.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	c.Flags().BoolVar(&serveLogFile, "log-file", false, "Also write logs to the rotated log file")
}

// loadServeConfig reads the config file, then the environment, then flags.
func loadServeConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, "", err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = serveLogLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = serveLogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfgPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	level.Set(lvl)

	opts := logging.Options{Level: level}
	if cfg.LogFile {
		if opts.FilePath, err = config.LogFilePath(); err != nil {
			return err
		}
	}
	base, closeLog, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := logging.RunLogger(base, uuid.New().String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Live log level changes, unless pinned by the flag. A missing config dir
	// just disables reloading.
	if !cmd.Flags().Changed("log-level") {
		wait, err := watchLogLevel(ctx, cfgPath, level, logger)
		if err != nil {
			logger.Debug("config watch disabled", "error", err)
		} else {
			// Runs before closeLog so the watcher never logs to a closed file.
			defer func() {
				stop()
				wait()
			}()
		}
	}

	registry, err := tools.DefaultRegistry(reflection.New())
	if err != nil {
		return err
	}
	srv := server.New(registry,
		server.WithLogger(logger),
		server.WithServerInfo(cfg.ServerName, cfg.ServerVersion),
		server.WithProtocolVersion(cfg.ProtocolVersion),
		server.WithMaxLineBytes(cfg.MaxLineBytes),
	)
	return srv.Serve(ctx, os.Stdin, os.Stdout)
}

// watchLogLevel applies log_level changes in the config file to level until
// ctx is done. The returned wait blocks until the watcher has stopped.
func watchLogLevel(ctx context.Context, cfgPath string, level *slog.LevelVar, logger *slog.Logger) (wait func(), err error) {
	w, err := config.NewWatcher(cfgPath)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer w.Close()
		w.Run(ctx, func(newCfg *config.Config, err error) {
			if err != nil {
				logger.Warn("reload config", "error", err)
				return
			}
			l, err := config.ParseLevel(newCfg.LogLevel)
			if err != nil {
				logger.Warn("reload config", "error", err)
				return
			}
			if l != level.Level() {
				logger.Info("log level changed", "from", level.Level(), "to", l)
				level.Set(l)
			}
		})
	}()
	return func() { <-done }, nil
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
