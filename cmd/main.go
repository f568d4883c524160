package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xhad/rasanlu/internal/types"
	"github.com/xhad/rasanlu/pkg/codec"
	cfgPkg "github.com/xhad/rasanlu/pkg/config"
	"github.com/xhad/rasanlu/pkg/logger"
	"github.com/xhad/rasanlu/pkg/store"
	"github.com/xhad/rasanlu/server"
)

var version = "0.0.1"

type serveOptions struct {
	configPath string
	dataPath   string
	addr       string
	cors       bool
	verbose    int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:          "rasanlu",
		Short:        "Rasa NLU API for editing training dataset",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, config, opts.verbose)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVarP(&opts.dataPath, "data", "d", "", "Sets data file to load from")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Address to listen on")
	cmd.Flags().BoolVar(&opts.cors, "cors", false, "Allow CORS")
	cmd.Flags().CountVarP(&opts.verbose, "verbose", "v", "Sets the level of verbosity")

	cmd.AddCommand(newMergeCmd())
	return cmd
}

// resolveConfig loads the config file and lets explicitly set flags win.
func resolveConfig(cmd *cobra.Command, opts serveOptions) (*cfgPkg.Config, error) {
	config, err := cfgPkg.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		config.Storage.Path = opts.dataPath
	}
	if flags.Changed("addr") {
		config.Server.Addr = opts.addr
	}
	if flags.Changed("cors") {
		config.Server.CORS = opts.cors
	}

	if verrs := config.Validate(); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, e := range verrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return config, nil
}

func newPersister(ctx context.Context, config *cfgPkg.Config, log *slog.Logger) (types.Persister, string, error) {
	switch config.Storage.Driver {
	case cfgPkg.DriverPostgres:
		ps, err := store.NewPostgres(ctx, store.PostgresConfig{
			ConnString: config.Database.URL,
			TableName:  config.Database.TableName,
			Name:       config.Database.Name,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		return ps, config.Database.TableName + "/" + config.Database.Name, nil
	default:
		fs := codec.NewFileStore(config.Storage.Path, log)
		return fs, fs.Path(), nil
	}
}

func run(ctx context.Context, config *cfgPkg.Config, verbose int) error {
	log := logger.New(logger.Config{
		Level:     config.Log.Level,
		Format:    config.Log.Format,
		Verbosity: verbose,
	})
	slog.SetDefault(log)

	persister, location, err := newPersister(ctx, config, log)
	if err != nil {
		return err
	}
	defer persister.Close()

	doc, loaded := store.Hydrate(ctx, persister, log)
	if loaded {
		color.Green("Using data from %s", location)
	} else {
		color.Yellow("Using empty data")
	}

	st := store.New(doc)
	srv := server.New(server.Config{
		Addr:         config.Server.Addr,
		CORS:         config.Server.CORS,
		RateLimit:    config.Server.RateLimit,
		RateBurst:    config.Server.RateBurst,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}, st, persister, log)

	color.Cyan("Serving on http://%s", config.Server.Addr)
	return srv.Run(ctx)
}
