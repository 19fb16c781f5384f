// Command tsnview loads a Time-Sensitive Networking topology and its streams,
// routes every stream over the fewest hops and answers queries about the
// result from the command line or over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"

	"tsnview/internal/config"
	"tsnview/internal/network"
	"tsnview/internal/service"

	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand and the resolved config
type rootOptions struct {
	configPath   string
	topology     string
	streams      string
	switchPrefix string
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tsnview",
		Short: "Route TSN streams over a switched topology and inspect the result.",
		Long: `tsnview reads device, link and stream records (CSV or YAML), resolves ` +
			`a fewest-hop path for every stream and records which switch forwards ` +
			`which stream and what each end station receives.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search $TSNVIEW_CONFIG, ./tsnview.yaml, ~/.config/tsnview)")
	flags.StringVarP(&opts.topology, "topology", "t", "", "topology file (.csv, .yaml)")
	flags.StringVarP(&opts.streams, "streams", "s", "", "streams file (.csv, .yaml)")
	flags.StringVar(&opts.switchPrefix, "switch-prefix", "", "name prefix that marks link-only nodes as switches")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newRoutesCmd(opts),
		newPathCmd(opts),
		newTreeCmd(opts),
		newDescribeCmd(opts),
		newExportCmd(opts),
	)

	return rootCmd
}

// resolve loads the config file and applies flag overrides
func (o *rootOptions) resolve(cmd *cobra.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.configPath != "" {
		cfg, path, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("topology") {
		cfg.Topology = o.topology
		// A topology given on the command line never pairs with the
		// config file's streams
		cfg.Streams = ""
	}
	if flags.Changed("streams") {
		cfg.Streams = o.streams
	}
	if flags.Changed("switch-prefix") {
		cfg.SwitchPrefix = o.switchPrefix
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	o.cfg = cfg
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	if path != "" {
		o.logger.Debug("config loaded", "path", path)
	}
	return nil
}

// newService creates a network service configured from the resolved options
func (o *rootOptions) newService(bus *service.EventBus, extra ...service.Option) *service.NetworkService {
	svcOpts := append([]service.Option{
		service.WithNetworkOptions(network.WithSwitchPrefix(o.cfg.SwitchPrefix)),
	}, extra...)
	return service.NewNetworkService(bus, o.logger, svcOpts...)
}

// load builds the network once from the configured files
func (o *rootOptions) load(ctx context.Context) (*network.Network, *network.StreamReport, error) {
	svc := o.newService(nil)
	report, err := svc.Load(ctx, o.cfg.Topology, o.cfg.Streams)
	if err != nil {
		return nil, nil, err
	}
	return svc.Current(), report, nil
}
