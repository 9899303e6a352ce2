package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/nethex/internal/adapters/link"
	logAdapter "github.com/bft-labs/nethex/internal/adapters/log"
	"github.com/bft-labs/nethex/internal/adapters/output"
	"github.com/bft-labs/nethex/internal/app"
	"github.com/bft-labs/nethex/internal/cliconfig"
	"github.com/bft-labs/nethex/internal/domain"
	"github.com/bft-labs/nethex/internal/filter"
	"github.com/bft-labs/nethex/internal/ports"
	"github.com/bft-labs/nethex/internal/source"
)

const helpDescription = `
Inject raw hex onto a network interface and watch what comes back.

Highlights:
  - Sends a byte string, or one frame per line of a file or stdin.
  - Repeats and rate-limits transmission without drifting.
  - Prints received frames as a hex dump or raw hex, optionally to a pcap file.
  - Whitelist and blacklist regular expressions match the hex of each frame.

Run without an interface to list the available ones.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  nethex
  nethex eth0 ffffffffffff0011223344550800
  nethex eth0 -F frames.txt -s 3 -r 100
  nethex eth0 -c 10 -t 5 -f '^ffffffffffff' -b '0806'
  cat frames.txt | nethex eth0 -S -R -o rx.pcap
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var timeoutSecs uint64

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "nethex [interface] [bytes]",
		Short:         "Inject and receive raw link-layer frames as hex",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.nethex/config.toml), then env, then flags.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables (NETHEX_*) override the file but not flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if changed["timeout"] {
				cfg.Timeout = time.Duration(timeoutSecs) * time.Second
			}
			if len(args) > 0 {
				cfg.Interface = args[0]
			}
			if len(args) > 1 {
				cfg.Bytes = args[1]
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cliconfig.NewLogger(os.Stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			log = logger

			if cfg.Interface == "" {
				ifaces, err := link.List()
				if err != nil {
					return err
				}
				return link.WriteList(cmd.OutOrStdout(), ifaces)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					log.Info().Msg("received signal, stopping...")
					cancel()
				case <-ctx.Done():
				}
			}()

			return run(ctx, cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.nethex/config.toml)")

	root.Flags().Uint64VarP(&cfg.Send, "send", "s", cfg.Send, "number of times to send each frame")
	root.Flags().Float64VarP(&cfg.Rate, "rate", "r", cfg.Rate, "maximum frames per second (unset: as fast as possible)")
	root.Flags().Int64VarP(&cfg.Count, "count", "c", cfg.Count, "stop after receiving this many matching frames (-1: never)")
	root.Flags().Uint64VarP(&timeoutSecs, "timeout", "t", 0, "stop receiving after this many seconds")

	root.Flags().StringVarP(&cfg.Filter, "filter", "f", cfg.Filter, "only print frames whose hex matches this regex")
	root.Flags().StringVarP(&cfg.Blacklist, "blacklist", "b", cfg.Blacklist, "drop frames whose hex matches this regex")
	root.Flags().BoolVarP(&cfg.Raw, "raw", "R", cfg.Raw, "print received frames as bare hex, one per line")

	root.Flags().StringVarP(&cfg.File, "file", "F", cfg.File, "read frames to send from a file, one hex string per line")
	root.Flags().BoolVarP(&cfg.Stdin, "stdin", "S", cfg.Stdin, "read frames to send from stdin, one hex string per line")

	root.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "also write received frames to this pcap file")
	root.Flags().IntVar(&cfg.SnapLen, "snaplen", cfg.SnapLen, "capture snapshot length in bytes")
	root.Flags().BoolVar(&cfg.Promisc, "promisc", cfg.Promisc, "open the interface in promiscuous mode")
	root.Flags().DurationVar(&cfg.Grace, "grace", cfg.Grace, "how long to wait for workers when stopping early")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("nethex")
		os.Exit(1)
	}
}

// run opens the link and frame source described by cfg and drives one
// session to completion.
func run(ctx context.Context, cfg cliconfig.Config, log zerolog.Logger, stdin io.Reader, stdout io.Writer) (err error) {
	iface, err := link.Lookup(cfg.Interface)
	if err != nil {
		return err
	}

	flt, err := filter.Compile(cfg.Filter, cfg.Blacklist)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logger := logAdapter.NewZerologAdapter(log).With(ports.String("session", sessionID))

	spec := cfg.SourceSpec()
	for _, k := range spec.Ignored() {
		logger.Warn("input ignored", ports.String("input", k.String()), ports.String("using", spec.Kind().String()))
	}
	src, err := source.Open(spec, stdin)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("close source: %w", cerr)).ErrorOrNil()
		}
	}()

	linkCfg := link.Config{
		SnapLen:     int32(cfg.SnapLen),
		Promiscuous: cfg.Promisc,
		ReadTimeout: link.DefaultReadTimeout,
	}

	var tx ports.LinkWriter
	var frames ports.FrameSource
	if spec.Kind() != source.KindNone {
		h, err := link.Open(iface.Name, linkCfg)
		if err != nil {
			return err
		}
		defer h.Close()
		tx = h
		frames = src
	}

	rx, err := link.Open(iface.Name, linkCfg)
	if err != nil {
		return err
	}
	defer rx.Close()

	mode := output.ModeDump
	if cfg.Raw {
		mode = output.ModeRaw
	}
	sink := ports.FrameSink(output.NewRenderer(stdout, mode))

	clk := clock.New()
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("create capture file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = multierror.Append(err, fmt.Errorf("close capture file: %w", cerr)).ErrorOrNil()
			}
		}()
		capture, err := link.NewCaptureWriter(f, uint32(cfg.SnapLen), rx.LinkType(), clk)
		if err != nil {
			return err
		}
		sink = output.Tee(sink, capture)
	}

	if flt.Enabled() {
		logger.Debug("filter compiled",
			ports.String("whitelist", flt.Whitelist()),
			ports.String("blacklist", flt.Blacklist()),
		)
	}

	session := app.NewSession(app.SessionConfig{
		ID:            sessionID,
		Repeat:        cfg.Send,
		Rate:          domain.Rate(cfg.Rate),
		Bound:         cfg.Bound(),
		QueueCapacity: app.DefaultQueueCapacity,
		ShutdownGrace: cfg.Grace,
	}, frames, tx, rx, flt, sink, clk, logger)

	summary, err := session.Run(ctx)
	logger.Info("session finished",
		ports.Int("produced", summary.Produced),
		ports.Int("sent", summary.Sent),
		ports.Int("matched", summary.Matched),
		ports.Duration("duration", summary.Duration),
		ports.String("stop_reason", summary.StopReason),
	)
	return err
}
