package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/saylorsolutions/zipcrack/cmd/internal"
	"github.com/saylorsolutions/zipcrack/pkg/confirm"
	"github.com/saylorsolutions/zipcrack/pkg/keyspace"
	"github.com/saylorsolutions/zipcrack/pkg/search"
	"github.com/saylorsolutions/zipcrack/pkg/zipheader"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := newFlagSet(stderr)
	if len(args) == 0 {
		flags.Usage()
		return internal.ExitError
	}
	cfg, err := loadConfig(flags, args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		flags.Usage()
		return internal.ExitFound
	case errors.Is(err, errMissingArchive):
		flags.Usage()
		internal.Echo(stderr, "%v", err)
		return internal.ExitError
	case err != nil:
		internal.Echo(stderr, "Invalid configuration: %v", err)
		return internal.ExitError
	}

	log := newLogger(cfg.Verbose, stderr).With(zap.String("version", version))
	defer func() {
		_ = log.Sync()
	}()

	res, err := crack(ctx, cfg, log, stderr)
	if err != nil {
		internal.Echo(stderr, "Failed to start search: %v", err)
		return internal.ExitError
	}

	switch res.State {
	case search.Found:
		if err := os.WriteFile(cfg.Output, []byte(res.Password+"\n"), 0600); err != nil {
			internal.Echo(stderr, "Found password '%s' but failed to write '%s': %v", res.Password, cfg.Output, err)
			return internal.ExitError
		}
		internal.Echo(stdout, "%s", res.Password)
		internal.Echo(stderr, "Found password at index %d after %d attempts in %s, written to '%s'",
			res.Index, res.Attempts, res.Elapsed.Round(time.Millisecond), cfg.Output)
	case search.Exhausted:
		internal.Echo(stderr, "Password not found after %d attempts", res.Attempts)
		if !res.Complete() {
			internal.Echo(stderr, "%d worker(s) faulted, so part of the keyspace was not searched", res.Faults)
		}
	case search.Cancelled:
		internal.Echo(stderr, "Search interrupted after %d attempts", res.Attempts)
	}
	return internal.ExitCode(res)
}

// crack validates the target entry and runs the search.
// Errors are only returned for problems found before any worker starts.
func crack(ctx context.Context, cfg *config, log *zap.Logger, stderr io.Writer) (*search.Result, error) {
	space, err := keyspace.New(cfg.Charset, cfg.Length)
	if err != nil {
		return nil, err
	}
	entry, err := zipheader.Open(cfg.Archive, cfg.Entry)
	if err != nil {
		return nil, err
	}
	log.Info("Attacking entry",
		zap.String("archive", cfg.Archive),
		zap.String("entry", entry.Name),
		zap.Uint8("checkByte", entry.CheckByte()),
		zap.Uint64("keyspace", space.Size()),
	)

	opts := []search.Option{
		search.Workers(cfg.Workers),
		search.WithStrategy(cfg.Partition),
		search.GracePeriod(cfg.Grace),
		search.WithLogger(log),
	}
	if cfg.Start > 0 || cfg.End > 0 {
		end := cfg.End
		if end == 0 {
			end = space.Size()
		}
		opts = append(opts, search.WithRange(cfg.Start, end))
	}
	if cfg.Confirm {
		full, err := confirm.Open(cfg.Archive, entry.Name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, search.WithConfirm(full))
	}
	if cfg.Progress {
		opts = append(opts, search.OnProgress(500*time.Millisecond, progressReporter(stderr)))
	}

	c, err := search.New(space, entry.Verifier(), opts...)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx)
}

func progressReporter(w io.Writer) func(search.Progress) {
	var bar *progressbar.ProgressBar
	return func(p search.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions64(int64(p.Total),
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("Searching"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetItsString("pw"),
				progressbar.OptionThrottle(100*time.Millisecond),
			)
		}
		_ = bar.Set64(int64(p.Attempts))
	}
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if verbose {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level))
}
