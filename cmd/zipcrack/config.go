package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/saylorsolutions/zipcrack/pkg/keyspace"
	"github.com/saylorsolutions/zipcrack/pkg/search"
)

const envPrefix = "ZIPCRACK"

var errMissingArchive = errors.New("missing required ARCHIVE argument")

type config struct {
	Archive   string
	Charset   string
	Length    int
	Workers   int
	Partition search.Strategy
	Entry     int
	Output    string
	Grace     time.Duration
	Start     uint64
	End       uint64
	Confirm   bool
	Progress  bool
	Verbose   bool
}

func newFlagSet(output io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet("zipcrack", flag.ContinueOnError)
	flags.SetOutput(output)
	strategy := search.RoundRobin
	flags.BoolP("help", "h", false, "Prints this usage information.")
	flags.StringP("charset", "c", keyspace.DefaultAlphabet, "Symbols a password may contain, in index order.")
	flags.IntP("length", "l", keyspace.DefaultLength, "Exact password length.")
	flags.IntP("workers", "w", 0, "Number of concurrent workers. Defaults to the number of logical CPUs.")
	flags.VarP(&strategy, "partition", "p", "How the keyspace is divided between workers, either round-robin or shared-counter.")
	flags.IntP("entry", "e", 0, "Zero based index of the archive entry to attack.")
	flags.StringP("output", "o", "password.txt", "File the recovered password is written to.")
	flags.Duration("grace", search.DefaultGracePeriod, "How long to wait for workers to stop before warning.")
	flags.Uint64("start", 0, "First keyspace index to try.")
	flags.Uint64("end", 0, "Keyspace index to stop before. Defaults to the size of the keyspace.")
	flags.Bool("confirm", true, "Decrypt the whole entry to reject the check byte's false positives.")
	flags.Bool("progress", false, "Show a progress bar.")
	flags.BoolP("verbose", "v", false, "Enables debug logging.")
	flags.String("config", "", "Optional config file (YAML, JSON, or TOML) providing defaults for these flags.")
	flags.Usage = func() {
		_, _ = fmt.Fprintf(output, `
zipcrack recovers the password of a ZipCrypto encrypted archive entry by exhaustive search.
Each candidate is checked against the entry's 12 byte encryption header, which rejects about 255 of every 256 wrong passwords without touching the file contents.

USAGE:  zipcrack [FLAGS] ARCHIVE

ARGS:
    ARCHIVE is the path to the ZIP archive.

FLAGS:
%s
ENVIRONMENT:
    Every flag may also be set with an environment variable prefixed with %s_, like %s_WORKERS=4.
    Precedence is flag, then environment, then config file, then the default.

EXIT CODES:
    0 when the password was found, 1 on error, 2 if the keyspace was exhausted, 3 if interrupted.
`, flags.FlagUsages(), envPrefix, envPrefix)
	}
	return flags
}

// loadConfig resolves the configuration from args, the environment, and an optional config file.
// flag.ErrHelp is returned if usage was requested.
func loadConfig(flags *flag.FlagSet, args []string) (*config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if help, _ := flags.GetBool("help"); help {
		return nil, flag.ErrHelp
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
		}
	}

	cfg := &config{
		Charset:  v.GetString("charset"),
		Length:   v.GetInt("length"),
		Workers:  v.GetInt("workers"),
		Entry:    v.GetInt("entry"),
		Output:   v.GetString("output"),
		Grace:    v.GetDuration("grace"),
		Start:    v.GetUint64("start"),
		End:      v.GetUint64("end"),
		Confirm:  v.GetBool("confirm"),
		Progress: v.GetBool("progress"),
		Verbose:  v.GetBool("verbose"),
	}
	strategy, err := search.ParseStrategy(v.GetString("partition"))
	if err != nil {
		return nil, err
	}
	cfg.Partition = strategy
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers()
	}
	if cfg.Entry < 0 {
		return nil, errors.Newf("entry index must not be negative, got %d", cfg.Entry)
	}

	if flags.NArg() == 0 {
		return nil, errMissingArchive
	}
	cfg.Archive = flags.Arg(0)
	return cfg, nil
}

func defaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}
