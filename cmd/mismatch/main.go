// Command mismatch reports the difference between an expected and an actual
// text the way a failed equality assertion does.
//
// Usage:
//
//	mismatch expected.txt actual.txt
//	mismatch --partial -w 40 expected.json actual.json
//	generate-output | mismatch --stdin golden.txt
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dacharyc/comparator"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Exit codes
const (
	exitIdentical = 0 // texts are identical
	exitDiffer    = 1 // texts differ
	exitError     = 2 // error occurred
)

// errUsage marks errors caused by wrong command-line arguments.
var errUsage = errors.New("usage")

// config holds configuration from profile files
type config struct {
	message         string
	partial         bool
	threshold       int
	window          int
	algorithm       string
	context         int
	statistics      bool
	warnLineEndings bool
	verbose         bool
}

// cliFlags holds all parsed command-line flags
type cliFlags struct {
	profile        *string
	message        *string
	partial        *bool
	threshold      *int
	window         *int
	algorithm      *string
	context        *int
	statistics     *bool
	noWarnLineEnds *bool
	stdinMode      *bool
	verbose        *bool
	help           *bool
	version        *bool
}

// defaultConfig returns a config with default values
func defaultConfig() config {
	return config{
		threshold:       comparator.DefaultThreshold,
		window:          comparator.DefaultWindowSize,
		algorithm:       comparator.AlgorithmHistogram,
		context:         3,
		warnLineEndings: true,
	}
}

// prescanProfile extracts the --profile value before flag parsing
func prescanProfile(args []string) string {
	for i, arg := range args {
		if arg == "--profile" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--profile=") {
			return strings.TrimPrefix(arg, "--profile=")
		}
	}
	return ""
}

// defineFlags sets up all command-line flags with config defaults
func defineFlags(fs *flag.FlagSet, cfg config, out io.Writer) cliFlags {
	f := cliFlags{
		profile:        fs.String("profile", "", "use settings from ~/.mismatchrc.<profile>"),
		message:        fs.StringP("message", "m", cfg.message, "message printed in front of the diff"),
		partial:        fs.BoolP("partial", "p", cfg.partial, "cut large inputs down to a window around the first difference"),
		threshold:      fs.IntP("threshold", "t", cfg.threshold, "line count product above which --partial cuts the inputs"),
		window:         fs.IntP("window", "w", cfg.window, "number of lines kept by --partial"),
		algorithm:      fs.StringP("algorithm", "A", cfg.algorithm, "line diff algorithm: histogram or myers"),
		context:        fs.IntP("context", "C", cfg.context, "number of context lines around each change"),
		statistics:     fs.BoolP("statistics", "s", cfg.statistics, "print line statistics to stderr"),
		noWarnLineEnds: fs.Bool("no-line-ending-warning", !cfg.warnLineEndings, "do not warn about different line endings"),
		stdinMode:      fs.Bool("stdin", false, "read the expected text from stdin, the actual text from the argument"),
		verbose:        fs.BoolP("verbose", "V", cfg.verbose, "log diagnostics to stderr"),
		help:           fs.BoolP("help", "h", false, "show help"),
		version:        fs.BoolP("version", "v", false, "show version"),
	}

	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: mismatch [options] expected actual\n")
		fmt.Fprintf(out, "       mismatch [options] --stdin actual\n")
		fmt.Fprintf(out, "\nReport the difference between an expected and an actual text.\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExit codes:\n")
		fmt.Fprintf(out, "  0  texts are identical\n")
		fmt.Fprintf(out, "  1  texts differ\n")
		fmt.Fprintf(out, "  2  error occurred\n")
	}

	return f
}

// newLogger returns a JSON logger writing to w. Debug output is only
// enabled in verbose mode.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns its exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	profile := prescanProfile(args)

	configPath, err := findConfigFile(profile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config %s: %v\n", configPath, err)
		return exitError
	}

	fs := flag.NewFlagSet("mismatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := defineFlags(fs, cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *f.version {
		fmt.Fprintf(stdout, "mismatch version %s\n", Version)
		return exitIdentical
	}
	if *f.help {
		fs.Usage()
		return exitIdentical
	}

	logger := newLogger(stderr, *f.verbose)
	defer func() { _ = logger.Sync() }()
	logger.Debug("configuration loaded", zap.String("path", configPath), zap.String("profile", profile))

	algo, err := comparator.AlgorithmByName(*f.algorithm)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if *f.context < 0 {
		fmt.Fprintf(stderr, "Error: context must not be negative\n")
		return exitError
	}

	expected, actual, err := readInputTexts(fs, *f.stdinMode, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fs.Usage()
		}
		return exitError
	}

	differ := comparator.NewUnifiedDiffer(comparator.DefaultHeader)
	differ.Algorithm = algo
	differ.ContextLines = *f.context
	differ.WarnLineEndings = !*f.noWarnLineEnds

	m := comparator.New(expected, actual, comparator.String(expected), comparator.String(actual), comparator.Options{
		Message: parseEscapeSequences(*f.message),
		Differ:  differ,
	})

	expectedLines := m.ExpectedText().Lines()
	actualLines := m.ActualText().Lines()
	logger.Debug("inputs read",
		zap.Int("expected_lines", len(expectedLines)),
		zap.Int("actual_lines", len(actualLines)),
		zap.String("algorithm", *f.algorithm),
	)

	var output string
	if *f.partial {
		diff, w, err := m.WindowedDiff(*f.threshold, *f.window)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		logger.Debug("partial diff",
			zap.Bool("truncated", w.Truncated),
			zap.Int("divergence_index", w.DivergenceIndex),
			zap.Int("from", w.From),
			zap.Int("to", w.To),
		)
		output = m.Message() + diff
	} else {
		output = m.String()
	}
	fmt.Fprint(stdout, output)

	if *f.statistics {
		printStatistics(stderr, m.Statistics())
	}

	if expected != actual {
		return exitDiffer
	}
	return exitIdentical
}

// readInputTexts reads input from stdin or files
func readInputTexts(fs *flag.FlagSet, stdinMode bool, stdin io.Reader) (expected, actual string, err error) {
	if stdinMode {
		if fs.NArg() < 1 {
			return "", "", fmt.Errorf("%w: --stdin mode requires one file argument", errUsage)
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		actual, err = readFile(fs.Arg(0))
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", fs.Arg(0), err)
		}
		return string(data), actual, nil
	}

	if fs.NArg() < 2 {
		return "", "", fmt.Errorf("%w: requires two file arguments", errUsage)
	}
	expected, err = readFile(fs.Arg(0))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", fs.Arg(0), err)
	}
	actual, err = readFile(fs.Arg(1))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", fs.Arg(1), err)
	}
	return expected, actual, nil
}

// printStatistics prints line statistics
func printStatistics(w io.Writer, st comparator.Statistics) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "expected: %d lines  %d %d%% common  %d %d%% removed\n",
		st.ExpectedLines,
		st.CommonLines, percent(st.CommonLines, st.ExpectedLines),
		st.RemovedLines, percent(st.RemovedLines, st.ExpectedLines))
	fmt.Fprintf(w, "actual: %d lines  %d %d%% common  %d %d%% added\n",
		st.ActualLines,
		st.CommonLines, percent(st.CommonLines, st.ActualLines),
		st.AddedLines, percent(st.AddedLines, st.ActualLines))
}

// percent calculates percentage, handling division by zero
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part * 100) / total
}

// readFile reads an entire file into a string
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseEscapeSequences converts \n, \t and \\ in a message given on the
// command line.
func parseEscapeSequences(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i += 2
			case 't':
				result.WriteByte('\t')
				i += 2
			case '\\':
				result.WriteByte('\\')
				i += 2
			default:
				result.WriteByte(s[i])
				i++
			}
		} else {
			result.WriteByte(s[i])
			i++
		}
	}
	return result.String()
}

// findConfigFile returns the path to the config file for the given profile.
// If a profile is specified but the file doesn't exist, it returns an error.
func findConfigFile(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil // No home dir, use defaults
	}

	if profile == "" {
		path := filepath.Join(home, ".mismatchrc")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		path = filepath.Join(xdgConfig, "mismatch", "config")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", nil
	}

	path := filepath.Join(home, ".mismatchrc."+profile)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("profile config file not found: %s", path)
	}
	return path, nil
}
