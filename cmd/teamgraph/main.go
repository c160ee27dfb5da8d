package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rohankatakam/teamgraph/internal/config"
	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/logging"
	"github.com/rohankatakam/teamgraph/internal/output"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile    string
	verbose    bool
	formatFlag string
	logger     *logrus.Logger
	cfg        *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprint(os.Stderr, formatError(err, verbose))
		os.Exit(exitCode(err))
	}
}

// formatError renders a command failure. With --verbose, typed errors
// include their severity, type and context.
func formatError(err error, verbose bool) string {
	var e *errors.Error
	if verbose && stderrors.As(err, &e) {
		return "Error: " + e.DetailedString()
	}
	return fmt.Sprintf("Error: %v\n", err)
}

// exitCode is 2 for critical failures such as a broken config file, 1
// otherwise
func exitCode(err error) int {
	var e *errors.Error
	if stderrors.As(err, &e) && e.IsFatal() {
		return 2
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "teamgraph",
	Short: "teamgraph - contributor and project relationship analytics",
	Long: `teamgraph reads commit history across a landscape of repositories and
reports who works with whom, which projects share people, and how those
connections change over time.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			if cfgFile != "" {
				return err
			}
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		if cfg.Logging.JSON {
			logger.SetFormatter(&logrus.JSONFormatter{})
		}
		return logging.Initialize(loggingConfig(cfg, verbose))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .teamgraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "o", "", "output format: text, json or yaml (default: text on a terminal, json otherwise)")

	rootCmd.SetVersionTemplate(`teamgraph {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(extractGitHubCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(historyCmd)
}

// loggingConfig maps the logging section onto the slog setup used by the
// library packages. --verbose always wins.
func loggingConfig(c *config.Config, verbose bool) logging.Config {
	lc := logging.DefaultConfig(verbose)
	if !verbose {
		if level, err := logging.ParseLevel(c.Logging.Level); err == nil {
			lc.Level = level
		}
	}
	lc.OutputFile = c.Logging.File
	lc.JSONFormat = c.Logging.JSON
	return lc
}

// selectFormatter resolves --format, defaulting to text for terminals and
// JSON for pipes
func selectFormatter(topK int) (output.Formatter, error) {
	name := formatFlag
	if name == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			name = string(output.FormatText)
		} else {
			name = string(output.FormatJSON)
		}
	}

	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, topK), nil
}
