package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hammamikhairi/repflow/internal/catalog"
	"github.com/hammamikhairi/repflow/internal/config"
	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

var (
	flagVerbose    bool
	flagQuiet      bool
	flagLogFile    string
	flagConfigPath string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "repflow",
		Short:         "Constrained workout generator and interval timer",
		Long: "RepFlow generates workouts where no two consecutive exercises hit\n" +
			"the same muscle group, then runs them on an interval timer with\n" +
			"audio cues and spoken announcements.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "disable all logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", config.DefaultLogPath(), "file to write logs to (use \"stderr\" to log to console)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", config.DefaultConfigPath(), "path to the TOML config file")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// setupLogger builds the application logger. Logs go to a rotated file
// by default so the interactive prompt stays clean.
func setupLogger() *logger.Logger {
	level := logger.LevelNormal
	if flagVerbose {
		level = logger.LevelVerbose
	}
	if flagQuiet {
		level = logger.LevelOff
	}

	var out io.Writer = os.Stderr
	if flagLogFile != "" && flagLogFile != "stderr" {
		out = &lumberjack.Logger{
			Filename:   flagLogFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	// Redirect Go's default log package (used by some third-party libs)
	// to the same output so it doesn't spam the terminal.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(level, out)
}

// loadSettings resolves defaults overlaid with the config file. Flag
// overrides are applied by the individual commands.
func loadSettings() (config.Settings, error) {
	s := config.Defaults()
	fc, err := config.Load(flagConfigPath)
	if err != nil {
		return s, fmt.Errorf("loading config: %w", err)
	}
	s.Apply(fc)
	return s, nil
}

// workoutGroups resolves the configured muscle groups against the
// catalog. No configured groups means the whole catalog; the generator
// itself requires an explicit non-empty set.
func workoutGroups(settings config.Settings, cat *catalog.MemoryCatalog) ([]domain.MuscleGroup, error) {
	groups, err := settings.MuscleGroups()
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		groups = cat.MuscleGroups()
	}
	return groups, nil
}
