package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/trailmark/internal/config"
	"github.com/abhisek/trailmark/internal/logger"
	"github.com/abhisek/trailmark/internal/store"
)

var (
	cfg config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "trailmark",
	Short: "Track progress through outdoor-skills learning trails",
	Long: "Trailmark tracks completion of tracks, modules, and steps, awards XP and levels,\n" +
		"unlocks advanced tracks, and issues badges.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides TRAILMARK_DB env var)")
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/trailmark/config.yaml)")
	flags.String("catalog", "", "Path to a catalog YAML file (default: bundled catalog)")
	flags.String("log-mode", "", "Logger mode: dev, prod, or nop")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides, and builds the logger.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		loaded.CatalogPath = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		loaded.Log.Mode = m
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		loaded.Log.Verbose = true
		if loaded.Log.Mode == "nop" {
			loaded.Log.Mode = "dev"
		}
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(loaded.Log.Mode, loaded.Log.Verbose)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	cfg, log = loaded, l
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TRAILMARK_DB or the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DBPath
	}
	if p == "" {
		var err error
		if p, err = store.DefaultDBPath(); err != nil {
			return "", err
		}
	}
	return p, store.EnsureDir(p)
}
