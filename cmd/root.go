package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/eduelevate/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "eduelevate",
	Short: "Instructional coaching dashboard for the terminal",
	Long: "EduElevate keeps a class roster with assessment trends and sends lesson plans, " +
		"classroom recordings and exit tickets to a language model for coaching feedback.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides ELEVATE_DB env var)")
	rootCmd.PersistentFlags().String("provider", "", "Model provider: gemini, anthropic, openai, openrouter or mock (overrides ELEVATE_LLM_PROVIDER)")
	rootCmd.PersistentFlags().Bool("align", false, "Start with T-TESS alignment mode on")

	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// isInteractive reports whether stdin is a terminal the TUI can drive.
var isInteractive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ELEVATE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the event log selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
