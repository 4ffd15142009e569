package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduelevate/internal/app"
	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/llm"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/screen"
	"github.com/abhisek/eduelevate/internal/store"
)

var errNotInteractive = errors.New("the dashboard needs an interactive terminal; use a subcommand such as `eduelevate coach` in scripts")

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	if !isInteractive() {
		return errNotInteractive
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	align, _ := cmd.Flags().GetBool("align")
	eventRepo := st.EventRepo()
	deps := screen.Deps{
		Roster:   roster.NewStore(roster.WithSeed(roster.SeedStudents())),
		Catalog:  planbook.NewCatalog(planbook.Seed()...),
		Events:   eventRepo,
		Settings: &screen.Settings{AlignmentMode: align},
	}

	gateway, cfg, err := newGateway(cmd.Context(), cmd, eventRepo)
	if err != nil {
		slog.Warn("model provider unavailable", "error", err)
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Coaching features will be unavailable.")
	} else {
		deps.Coach = gateway
		deps.Provider = cfg.Provider
	}

	return app.Run(app.Options{Deps: deps})
}

// loadLLMConfig resolves the provider configuration. --provider selects the
// provider explicitly and reads its ELEVATE_* key.
func loadLLMConfig(cmd *cobra.Command) (llm.Config, error) {
	name, _ := cmd.Flags().GetString("provider")
	if name == "" {
		return llm.LoadConfig()
	}
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		return llm.Config{}, err
	}
	cfg.Provider = name
	if err := cfg.Validate(); err != nil {
		return llm.Config{}, err
	}
	return cfg, nil
}

// newGateway builds the provider stack and the coaching gateway over it.
// Calls are recorded in eventRepo when it is not nil.
func newGateway(ctx context.Context, cmd *cobra.Command, eventRepo store.EventRepo) (*coaching.Gateway, llm.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadLLMConfig(cmd)
	if err != nil {
		return nil, llm.Config{}, err
	}
	provider, err := llm.NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, llm.Config{}, err
	}

	gcfg := coaching.DefaultConfig()
	gcfg.Timeout = cfg.Timeout
	return coaching.NewGateway(provider, gcfg, slog.Default()), cfg, nil
}
