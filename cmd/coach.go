package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduelevate/internal/coaching"
	"github.com/abhisek/eduelevate/internal/export"
	"github.com/abhisek/eduelevate/internal/importer"
	"github.com/abhisek/eduelevate/internal/planbook"
	"github.com/abhisek/eduelevate/internal/roster"
	"github.com/abhisek/eduelevate/internal/store"
)

var errCoachingFailed = errors.New("coaching request failed; see the log for details")

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Run one coaching request and print the report",
	Long: "Runs a single coaching request against the demo roster and lesson catalog. " +
		"Reports are printed as Markdown, HTML or JSON.",
}

// coachEnv is what every coach subcommand works from.
type coachEnv struct {
	st      *store.Store
	gateway *coaching.Gateway
	roster  *roster.Store
	catalog *planbook.Catalog
	flags   coaching.Flags
}

func openCoachEnv(cmd *cobra.Command) (*coachEnv, error) {
	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return nil, fmt.Errorf("unknown format %q: want markdown, html or json", format)
	}

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	gateway, _, err := newGateway(cmd.Context(), cmd, st.EventRepo())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("model provider: %w", err)
	}

	rs := roster.NewStore(roster.WithSeed(roster.SeedStudents()))
	if file, _ := cmd.Flags().GetString("roster"); file != "" {
		names, err := importer.ReadFile(file)
		if err != nil {
			st.Close()
			return nil, err
		}
		rs.BulkAdd(names)
	}
	align, _ := cmd.Flags().GetBool("align")

	return &coachEnv{
		st:      st,
		gateway: gateway,
		roster:  rs,
		catalog: planbook.NewCatalog(planbook.Seed()...),
		flags:   coaching.Flags{AlignmentMode: align},
	}, nil
}

func (e *coachEnv) Close() {
	e.st.Close()
}

func (e *coachEnv) plan(cmd *cobra.Command) (planbook.LessonPlan, error) {
	id, _ := cmd.Flags().GetString("plan")
	p, ok := e.catalog.Find(id)
	if !ok {
		return planbook.LessonPlan{}, fmt.Errorf("no lesson plan %q", id)
	}
	return p, nil
}

// runCoach opens the environment, runs fn and writes the report it returns.
func runCoach(cmd *cobra.Command, fn func(ctx context.Context, env *coachEnv) (coaching.Report, error)) error {
	env, err := openCoachEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := fn(ctx, env)
	if err != nil {
		return err
	}
	return emit(cmd, report)
}

func emit(cmd *cobra.Command, report coaching.Report) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeReport(out, report, format); err != nil {
		return err
	}
	if _, failed := report.(coaching.Failed); failed {
		return errCoachingFailed
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case "markdown", "html", "json":
		return true
	}
	return false
}

type jsonReport struct {
	Kind   coaching.Kind   `json:"kind"`
	Failed bool            `json:"failed,omitempty"`
	Report coaching.Report `json:"report,omitempty"`
}

// writeReport renders report in format: markdown, html or json.
func writeReport(w io.Writer, report coaching.Report, format string) error {
	switch format {
	case "markdown":
		_, err := io.WriteString(w, export.Markdown(report))
		return err
	case "html":
		page, err := export.HTML(report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	case "json":
		doc := jsonReport{Kind: report.ReportKind()}
		if _, failed := report.(coaching.Failed); failed {
			doc.Failed = true
		} else {
			doc.Report = report
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return fmt.Errorf("unknown format %q", format)
}

// loadAttachment loads path, or returns nil when path is empty.
func loadAttachment(path string) (*coaching.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	a, err := coaching.LoadAttachment(path)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var coachLessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Critique a lesson plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCoach(cmd, func(ctx context.Context, env *coachEnv) (coaching.Report, error) {
			plan, err := env.plan(cmd)
			if err != nil {
				return nil, err
			}
			target, _ := cmd.Flags().GetString("target")
			notes, _ := cmd.Flags().GetString("notes")
			path, _ := cmd.Flags().GetString("file")
			file, err := loadAttachment(path)
			if err != nil {
				return nil, err
			}
			return env.gateway.Submit(ctx, coaching.LessonCritiqueRequest(plan, target, notes, file, env.flags)), nil
		})
	},
}

var coachRewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite a lesson plan at the distinguished level",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCoach(cmd, func(ctx context.Context, env *coachEnv) (coaching.Report, error) {
			plan, err := env.plan(cmd)
			if err != nil {
				return nil, err
			}
			target, _ := cmd.Flags().GetString("target")

			var critique *coaching.LessonCritique
			if withCritique, _ := cmd.Flags().GetBool("critique"); withCritique {
				report := env.gateway.Submit(ctx, coaching.LessonCritiqueRequest(plan, target, "", nil, env.flags))
				c, ok := report.(*coaching.LessonCritique)
				if !ok {
					return report, nil
				}
				critique = c
			}
			return env.gateway.Submit(ctx, coaching.LessonRewriteRequest(plan, target, critique, env.flags)), nil
		})
	},
}

var coachObserveCmd = &cobra.Command{
	Use:   "observe",
	Short: "Analyze a recorded lesson against its plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		recording, _ := cmd.Flags().GetString("recording")
		transcript, _ := cmd.Flags().GetString("transcript")
		if recording == "" && strings.TrimSpace(transcript) == "" {
			return errors.New("provide --recording or --transcript")
		}
		return runCoach(cmd, func(ctx context.Context, env *coachEnv) (coaching.Report, error) {
			plan, err := env.plan(cmd)
			if err != nil {
				return nil, err
			}
			rec, err := loadAttachment(recording)
			if err != nil {
				return nil, err
			}
			notes, _ := cmd.Flags().GetString("notes")
			return env.gateway.Submit(ctx, coaching.ObservationRequest(plan, transcript, notes, rec, env.flags)), nil
		})
	},
}

var coachGrowthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Report growth trends across the roster and lesson catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCoach(cmd, func(ctx context.Context, env *coachEnv) (coaching.Report, error) {
			req := coaching.GrowthTrendRequest(env.catalog.All(), env.roster.Students(), env.flags)
			return env.gateway.Submit(ctx, req), nil
		})
	},
}

var coachExitTicketsCmd = &cobra.Command{
	Use:   "exit-tickets <image>...",
	Short: "Score photographed exit tickets against the roster",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCoach(cmd, func(ctx context.Context, env *coachEnv) (coaching.Report, error) {
			images := make([]coaching.Attachment, 0, len(args))
			for _, p := range args {
				a, err := coaching.LoadAttachment(p)
				if err != nil {
					return nil, err
				}
				images = append(images, a)
			}
			var names []string
			for _, st := range env.roster.Students() {
				names = append(names, st.Name)
			}
			return env.gateway.Submit(ctx, coaching.ExitTicketRequest(images, names, env.flags)), nil
		})
	},
}

func init() {
	coachCmd.PersistentFlags().String("format", "markdown", "Output format: markdown, html or json")
	coachCmd.PersistentFlags().StringP("out", "o", "", "Write the report to a file instead of stdout")
	coachCmd.PersistentFlags().String("plan", "l1", "Lesson plan ID from the catalog")
	coachCmd.PersistentFlags().String("roster", "", "Roster file to import into the demo roster")

	coachLessonCmd.Flags().String("target", "", "Lesson focus (default \"Primary\")")
	coachLessonCmd.Flags().String("notes", "", "Teacher notes")
	coachLessonCmd.Flags().String("file", "", "Curriculum page or PDF to attach")

	coachRewriteCmd.Flags().String("target", "", "Lesson focus (default \"Primary\")")
	coachRewriteCmd.Flags().Bool("critique", false, "Critique first and apply its suggestions")

	coachObserveCmd.Flags().String("recording", "", "Audio or video recording of the lesson")
	coachObserveCmd.Flags().String("transcript", "", "Transcript text")
	coachObserveCmd.Flags().String("notes", "", "Observer notes")

	coachCmd.AddCommand(coachLessonCmd)
	coachCmd.AddCommand(coachRewriteCmd)
	coachCmd.AddCommand(coachObserveCmd)
	coachCmd.AddCommand(coachGrowthCmd)
	coachCmd.AddCommand(coachExitTicketsCmd)
}
