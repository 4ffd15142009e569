package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduelevate/internal/importer"
	"github.com/abhisek/eduelevate/internal/progress"
	"github.com/abhisek/eduelevate/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Work with class rosters",
}

var rosterImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Preview the students a roster file would add",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := importer.ReadFile(args[0])
		if err != nil {
			return err
		}
		seed, _ := cmd.Flags().GetBool("seed")

		var opts []roster.Option
		if seed {
			opts = append(opts, roster.WithSeed(roster.SeedStudents()))
		}
		rs := roster.NewStore(opts...)
		added := rs.BulkAdd(names)

		out := cmd.OutOrStdout()
		if len(added) == 0 {
			fmt.Fprintln(out, "No student names found.")
			return nil
		}
		fmt.Fprintf(out, "%d students would be added:\n", len(added))
		for _, st := range added {
			fmt.Fprintf(out, "  %-24s  grade %-4s  tier %d\n", truncate(st.Name, 24), st.Grade, st.Tier)
		}
		if seed {
			fmt.Fprintln(out)
			writeSummary(out, progress.Summarize(rs.Students()))
		}
		return nil
	},
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the demo roster with latest scores and bands",
	RunE: func(cmd *cobra.Command, args []string) error {
		rs := roster.NewStore(roster.WithSeed(roster.SeedStudents()))
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			names, err := importer.ReadFile(file)
			if err != nil {
				return err
			}
			rs.BulkAdd(names)
		}
		writeRoster(cmd.OutOrStdout(), rs.Students())
		return nil
	},
}

func writeRoster(w io.Writer, students []roster.Student) {
	fmt.Fprintf(w, "%-24s  %-5s  %-6s  %-22s  %-8s  %s\n", "Name", "Grade", "Tier", "Latest", "Trend", "Flags")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	for _, st := range students {
		latest := "no data"
		if v, ok := progress.LatestScore(st.Scores); ok {
			band, _ := progress.LatestBand(st.Scores)
			latest = fmt.Sprintf("%.1f %s", v, band)
		}
		trend := "-"
		if d, ok := progress.Delta(st.Scores); ok {
			trend = fmt.Sprintf("%+.1f", d)
		}
		fmt.Fprintf(w, "%-24s  %-5s  %-6s  %-22s  %-8s  %s\n",
			truncate(st.Name, 24), st.Grade, st.Tier, latest, trend, flags(st))
	}
	fmt.Fprintln(w)
	writeSummary(w, progress.Summarize(students))
}

func flags(st roster.Student) string {
	var f []string
	if st.IsELL {
		f = append(f, "ELL")
	}
	if st.HasIEP() {
		f = append(f, "IEP")
	}
	if st.HasBehaviorPlan() {
		f = append(f, "BP")
	}
	return strings.Join(f, " ")
}

func writeSummary(w io.Writer, sum progress.RosterSummary) {
	fmt.Fprintf(w, "Students: %d   %s %d   %s %d   %s %d   no data %d\n",
		sum.Total,
		progress.Mastery, sum.ByBand[progress.Mastery],
		progress.Approaching, sum.ByBand[progress.Approaching],
		progress.Intervention, sum.ByBand[progress.Intervention],
		sum.NoData)
	if sum.HasMean {
		fmt.Fprintf(w, "Mean latest score: %.1f   improving %d   declining %d\n", sum.MeanLatest, sum.Improving, sum.Declining)
	}
}

func init() {
	rosterImportCmd.Flags().Bool("seed", false, "Add to the demo roster and print its band summary")
	rosterListCmd.Flags().StringP("file", "f", "", "Roster file to import before listing")

	rosterCmd.AddCommand(rosterImportCmd)
	rosterCmd.AddCommand(rosterListCmd)
}
