package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduelevate/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// releaseOptions point the release checker somewhere other than GitHub.
var releaseOptions []selfupdate.Option

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "eduelevate", version)

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		res, err := selfupdate.NewChecker(releaseOptions...).Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if res.UpdateAvailable {
			fmt.Fprintf(out, "Version %s is available: %s\nRun `eduelevate update` to install it.\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Fprintln(out, "No newer release.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
}
