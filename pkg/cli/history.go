package cli

import (
	"github.com/spf13/cobra"

	"github.com/computerscienceiscool/ghpages-local/pkg/app"
	"github.com/computerscienceiscool/ghpages-local/pkg/config"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.OpenJournal(config.FromViper(), streams(cmd))
			if err != nil {
				return err
			}
			defer a.Close()
			return a.History(cmd.Context(), limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", config.DefaultHistoryLimit, "Number of runs to show")
	return cmd
}
