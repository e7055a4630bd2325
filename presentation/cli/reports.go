package cli

import (
	"fmt"

	"pageprism/infrastructure/storage"

	"github.com/spf13/cobra"
)

func newReportsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List stored probe reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.NewReportStore(a.cfg.ReportDir)
			if err != nil {
				return err
			}
			pages, err := store.ListReports()
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no reports in %s\n", a.cfg.ReportDir)
				return nil
			}
			for _, page := range pages {
				fmt.Fprintln(cmd.OutOrStdout(), page)
			}
			return nil
		},
	}

	var output string
	show := &cobra.Command{
		Use:   "show <page>",
		Short: "Print the last stored report of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			store, err := storage.NewReportStore(a.cfg.ReportDir)
			if err != nil {
				return err
			}
			report, err := store.LoadReport(args[0])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}
	show.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	cmd.AddCommand(show)
	return cmd
}
