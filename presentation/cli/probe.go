package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"pageprism/application/probe"
	"pageprism/domain/entities"
	"pageprism/domain/interfaces"
	"pageprism/infrastructure/definition"
	"pageprism/infrastructure/storage"
	"pageprism/presentation/terminal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProbeCommand(a *app) *cobra.Command {
	var (
		params  []string
		noLoad  bool
		timeout time.Duration
		save    bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "probe <definitions.yaml> <page>",
		Short: "Load a page and report what each declared field matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(output); err != nil {
				return err
			}
			catalog, err := definition.LoadFile(args[0], a.logger)
			if err != nil {
				return err
			}
			typ, err := catalog.Page(args[1])
			if err != nil {
				return err
			}
			values, err := terminal.ParseParams(params)
			if err != nil {
				return err
			}

			var store interfaces.ReportStore
			if save {
				if store, err = storage.NewReportStore(a.cfg.ReportDir); err != nil {
					return err
				}
			}

			drv, closeDriver, err := a.startDriver()
			if err != nil {
				return err
			}
			defer closeDriver()

			if timeout <= 0 {
				timeout = a.cfg.DefaultTimeout
			}
			p := probe.NewProber(drv, store, a.logger)
			report, err := p.Probe(cmd.Context(), typ, probe.Request{
				Load:    !noLoad,
				Params:  values,
				Timeout: timeout,
				Save:    save,
			})
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "url template parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&noLoad, "no-load", false, "probe the page the browser is on without navigating")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "budget for each page-level wait (default PAGEPRISM_DEFAULT_TIMEOUT)")
	cmd.Flags().BoolVar(&save, "save", false, "store the report under the report dir")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func checkOutput(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

func writeReport(w io.Writer, report *entities.ProbeReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "%s  %s\n", report.Page, report.URL)
	fmt.Fprintf(w, "  loaded: %t  ready: %t  took: %s\n", report.Loaded, report.ReadyState, report.Duration.Round(time.Millisecond))
	writeFields(w, report.Fields, "  ")
	if missing := report.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "  missing: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func writeFields(w io.Writer, fields []entities.FieldReport, indent string) {
	for _, f := range fields {
		state := "missing"
		switch {
		case f.Error != "":
			state = "error: " + f.Error
		case f.Present && f.Visible:
			state = "visible"
		case f.Present:
			state = "hidden"
		}
		fmt.Fprintf(w, "%s%-20s %-9s %-8d %s\n", indent, f.Name, f.Kind, f.Count, state)
		writeFields(w, f.Children, indent+"  ")
	}
}
