package cli

import (
	"fmt"
	"io"

	"pageprism/application/pom"
	"pageprism/infrastructure/definition"

	"github.com/spf13/cobra"
)

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <definitions.yaml> [page]",
		Short: "List the fields and generated operations of the declared pages",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := definition.LoadFile(args[0], a.logger)
			if err != nil {
				return err
			}
			pages := catalog.Pages()
			if len(args) == 2 {
				pages = []string{args[1]}
			}
			for i, name := range pages {
				typ, err := catalog.Page(name)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				describePage(cmd.OutOrStdout(), typ)
			}
			return nil
		},
	}
}

func describePage(w io.Writer, typ *pom.PageType) {
	fmt.Fprintln(w, typ.Schema())
	if typ.URLTemplate() != "" {
		fmt.Fprintf(w, "  url template: %s\n", typ.URLTemplate())
	}
	if typ.URLMatcher() != "" {
		fmt.Fprintf(w, "  url matcher:  %s\n", typ.URLMatcher())
	}
	describeSchema(w, typ.Schema(), "  ")
}

func describeSchema(w io.Writer, s *pom.Schema, indent string) {
	for _, name := range s.Fields() {
		d, _ := s.Descriptor(name)
		fmt.Fprintf(w, "%s%s %s (%s)\n", indent, name, d.Kind, d.Locator)
		for _, m := range s.MethodsFor(name) {
			fmt.Fprintf(w, "%s    %s\n", indent, m.Name)
		}
		switch {
		case d.SectionType() != nil:
			describeSchema(w, d.SectionType().Schema(), indent+"  ")
		case d.FrameType() != nil:
			describeSchema(w, d.FrameType().Schema(), indent+"  ")
		}
	}
}
