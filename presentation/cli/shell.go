package cli

import (
	"pageprism/application/pom"
	"pageprism/infrastructure/definition"
	"pageprism/presentation/terminal"

	"github.com/spf13/cobra"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell <definitions.yaml> <page>",
		Short: "Run generated operations of a page interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := definition.LoadFile(args[0], a.logger)
			if err != nil {
				return err
			}
			typ, err := catalog.Page(args[1])
			if err != nil {
				return err
			}

			drv, closeDriver, err := a.startDriver()
			if err != nil {
				return err
			}
			defer closeDriver()

			page := typ.New(drv,
				pom.WithLogger(a.logger),
				pom.WithDefaultTimeout(a.cfg.DefaultTimeout))
			shell := terminal.NewTerminalInterface(page, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger, a.cfg.DefaultTimeout)
			return shell.Run(cmd.Context())
		},
	}
}
