package main

import (
	"github.com/spf13/cobra"

	"github.com/agenthands/ledger/internal/driver"
)

var exportGraphCmd = &cobra.Command{
	Use:   "export-graph",
	Short: "Run the pipeline and write entities and relationships to Memgraph",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.pipeline(cmd.Context())
		if err != nil {
			return err
		}

		m := a.cfg.Memgraph
		d, err := driver.NewMemgraphDriver(cmd.Context(), m.URI, m.User, m.Password, a.logger)
		if err != nil {
			return err
		}
		defer d.Close(cmd.Context())

		_, err = driver.NewExporter(d, a.logger).Export(cmd.Context(), res)
		return err
	},
}
