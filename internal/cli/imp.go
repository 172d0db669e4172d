package cli

import (
	"fmt"
	"strings"

	questdb "github.com/questdb-sdk/questdb-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) importCommand() *cobra.Command {
	var (
		table     string
		schema    string
		overwrite bool
		durable   bool
		atomicity string
	)

	cmd := &cobra.Command{
		Use:   "imp <file>",
		Short: "Upload a file through /imp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &questdb.ImportRequest{
				Path:      args[0],
				Table:     table,
				Overwrite: boolFlag(cmd, "overwrite", overwrite),
				Durable:   boolFlag(cmd, "durable", durable),
			}

			var err error
			if req.Schema, err = questdb.ParseImportSchema(schema); err != nil {
				return err
			}
			if atomicity != "" {
				if req.Atomicity, err = questdb.ParseAtomicity(atomicity); err != nil {
					return err
				}
			}

			resp, err := a.client.Import(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.logger.Info("import finished", zap.String("file", req.Path), zap.Int("status", resp.StatusCode))

			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(resp.Body))
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "target table name (default derived from the file name)")
	cmd.Flags().StringVar(&schema, "schema", "", `column type overrides, e.g. "id=INT,ts=TIMESTAMP"`)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace the content of an existing table")
	cmd.Flags().BoolVar(&durable, "durable", false, "commit with fsync")
	cmd.Flags().StringVar(&atomicity, "atomicity", "", "bad row handling: strict or relaxed")
	return cmd
}
