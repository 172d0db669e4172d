package cli

import (
	"fmt"
	"io"

	questdb "github.com/questdb-sdk/questdb-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) exportCommand() *cobra.Command {
	var (
		limit string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "exp <sql>",
		Short: "Export the result of a query through /exp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parseLimitFlag(limit)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := a.fs.Create(out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			resp, err := a.client.Export(cmd.Context(), &questdb.ExportRequest{
				Query: args[0],
				Limit: l,
			}, w)
			if err != nil {
				return err
			}
			a.logger.Info("export finished",
				zap.Int("status", resp.StatusCode),
				zap.Int64("bytes", resp.Written),
				zap.String("out", out))
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return fmt.Errorf("export failed with status %d", resp.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&limit, "limit", "", `rows to export, "upper" or "lower,upper"`)
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}
