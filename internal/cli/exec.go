package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	questdb "github.com/questdb-sdk/questdb-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) execCommand() *cobra.Command {
	var (
		limit string
		count bool
		nm    bool
	)

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a query through /exec and print the result as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parseLimitFlag(limit)
			if err != nil {
				return err
			}
			req := &questdb.ExecRequest{
				Query:  args[0],
				Limit:  l,
				Count:  boolFlag(cmd, "count", count),
				NoMeta: boolFlag(cmd, "nm", nm),
			}

			start := time.Now()
			rs, err := a.client.Query(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.logger.Info("query finished", zap.Duration("elapsed", time.Since(start)))

			if err := renderResultSet(cmd.OutOrStdout(), rs); err != nil {
				return err
			}
			if count {
				fmt.Fprintf(cmd.OutOrStdout(), "count: %d\n", rs.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&limit, "limit", "", `rows to return, "upper" or "lower,upper"`)
	cmd.Flags().BoolVar(&count, "count", false, "ask the server for the total row count")
	cmd.Flags().BoolVar(&nm, "nm", false, "skip the metadata section of the response")
	return cmd
}

// renderResultSet prints rows as a table, or one JSON row per line when the
// response carries no column metadata.
func renderResultSet(w io.Writer, rs *questdb.ResultSet) error {
	if len(rs.Columns) == 0 {
		var rows []json.RawMessage
		if err := rs.Decode(&rows); err != nil {
			return err
		}
		for _, row := range rows {
			var compact bytes.Buffer
			if err := json.Compact(&compact, row); err != nil {
				return err
			}
			fmt.Fprintln(w, compact.String())
		}
		return nil
	}

	values, err := rs.ToValues()
	if err != nil {
		return err
	}

	header := make([]string, 0, len(rs.Columns))
	for _, col := range rs.Columns {
		header = append(header, col.Name)
	}
	data := pterm.TableData{header}
	for _, row := range values {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, formatValue(v))
		}
		data = append(data, cells)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	return nil
}

func formatValue(v questdb.Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
