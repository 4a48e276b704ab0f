package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRecentCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently completed analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.cfg.MySQLDSN == "" {
				return errors.New("recent needs MYSQL_DSN")
			}
			d, err := o.open(cmd.Context(), o.cfg.BackendRetries)
			if err != nil {
				return err
			}
			defer d.Close()

			ls, err := d.analysis.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(ls) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent analyses.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range ls {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.SeenAt.Format("2006-01-02 15:04"), l.Entry, l.Key, l.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "how many to list")
	return cmd
}
