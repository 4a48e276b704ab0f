package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"review_ai/internal/app"
	"review_ai/internal/render"
)

func newRetrieveCmd(o *options) *cobra.Command {
	var (
		place  bool
		out    string
		expand bool
	)
	cmd := &cobra.Command{
		Use:   "retrieve TOKEN",
		Short: "Fetch an analysis by token (or by place id with --place)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.open(cmd.Context(), o.cfg.BackendRetries)
			if err != nil {
				return err
			}
			defer d.Close()

			var res app.Result
			if place {
				res = d.analysis.ByPlace(cmd.Context(), args[0])
			} else {
				res = d.analysis.ByToken(cmd.Context(), args[0])
			}

			if out == "" {
				writeResult(cmd.OutOrStdout(), res)
			} else {
				r, err := render.New()
				if err != nil {
					return err
				}
				ro := render.Options{ExpandReviews: expand}
				if res.State == app.StateComplete {
					ro.DownloadToken = res.Key
				}
				frag, err := r.Result(res, ro)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, []byte(frag), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: wrote %s\n", res.State, out)
			}

			if res.State == app.StateError {
				return errors.New(res.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&place, "place", false, "treat the argument as a place data_id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the HTML panel to this file instead of printing text")
	cmd.Flags().BoolVar(&expand, "expand", false, "render every review instead of the first page")
	return cmd
}
