package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"review_ai/internal/domain"
)

func newSuggestCmd(o *options) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "suggest QUERY",
		Short: "List places matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := o.open(cmd.Context(), o.cfg.BackendRetries)
			if err != nil {
				return err
			}
			defer d.Close()

			var loc *domain.Coords
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				loc = &domain.Coords{Lat: lat, Lon: lon}
			}
			out := d.suggest.Suggest(cmd.Context(), strings.Join(args, " "), loc)
			if out.Skipped {
				fmt.Fprintln(cmd.ErrOrStderr(), "query must be longer than 2 characters")
				return nil
			}
			writeSuggestions(cmd.OutOrStdout(), out.Items)
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude to search near")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude to search near")
	return cmd
}
