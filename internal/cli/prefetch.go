package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"review_ai/internal/app"
)

func newPrefetchCmd(o *options) *cobra.Command {
	var (
		file    string
		workers int
		retries int
	)
	cmd := &cobra.Command{
		Use:   "prefetch [TOKEN...]",
		Short: "Warm the cache with completed analyses",
		Long: "Looks up every token with a bounded number of workers. Completed analyses\n" +
			"are cached; in-progress ones are reported and can be prefetched again later.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := append([]string(nil), args...)
			if file != "" {
				more, err := readTokens(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				tokens = append(tokens, more...)
			}
			if len(tokens) == 0 {
				return fmt.Errorf("no tokens given")
			}
			if !cmd.Flags().Changed("workers") {
				workers = o.cfg.PrefetchWorkers
			}

			d, err := o.open(cmd.Context(), retries)
			if err != nil {
				return err
			}
			defer d.Close()

			sum, err := app.NewPrefetchService(d.analysis, workers).Run(cmd.Context(), tokens)
			fmt.Fprintf(cmd.OutOrStdout(), "complete=%d in_progress=%d no_reviews=%d failed=%d\n",
				sum.Complete, sum.InProgress, sum.NoReviews, sum.Failed)
			if err != nil {
				return err
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d token(s) failed", sum.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read tokens from a file, one per line (- for stdin)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent lookups (default PREFETCH_WORKERS)")
	cmd.Flags().IntVar(&retries, "retries", 2, "retries per token on 429 and 5xx")
	return cmd
}

// readTokens reads one token per line, skipping blanks and # comments.
func readTokens(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
