package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"review_ai/internal/app"
	"review_ai/internal/domain"
)

const searchHelp = `type a place name to search, then:
  :pick N         select suggestion N
  :go             analyse the selected place
  :token TOKEN    retrieve an analysis by token
  :loc LAT LON    search near a location (:loc off to clear)
  :reset          clear the search
  :quit`

func newSearchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Interactive search with suggestions",
		Long:  searchHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := o.open(cmd.Context(), o.cfg.BackendRetries)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			v := &textView{w: out}
			s := app.NewSession(cmd.Context(), d.suggest, d.analysis, v, o.cfg.SuggestDebounce)
			defer s.Close()

			fmt.Fprintln(out, searchHelp)
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				verb, arg, _ := strings.Cut(line, " ")
				arg = strings.TrimSpace(arg)

				switch verb {
				case ":quit", ":q":
					return nil
				case ":go":
					if _, err := s.Generate(cmd.Context()); errors.Is(err, domain.ErrNoSelection) {
						fmt.Fprintln(out, "pick a suggestion first")
					}
				case ":pick":
					n, _ := strconv.Atoi(arg)
					sug, ok := v.pick(n)
					if !ok {
						fmt.Fprintln(out, "no such suggestion")
						continue
					}
					s.Select(sug)
				case ":token":
					if _, err := s.Retrieve(cmd.Context(), arg); err != nil {
						fmt.Fprintln(out, "usage: :token TOKEN")
					}
				case ":loc":
					s.SetLocation(parseLoc(arg))
				case ":reset":
					s.Reset()
				case ":help":
					fmt.Fprintln(out, searchHelp)
				default:
					// a line is the whole search box; wait so results print before the next prompt
					s.Input(line)
					s.Wait()
				}
			}
			return sc.Err()
		},
	}
}

func parseLoc(arg string) *domain.Coords {
	f := strings.Fields(arg)
	if len(f) != 2 {
		return nil
	}
	lat, err1 := strconv.ParseFloat(f[0], 64)
	lon, err2 := strconv.ParseFloat(f[1], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &domain.Coords{Lat: lat, Lon: lon}
}
