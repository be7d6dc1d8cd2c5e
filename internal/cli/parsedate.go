package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// errUnrecognized makes parse-date exit non-zero once every text was reported
var errUnrecognized = errors.New("some texts were not recognized")

func newParseDateCmd() *cobra.Command {
	var (
		nowFlag  string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "parse-date TEXT...",
		Short: "Resolve validity texts into date ranges",
		Long: `Runs the date-range resolver on each argument and prints the matched
pattern, the resulting range and whether it is active at --now.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if timezone != "" {
				l, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("invalid timezone: %w", err)
				}
				loc = l
			}

			now, err := parseNow(nowFlag, loc)
			if err != nil {
				return err
			}

			resolver := brochure.NewResolver(loc)
			w := cmd.OutOrStdout()
			failed := false
			for _, text := range args {
				r, pattern, err := resolver.Match(text)
				if err != nil {
					failed = true
					fmt.Fprintf(w, "%q: %v\n", text, errors.Unwrap(err))
					continue
				}

				state := "inactive"
				if brochure.IsActive(r, now) {
					state = "active"
				}
				fmt.Fprintf(w, "%q: %s %s (%s)\n", text, pattern, r, state)
			}

			if failed {
				return errUnrecognized
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "Reference time as RFC3339 or 2006-01-02 (default current time)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Timezone for dates (default local)")

	return cmd
}

// parseNow reads the --now flag; a bare date means midday of that day
func parseNow(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := brochure.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: want RFC3339 or %s", s, brochure.DateLayout)
	}
	return d.In(loc).Add(12 * time.Hour), nil
}
