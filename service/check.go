package service

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/models"
	"folio/app/repositories"
	"folio/app/services"
)

var errDeliveryUnavailable = errors.New("contentful delivery API is unavailable; the blog is serving fallback posts")

func (c *cli) checkCommand() *cobra.Command {
	var history int
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe the Contentful delivery and preview APIs",
		Long: `Queries both Contentful APIs once and prints the outcome. The result is
recorded in the store when it is not held by a running server.

Exits non-zero when the delivery API cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var checks repositories.CheckRepository
			store, err := repositories.NewStore(c.cfg.Store.Dir, c.logger)
			if err != nil {
				c.logger.Warn("Check history unavailable", zap.Error(err))
			} else {
				defer store.Close()
				checks = repositories.NewBadgerCheckRepository(store.DB())
			}

			clients := cms.NewClients(c.cfg.Contentful, c.logger.Named("cms"))
			diagnostics := services.NewDiagnosticsService(c.cfg, clients, checks, nil, c.logger)
			out := cmd.OutOrStdout()

			if clearHistory {
				if err := diagnostics.ClearChecks(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Check history cleared")
				return nil
			}

			if history > 0 {
				recent, err := diagnostics.RecentChecks(history)
				if err != nil {
					return err
				}
				if len(recent) == 0 {
					fmt.Fprintln(out, "No checks recorded")
				}
				for _, check := range recent {
					writeCheck(out, check)
				}
				return nil
			}

			check, err := diagnostics.RunCheck(cmd.Context())
			if err != nil {
				return err
			}
			writeCheck(out, check)
			if !deliveryOK(check) {
				return errDeliveryUnavailable
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&history, "history", 0, "print the last N recorded checks instead of probing")
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "delete the recorded checks")
	return cmd
}

func writeCheck(w io.Writer, check *models.ConnectivityCheck) {
	id := "-"
	if check.ID > 0 {
		id = fmt.Sprintf("#%d", check.ID)
	}
	fmt.Fprintf(w, "Check %s at %s\n", id, check.CheckedAt.UTC().Format(time.RFC3339))
	for _, p := range check.Probes {
		if p.OK {
			fmt.Fprintf(w, "  %-8s  ok      %d entries in %s\n", p.Mode, p.Entries, p.Latency.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, "  %-8s  failed  %s: %s\n", p.Mode, p.Kind, p.Error)
	}
}

func deliveryOK(check *models.ConnectivityCheck) bool {
	for _, p := range check.Probes {
		if p.Mode == string(cms.ModeDelivery) {
			return p.OK
		}
	}
	return false
}
