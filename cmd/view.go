package main

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	service "github.com/okian/salesboard/internal/app"
)

type viewOptions struct {
	email string
	now   string
}

func newViewCmd(c *cli) *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the dashboard view of one user as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var extra []service.Option
			if opts.now != "" {
				at, err := time.Parse(time.RFC3339, opts.now)
				if err != nil {
					return eris.Wrapf(err, "invalid --now %q; must be RFC3339", opts.now)
				}
				extra = append(extra, service.WithClock(func() time.Time { return at }))
			}

			src, err := c.source(ctx)
			if err != nil {
				return err
			}
			svc, err := c.service(src, extra...)
			if err != nil {
				return err
			}
			m, err := svc.Dashboard(ctx, opts.email)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Verified email of the user (required)")
	cmd.Flags().StringVar(&opts.now, "now", "", "Pin the clock, RFC3339 (default: current time)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
