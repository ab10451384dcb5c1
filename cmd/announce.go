package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
)

type announceOptions struct {
	email    string
	title    string
	message  string
	audience string
}

func newAnnounceCmd(c *cli) *cobra.Command {
	var opts announceOptions

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Append an HR announcement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			src, err := c.source(ctx)
			if err != nil {
				return err
			}
			svc, err := c.service(src)
			if err != nil {
				return err
			}
			a, err := svc.PostAnnouncement(ctx, opts.email, opts.title, opts.message, opts.audience)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
				"timestamp": a.Timestamp.Format(time.RFC3339),
				"author":    a.AuthorEmail,
				"title":     a.Title,
				"message":   a.Body,
				"audience":  a.Audience,
			})
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "Verified email of the HR author (required)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Announcement title (required)")
	cmd.Flags().StringVar(&opts.message, "message", "", "Announcement body (required)")
	cmd.Flags().StringVar(&opts.audience, "audience", "", "Audience (default: configured default_audience)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
