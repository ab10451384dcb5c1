package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/salesboard/internal/adapters/repository"
	"github.com/okian/salesboard/internal/seed"
	"github.com/okian/salesboard/pkg/logger"
)

type seedOptions struct {
	out    string
	csvDir string
	agents int
	sales  int
	seed   uint64
}

func newSeedCmd(c *cli) *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo workbook with all six sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loc, err := c.cfg.Location()
			if err != nil {
				return err
			}
			ds, stats, err := seed.Generate(ctx, seed.Config{
				Agents:        opts.agents,
				SalesPerAgent: opts.sales,
				Now:           time.Now().In(loc),
				Seed:          opts.seed,
			})
			if err != nil {
				return err
			}
			if err := ds.WriteWorkbook(opts.out); err != nil {
				return err
			}
			if opts.csvDir != "" {
				src, err := repository.NewCSVSource(opts.csvDir)
				if err != nil {
					return err
				}
				if err := ds.Load(ctx, src); err != nil {
					return err
				}
			}
			c.log.Info(ctx, "demo data written",
				logger.String("out", opts.out),
				logger.Int("agents", stats.Agents),
				logger.Int("sales", stats.Sales),
				logger.Any("duration", stats.Duration),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d people, %d sales, %d deals\nmanager: %s\nhr: %s\n",
				opts.out, stats.Agents, stats.Sales, stats.Deals, seed.ManagerEmail, seed.HREmail)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "demo.xlsx", "Output workbook path")
	cmd.Flags().StringVar(&opts.csvDir, "csv-dir", "", "Also write one CSV per sheet into this directory")
	cmd.Flags().IntVar(&opts.agents, "agents", seed.DefaultAgents, "Number of sales agents")
	cmd.Flags().IntVar(&opts.sales, "sales", seed.DefaultSalesPerAgent, "Closed deals per agent")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 1, "Random seed")
	return cmd
}
