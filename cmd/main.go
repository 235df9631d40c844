package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"website_revolution/internal/application"
	"website_revolution/internal/config"
	"website_revolution/internal/dashboard"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "website-revolution",
		Short:         "Find local businesses whose websites need a redesign.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newScanCommand())

	return root
}

// withConfig loads the config, installs the process logger and runs fn.
func withConfig(fn func(ctx context.Context, cfg config.Config) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "config.Load:", err)
			return err
		}

		log := logx.NewLogger(os.Stdout, cfg.App.LogFormat, cfg.App.LogLevel).With(
			slog.String(logx.FieldAppName, cfg.App.Name),
			slog.String(logx.FieldAppVersion, cfg.App.Version),
		)
		slog.SetDefault(log)

		ctx := contextx.WithLogger(cmd.Context(), log)

		if err := fn(ctx, cfg); err != nil {
			log.Error("application failed", logx.Error(err))
			return err
		}

		log.Info("application stopped")

		return nil
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the review API, probes, metrics and the optional worker and bot.",
		Args:  cobra.NoArgs,
		RunE:  withConfig(application.Serve),
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema.",
		Args:  cobra.NoArgs,
		RunE:  withConfig(application.Migrate),
	}
}

func newScanCommand() *cobra.Command {
	var opts application.ScanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Review businesses through a running server and export them as CSV.",
		Args:  cobra.NoArgs,
		RunE: withConfig(func(ctx context.Context, _ config.Config) error {
			view, err := application.Scan(ctx, opts)
			if err != nil {
				return err
			}

			return printView(view)
		}),
	}

	cmd.Flags().StringVar(&opts.BaseURL, "server", "http://localhost:8080", "base URL of the review API")
	cmd.Flags().StringVarP(&opts.Location, "location", "l", "", "city or area to search")
	cmd.Flags().StringVarP(&opts.Niche, "niche", "n", "", "kind of business, e.g. plumbers")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "directory for the CSV export")

	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("niche")

	return cmd
}

func printView(view dashboard.View) error {
	cards := view.Cards
	if len(cards) == 0 {
		fmt.Println("No businesses found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "SCORE\tPRIORITY\tNAME\tWEBSITE\tPHONE\tREDESIGN")

	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", c.Score, c.Label, c.Name, c.Website, c.Phone, c.RedesignURL)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("tabwriter.Flush: %w", err)
	}

	fmt.Printf("\n%s: %d  %s: %d  %s: %d\n",
		value.PriorityCritical.Label(), view.Breakdown[value.PriorityCritical],
		value.PriorityHigh.Label(), view.Breakdown[value.PriorityHigh],
		value.PriorityGood.Label(), view.Breakdown[value.PriorityGood],
	)

	return nil
}
