package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"campuscal/internal/config"
	"campuscal/internal/ics"
	"campuscal/internal/layout"
	appLog "campuscal/internal/log"
	"campuscal/internal/refresh"
	"campuscal/internal/web"
)

const version = "0.1.0"

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:           "campuscal",
		Short:         "Student calendar back end: month layouts for personal and institutional events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/campuscal/config.yaml", "Path to config file")

	var listen string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Refresh feeds on schedule and serve the month layout API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), listen)
		},
	}
	serveCmd.Flags().StringVarP(&listen, "listen", "l", "", "HTTP listen address (overrides config if set)")
	rootCmd.AddCommand(serveCmd)

	var (
		year    int
		month   string
		count   int
		offline bool
	)
	monthCmd := &cobra.Command{
		Use:   "month",
		Short: "Print one month's grid and events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMonth(cmd.Context(), year, month, count, offline)
		},
	}
	monthCmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: current)")
	monthCmd.Flags().StringVarP(&month, "month", "m", "", "Month as 1-12 or YYYY-MM (default: current)")
	monthCmd.Flags().IntVarP(&count, "count", "n", 1, "Number of consecutive months to print")
	monthCmd.Flags().BoolVar(&offline, "offline", false, "Skip fetching feeds; personal events only")
	rootCmd.AddCommand(monthCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", configPath)
		return nil, err
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	return conf, nil
}

func runServe(ctx context.Context, listen string) error {
	appLog.Info("campuscal starting", "version", version)

	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if listen != "" {
		conf.Listen = listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"refresh", conf.RefreshCron,
		"horizon_months", conf.HorizonMonths,
		"feeds", len(conf.Feeds),
		"personal_events", len(conf.Personal),
	)

	r, err := refresh.New(conf, ics.NewFetcher(conf.CacheDir, nil))
	if err != nil {
		return err
	}
	srv := web.NewServer(conf, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Run(gctx) })
	g.Go(func() error { return srv.Serve(gctx) })

	err = g.Wait()
	appLog.Info("campuscal exiting")
	return err
}

func runMonth(ctx context.Context, year int, month string, count int, offline bool) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := refresh.New(conf, ics.NewFetcher(conf.CacheDir, nil))
	if err != nil {
		return err
	}

	from, err := resolveMonth(month, year, layout.Of(time.Now().In(r.Location())))
	if err != nil {
		return err
	}
	months := monthRange(from, count)

	if !offline {
		if _, err := r.Refresh(ctx); err != nil {
			appLog.Error("some feeds failed; showing what was loaded", err)
		}
	}

	laid, err := layout.ProcessMonths(months, r.Current().Events)
	if err != nil {
		return err
	}
	for i, ym := range months {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		weeks, err := layout.BuildGrid(ym.Year, ym.Month, conf.WeekStartDay())
		if err != nil {
			return err
		}
		if err := writeMonth(os.Stdout, ym, conf.WeekStartDay(), weeks, laid[ym], conf.PaletteSize); err != nil {
			return err
		}
	}
	return nil
}
