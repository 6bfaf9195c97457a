package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"shift-scheduler/app"
	"shift-scheduler/config"
	"shift-scheduler/formatter"
	"shift-scheduler/metrics"
	"shift-scheduler/models"
	"shift-scheduler/notify"
	"shift-scheduler/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Define flags; the environment provides their defaults
	flag.StringVar(&cfg.Input, "input", cfg.Input, "Roster file: .csv, .yaml/.yml or .json")
	flag.BoolVar(&cfg.Demo, "demo", cfg.Demo, "Use the built-in sample roster when no -input is given")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "Output format: text|json|csv")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Tie-breaking seed (0 = random)")
	flag.IntVar(&cfg.Limits.MinPerShift, "min-per-shift", cfg.Limits.MinPerShift, "Employees required per shift")
	flag.IntVar(&cfg.Limits.MaxDaysPerEmployee, "max-days", cfg.Limits.MaxDaysPerEmployee, "Maximum days worked per employee")
	flag.IntVar(&cfg.Limits.AssignmentPasses, "passes", cfg.Limits.AssignmentPasses, "Preference assignment rounds")
	flag.IntVar(&cfg.Limits.PreferredShiftCap, "preferred-cap", cfg.Limits.PreferredShiftCap, "Occupancy below which a preferred shift accepts more employees")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database for run history (empty = no history)")
	flag.StringVar(&cfg.ShowRun, "show-run", cfg.ShowRun, "Print a stored run by id and exit")
	flag.IntVar(&cfg.HistoryLimit, "history", cfg.HistoryLimit, "List the N most recent stored runs and exit")
	flag.StringVar(&cfg.SlackWebhookURL, "slack-webhook", cfg.SlackWebhookURL, "Slack incoming webhook to post the schedule to")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	flag.StringVar(&cfg.PushURL, "push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	flag.BoolVar(&cfg.Wait, "wait", cfg.Wait, "Keep process running after completion to allow for metric scraping")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")

	// Parse command-line flags
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("shift-scheduler failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start metrics server if address provided
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			logger.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	var runs *store.Store
	if cfg.DatabasePath != "" {
		s, err := store.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()
		runs = s
	}

	switch {
	case cfg.ShowRun != "":
		stored, err := runs.GetRun(ctx, cfg.ShowRun)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s (seed %d, %s)\n", stored.ID, stored.Seed, stored.CreatedAt.Format(time.RFC3339))
		return printSchedule(cfg.Format, stored.Schedule)
	case cfg.HistoryLimit > 0 && cfg.Input == "" && !cfg.Demo:
		summaries, err := runs.ListRuns(ctx, cfg.HistoryLimit)
		if err != nil {
			return err
		}
		printHistory(summaries)
		return nil
	}

	opts := []app.Option{app.WithLogger(logger)}
	if runs != nil {
		opts = append(opts, app.WithStore(runs))
	}
	if cfg.SlackWebhookURL != "" {
		opts = append(opts, app.WithPublisher(notify.NewSlackPublisher(cfg.SlackWebhookURL, nil)))
	}

	result, err := app.NewRunner(opts...).Run(ctx, app.Request{
		Input:  cfg.Input,
		Demo:   cfg.Demo,
		Seed:   cfg.Seed,
		Limits: cfg.Limits,
	})
	if err != nil {
		return err
	}
	logger.Info("schedule generated", zap.String("run_id", result.ID), zap.Uint64("seed", result.Seed))

	if err := printSchedule(cfg.Format, result.Schedule); err != nil {
		return err
	}

	// Handle metrics pushing or waiting
	if cfg.PushURL != "" {
		jobName := "shift_scheduler"
		if err := push.New(cfg.PushURL, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("error pushing to pushgateway", zap.Error(err))
		} else {
			logger.Info("metrics pushed to pushgateway", zap.String("url", cfg.PushURL))
		}
	}

	if cfg.Wait && cfg.MetricsAddr != "" {
		logger.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		<-ctx.Done()
	} else if cfg.MetricsAddr != "" && cfg.PushURL == "" {
		// Small delay to allow a final scrape
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

func printSchedule(format string, schedule *models.WeeklySchedule) error {
	switch format {
	case "json":
		fmt.Print(formatter.FormatJSON(schedule))
	case "csv":
		fmt.Print(formatter.FormatCSV(schedule))
	case "text":
		fmt.Print(formatter.FormatText(schedule))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func printHistory(summaries []models.RunSummary) {
	if len(summaries) == 0 {
		fmt.Println("No stored runs.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSEED\tEMPLOYEES\tUNDERSTAFFED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Seed, s.Employees, s.Understaffed)
	}
	w.Flush()
}
