package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mdpomo/internal/bootstrap"
	hookdto "mdpomo/internal/modules/hook/dto"
	pomologdto "mdpomo/internal/modules/pomolog/dto"
	timerdto "mdpomo/internal/modules/timer/dto"
	"mdpomo/internal/platform/config"
	"mdpomo/internal/platform/duration"
)

type rootOptions struct {
	vaultPath    string
	settingsPath string
	logLevel     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mdpomo",
		Short:         "Pomodoro timer that logs to markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.vaultPath, "vault", ".", "Obsidian vault path")
	root.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "settings file (.yaml or .toml); default <vault>/.mdpomo/settings.yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "diagnostic log level: trace|debug|info|warn|error")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newTimerCmd(opts))
	root.AddCommand(newLogCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newReindexCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newHookCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.New(opts.vaultPath, opts.settingsPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pomodoro terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newTimerCmd(opts *rootOptions) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Headless timer"}

	timer.AddCommand(&cobra.Command{
		Use:   "run [work|short-break|long-break]",
		Short: "Run one interval in the foreground; interrupt to quit early",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "work"
			if len(args) == 1 {
				mode = args[0]
			}
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTimer(ctx, app, mode, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})

	timer.AddCommand(&cobra.Command{
		Use:   "settings",
		Short: "Show effective timer settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			s, err := app.TimerCLI.Settings(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "work: %s\nshort break: %s\nlong break: %s\nlong break every: %d\nautostart: %t\nauto cycles: %d\nlogging: %t\n",
				duration.Format(s.Work), duration.Format(s.ShortBreak), duration.Format(s.LongBreak),
				s.LongBreakInterval, s.AutoStart, s.AutoCycles, s.Logging)
			return nil
		},
	})
	return timer
}

// runTimer ticks once per second until the timer parks waiting for the user,
// stops, or ctx is cancelled. Cancellation quits the interval early.
func runTimer(ctx context.Context, app *bootstrap.App, mode string, out, errOut io.Writer) error {
	status, err := app.TimerCLI.Start(ctx, mode)
	if err != nil {
		return err
	}
	lastNotice := printStatus(out, errOut, status, "")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			status, err := app.TimerCLI.Quit(context.Background())
			_, _ = fmt.Fprintln(out)
			printStatus(out, errOut, status, lastNotice)
			return err
		case <-ticker.C:
			status, err = app.TimerCLI.Tick(ctx)
			if err != nil {
				return err
			}
			lastNotice = printStatus(out, errOut, status, lastNotice)
			if status.AutoPaused || status.Mode == "idle" {
				_, _ = fmt.Fprintln(out)
				return nil
			}
		}
	}
}

func printStatus(out, errOut io.Writer, status timerdto.Status, lastNotice string) string {
	if status.Notice != "" && status.Notice != lastNotice {
		_, _ = fmt.Fprintf(out, "\n%s\n", status.Notice)
	}
	for _, w := range status.Warnings {
		_, _ = fmt.Fprintf(errOut, "warning: %s\n", w)
	}
	if status.Mode != "idle" {
		_, _ = fmt.Fprintf(out, "\r%-12s %s ", status.Mode, status.Display)
	}
	return status.Notice
}

func newLogCmd(opts *rootOptions) *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Markdown log operations"}

	logCmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Append a free-form line to today's section",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LogCLI.Add(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged to %s: %s\n", out.Path, out.Line)
			return nil
		},
	})

	var recomputeDay string
	recompute := &cobra.Command{
		Use:   "recompute",
		Short: "Rewrite a day's heading totals (today by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			var out pomologdto.SummaryOutput
			if recomputeDay != "" {
				out, err = app.LogCLI.RecomputeDay(context.Background(), recomputeDay)
			} else {
				out, err = app.LogCLI.Recompute(context.Background())
			}
			if err != nil {
				return err
			}
			if !out.Found {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no section for that day in %s\n", out.Path)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Heading)
			for _, p := range out.Problems {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s\n", p)
			}
			return nil
		},
	}
	recompute.Flags().StringVar(&recomputeDay, "day", "", "day to recompute, YYYY-MM-DD")
	logCmd.AddCommand(recompute)

	logCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current log document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			doc, err := app.LogCLI.Show(context.Background())
			if err != nil {
				return err
			}
			if !doc.Exists {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s does not exist yet\n", doc.Path)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), doc.Content)
			return nil
		},
	})

	logCmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's totals without writing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LogCLI.Today(context.Background())
			if err != nil {
				return err
			}
			if !out.Found {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing logged today")
				return nil
			}
			d := out.Day
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) work=%s break=%s total=%s entries=%d\n",
				d.Day, d.Weekday, duration.Format(d.Work), duration.Format(d.Break), duration.Format(d.Total), d.Entries)
			return nil
		},
	})
	return logCmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Per-day totals, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LogCLI.Stats(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(out.Days) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no days recorded; run reindex after editing the log by hand")
				return nil
			}
			for _, d := range out.Days {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%-9s\t🍅 %s\t🏖 %s\tΣ %s\n",
					d.Day, d.Weekday, duration.Format(d.Work), duration.Format(d.Break), duration.Format(d.Total))
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total\t\t\t🍅 %s\t🏖 %s\tΣ %s\n",
				duration.Format(out.Work), duration.Format(out.Break), duration.Format(out.Total))
			return nil
		},
	}
	stats.Flags().IntVar(&limit, "limit", 30, "number of days")
	return stats
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the stats projection from the log document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LogCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex complete: %d day(s) from %s\n", out.Days, out.Path)
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Settings file"}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			settings, err := config.LoadSettings(cfg.SettingsPath)
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(settings)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.SettingsPath, raw)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.SettingsPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.SettingsPath)
			}
			if err := config.SaveSettings(cfg.SettingsPath, config.DefaultSettings()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.SettingsPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func newHookCmd(opts *rootOptions) *cobra.Command {
	hook := &cobra.Command{Use: "hook", Short: "Out-of-process event hooks"}

	hook.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hook manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			hooks, err := app.HookCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(hooks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
				return nil
			}
			for _, h := range hooks {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s events=%s\n", h.Name, h.Version, h.Enabled, h.Binary, strings.Join(h.Events, ","))
			}
			return nil
		},
	})

	hook.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate hook checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.HookCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})

	var title, message string
	fire := &cobra.Command{
		Use:   "fire <event>",
		Short: "Send a test event to subscribed hooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.HookCLI.Fire(context.Background(), hookdto.EventInput{
				Name:    args[0],
				RunID:   "manual",
				Mode:    "idle",
				At:      time.Now(),
				Title:   title,
				Message: message,
			})
			if len(out.Delivered) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "delivered to %s\n", strings.Join(out.Delivered, ", "))
			} else if err == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hook subscribed")
			}
			return err
		},
	}
	fire.Flags().StringVar(&title, "title", "Pomodoro", "notification title")
	fire.Flags().StringVar(&message, "message", "test event", "notification body")
	hook.AddCommand(fire)
	return hook
}
