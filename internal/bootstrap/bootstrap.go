package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	hookinadapter "mdpomo/internal/modules/hook/adapter/in"
	hookoutadapter "mdpomo/internal/modules/hook/adapter/out"
	hookservice "mdpomo/internal/modules/hook/service"
	hookusecase "mdpomo/internal/modules/hook/usecase"
	pomologinadapter "mdpomo/internal/modules/pomolog/adapter/in"
	pomologoutadapter "mdpomo/internal/modules/pomolog/adapter/out"
	pomologout "mdpomo/internal/modules/pomolog/port/out"
	pomologservice "mdpomo/internal/modules/pomolog/service"
	pomologusecase "mdpomo/internal/modules/pomolog/usecase"
	timerinadapter "mdpomo/internal/modules/timer/adapter/in"
	timeroutadapter "mdpomo/internal/modules/timer/adapter/out"
	timerdomain "mdpomo/internal/modules/timer/domain"
	timerout "mdpomo/internal/modules/timer/port/out"
	timerservice "mdpomo/internal/modules/timer/service"
	timerusecase "mdpomo/internal/modules/timer/usecase"
	"mdpomo/internal/platform/clock"
	"mdpomo/internal/platform/config"
	"mdpomo/internal/platform/id"
	"mdpomo/internal/platform/logging"
	"mdpomo/internal/platform/tx"
	uiapp "mdpomo/internal/ui/app"
)

type App struct {
	Config   config.Config
	Settings config.Settings
	Logger   hclog.Logger

	TimerCLI timerinadapter.CLIHandler
	TimerTUI timerinadapter.TUIHandler
	LogCLI   pomologinadapter.CLIHandler
	LogTUI   pomologinadapter.TUIHandler
	HookCLI  hookinadapter.CLIHandler

	closers []io.Closer
}

func New(cfg config.Config) (*App, error) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Settings: settings, Logger: logger, closers: []io.Closer{logCloser}}

	clk := clock.SystemClock{}

	projector, err := pomologoutadapter.NewSQLiteDayProjector(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new day projector: %w", err)
	}
	app.closers = append(app.closers, projector)

	logUC := pomologusecase.NewInteractor(pomologservice.NewLogService(
		clk,
		pomologoutadapter.NewVaultDocumentStore(cfg.VaultPath),
		destination(cfg, settings),
		projector,
		tx.NewKeyedManager(),
		logger.Named("pomolog"),
		pomologservice.Options{UnderHeading: settings.LogUnderDailyHeading},
	))

	hookUC := hookusecase.NewInteractor(hookservice.NewHookService(
		hookoutadapter.NewFileManifestStore(cfg.DataDir),
		hookoutadapter.NewGRPCHost(logger.Named("hook")),
		logger.Named("hook"),
	), cfg.VaultPath)

	timerLogger := logger.Named("timer")
	sound := timeroutadapter.NewCommandSoundPlayer(timeroutadapter.SoundConfig{
		Player:      settings.SoundPlayer,
		SoundFile:   settings.SoundFile,
		AmbientFile: settings.AmbientFile,
	}, os.Stdout, timerLogger)
	app.closers = append(app.closers, sound)
	timerSvc := timerservice.NewTimerService(
		clk,
		timeroutadapter.NewObsidianNoteLocator(cfg.VaultPath),
		TimerSettings(settings),
		timerLogger,
	)
	timerUC := timerusecase.NewInteractor(timerSvc, id.UUID{},
		timerusecase.WithLog(logUC),
		timerusecase.WithSound(sound),
		timerusecase.WithNotifier(app.notifier(settings, timerLogger)),
		timerusecase.WithHooks(hookUC),
		timerusecase.WithLogger(timerLogger),
	)

	app.TimerCLI = timerinadapter.NewCLIHandler(timerUC)
	app.TimerTUI = timerinadapter.NewTUIHandler(timerUC)
	app.LogCLI = pomologinadapter.NewCLIHandler(logUC)
	app.LogTUI = pomologinadapter.NewTUIHandler(logUC)
	app.HookCLI = hookinadapter.NewCLIHandler(hookUC)
	return app, nil
}

// TimerSettings converts user settings into the timer's own settings.
func TimerSettings(s config.Settings) timerdomain.Settings {
	return timerdomain.Settings{
		Work:               time.Duration(s.WorkMinutes) * time.Minute,
		ShortBreak:         time.Duration(s.ShortBreakMinutes) * time.Minute,
		LongBreak:          time.Duration(s.LongBreakMinutes) * time.Minute,
		LongBreakInterval:  s.LongBreakInterval,
		AutoStart:          s.AutostartTimer,
		AutoCycles:         s.NumAutoCycles,
		Logging:            s.Logging,
		LogActiveNote:      s.LogActiveNote,
		Emoji:              s.Emoji,
		Sound:              s.NotificationSound,
		SystemNotification: s.SystemNotification,
		Ambient:            s.AmbientSound,
	}
}

func destination(cfg config.Config, settings config.Settings) pomologout.Destination {
	if settings.LogDestination == config.LogToDailyNote {
		return pomologoutadapter.NewDailyNoteDestination(cfg.VaultPath)
	}
	return pomologoutadapter.NewFixedFileDestination(settings.LogFile)
}

// notifier prefers the desktop notification bus when system notifications
// are on. Notices always go to the log.
func (a *App) notifier(settings config.Settings, logger hclog.Logger) timerout.Notifier {
	fallback := timeroutadapter.NewLogNotifier(logger)
	if !settings.SystemNotification {
		return fallback
	}
	dbus := timeroutadapter.NewDBusNotifier("mdpomo", fallback)
	a.closers = append(a.closers, dbus)
	return dbus
}

// Close stops ambient sound and releases the day projection, the
// notification bus and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.TimerTUI, app.LogTUI, app.HookCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
