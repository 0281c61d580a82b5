package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"lemiknow/internal/domain/ports"
	"lemiknow/internal/usecase"
)

// Schedule is a cron expression. Empty means run once.
type Schedule string

// Operation is a unit of work run under notification.
type Operation func(ctx context.Context) (any, error)

// App runs wrapped operations once or on a cron schedule.
type App struct {
	cron      *cron.Cron
	notifier  *usecase.LifecycleNotifier
	transport ports.Transport
	logger    ports.Logger
	schedule  string
}

// New constructs an App instance.
func New(notifier *usecase.LifecycleNotifier, transport ports.Transport, logger ports.Logger, schedule Schedule) *App {
	cronLog := cronLogger{logger: logger}
	return &App{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		notifier:  notifier,
		transport: transport,
		logger:    logger,
		schedule:  string(schedule),
	}
}

// Notifier returns the lifecycle notifier operations run under.
func (a *App) Notifier() *usecase.LifecycleNotifier {
	return a.notifier
}

// Run executes op immediately. Without a schedule it returns op's error.
// With a schedule it keeps running op until ctx is done; failed runs are
// logged and do not stop the scheduler.
func (a *App) Run(ctx context.Context, name string, op Operation) error {
	if a.schedule == "" {
		_, err := a.notifier.Run(ctx, name, op)
		return err
	}

	if err := a.scheduleJob(ctx, name, op); err != nil {
		return fmt.Errorf("schedule %q: %w", a.schedule, err)
	}

	a.logger.Info(ctx, "running first invocation immediately", "operation", name)
	if _, err := a.notifier.Run(ctx, name, op); err != nil {
		a.logger.Error(ctx, "initial run failed", "operation", name, "error", err)
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

// TestNotification sends a single message through the transport.
func (a *App) TestNotification(ctx context.Context) error {
	return a.transport.Send(ctx, "🧪 lemiknow notification test")
}

func (a *App) scheduleJob(ctx context.Context, name string, op Operation) error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		if _, err := a.notifier.Run(ctx, name, op); err != nil {
			a.logger.Error(ctx, "scheduled run failed", "operation", name, "error", err)
		}
	})
	return err
}

// cronLogger routes cron's internal logging to ports.Logger.
type cronLogger struct {
	logger ports.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(context.Background(), msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(context.Background(), msg, append(keysAndValues, "error", err)...)
}
