//go:build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"lemiknow/internal/adapter/logging"
	"lemiknow/internal/app"
	"lemiknow/internal/config"
	"lemiknow/internal/domain/ports"
)

// InitializeApp wires the application components together.
func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	wire.Build(
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideTransport,
		provideNotificationConfig,
		provideLifecycleNotifier,
		provideSchedule,
		app.New,
	)
	return nil, nil
}
