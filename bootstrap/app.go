package bootstrap

import (
	"pdfchat_backend/config"
	"pdfchat_backend/pkg/logging"
)

type App struct {
	Cfg            *config.Config
	Infrastructure *Infrastructure
	Repositories   *Repositories
	Services       *Services
	Handlers       *Handlers
	Refresher      *Refresher
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Cfg: cfg}
	infra, err := NewInfrastructure(cfg)
	if err != nil {
		logging.Logger.Error("fail NewInfrastructure", "error", err)
		return nil, err
	}
	app.Infrastructure = infra

	// repos
	repos := NewRepositories(infra.DB)
	app.Repositories = repos

	// services
	services := NewServices(cfg, repos, infra)
	app.Services = services

	handlers := NewHandlers(services, infra)
	app.Handlers = handlers

	// host-side retry clock for the monitor
	refresher := NewRefresher(repos.DocumentRepository, services.Monitor, cfg.RefreshInterval)
	app.Refresher = refresher

	return app, nil
}

// Shutdown stops tracking before infra so in-flight sessions never see a
// closed pool.
func (a *App) Shutdown() error {
	if a == nil {
		return nil
	}
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.Services != nil && a.Services.Monitor != nil {
		a.Services.Monitor.Shutdown()
	}
	if a.Infrastructure != nil {
		if err := a.Infrastructure.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}
