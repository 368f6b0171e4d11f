package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/camuig/shuumulator/internal/config"
	"github.com/camuig/shuumulator/internal/logger"
	"github.com/camuig/shuumulator/internal/minkabu"
	"github.com/camuig/shuumulator/internal/simulator"
	"github.com/camuig/shuumulator/internal/storage"
	"github.com/camuig/shuumulator/internal/telegram"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *gorm.DB
	repo     *storage.Repository
	notifier *telegram.Notifier
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	log := logger.New(cfg.Logging.Level)

	db, err := storage.NewDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		repo:     storage.NewRepository(db),
		notifier: telegram.NewNotifier(cfg, log),
	}, nil
}

func (a *app) Close() {
	if err := storage.Close(a.db); err != nil {
		a.log.Error("close database", "error", err)
	}
}

func (a *app) simulator() *simulator.Simulator {
	prices := minkabu.NewClient(a.cfg.Minkabu.BaseURL, a.cfg.Minkabu.UserAgent, a.cfg.MinkabuTimeout(), a.log)
	return simulator.New(prices, a.repo, a.notifier, simulator.Options{
		ProfitBookingRate: a.cfg.ProfitBookingRate(),
		UserID:            a.cfg.Trading.UserID,
		FetchDelay:        a.cfg.FetchDelay(),
	}, a.log)
}
