package main

import (
	"context"
	"time"

	"coop_crm/internal/config"
	"coop_crm/internal/domain"
	"coop_crm/internal/server"
	"coop_crm/internal/service/audit"
	"coop_crm/internal/service/auth"
	"coop_crm/internal/service/consult"
	"coop_crm/internal/service/customer"
	"coop_crm/internal/service/gemini"
	"coop_crm/internal/service/notify"
	"coop_crm/internal/service/sheet"
	"coop_crm/internal/service/tablecache"
	"coop_crm/internal/service/tasks"
	pkg_config "coop_crm/pkg/config"
	"coop_crm/pkg/masker"
	"coop_crm/pkg/zaplogger"

	"go.uber.org/zap"
)

func main() {
	logger, err := zaplogger.New()
	if err != nil {
		panic(err)
	}

	cfg := config.Config{}
	if err := pkg_config.LoadConfigs(&cfg); err != nil {
		logger.Fatal("error loading configs", zap.Error(err))
	}

	if err := masker.LogConfigs(logger, &cfg); err != nil {
		logger.Fatal("error logging configs", zap.Error(err))
	}

	ctx := context.Background()

	store, err := sheet.NewStore(ctx,
		cfg.GoogleSheetConfig.CredentialsBase64,
		cfg.GoogleSheetConfig.SpreadsheetID,
		cfg.GoogleSheetConfig.PauseMs,
		logger,
	)
	if err != nil {
		logger.Fatal("error creating sheet store", zap.Error(err))
	}

	tables := tablecache.New(store, time.Duration(cfg.CacheConfig.TableTTLSeconds)*time.Second, logger)
	auditor := audit.New(store, logger)

	var refiner domain.Refiner
	if cfg.GeminiConfig.APIKey != "" {
		r, err := gemini.New(ctx, cfg.GeminiConfig.APIKey, cfg.GeminiConfig.Model, logger)
		if err != nil {
			logger.Fatal("error creating gemini client", zap.Error(err))
		}
		refiner = r
	} else {
		logger.Info("GEMINI_API_KEY not set, notes are saved without AI refinement")
	}

	var notifier domain.Notifier
	if cfg.TelegramConfig.BotToken != "" {
		chats, err := notify.ParseChatMap(cfg.TelegramConfig.DeptChats)
		if err != nil {
			logger.Fatal("error parsing DEPT_CHATS", zap.Error(err))
		}
		n, err := notify.NewTelegram(cfg.TelegramConfig.BotToken, chats, cfg.TelegramConfig.DefaultChatID, logger)
		if err != nil {
			logger.Fatal("error creating telegram notifier", zap.Error(err))
		}
		notifier = n
	} else {
		logger.Info("BOT_TOKEN not set, follow-up notifications disabled")
	}

	sessions := auth.NewSessionStore(time.Duration(cfg.CacheConfig.SessionTTLHours) * time.Hour)
	authSvc := auth.New(tables, auditor, sessions, logger)
	consultSvc := consult.New(store, tables, auditor, refiner, notifier, logger)
	tracker := tasks.New(store, tables, auditor, logger)
	custSvc := customer.New(store, tables, auditor, logger)

	srv := server.New(authSvc, consultSvc, tracker, custSvc, tables, auditor, logger)

	logger.Info("starting server", zap.String("addr", cfg.ServerConfig.Addr))
	if err := srv.Router().Run(cfg.ServerConfig.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
