package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/manzil-bot/assets"
	"github.com/aliskhannn/manzil-bot/internal/config"
	"github.com/aliskhannn/manzil-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/manzil-bot/internal/delivery/telegram"
	"github.com/aliskhannn/manzil-bot/internal/infra/aladhan"
	"github.com/aliskhannn/manzil-bot/internal/infra/migration"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/manzil-bot/internal/infra/quranapi"
	redisstore "github.com/aliskhannn/manzil-bot/internal/infra/redis"
	"github.com/aliskhannn/manzil-bot/internal/logger"
	"github.com/aliskhannn/manzil-bot/internal/preferences"
	"github.com/aliskhannn/manzil-bot/internal/repository"
	"github.com/aliskhannn/manzil-bot/internal/service"
	"github.com/aliskhannn/manzil-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("application stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	if err := migration.RunUp(dsn, cfg.MigrationsPath, lg); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	checks := []httpapi.Check{{Name: "postgres", Fn: pool.Ping}}

	// Static catalogs.
	surahRepo, err := loadSurahs(cfg.SurahsJSONPath)
	if err != nil {
		return err
	}
	reciterRepo := repository.NewReciterRepository()

	// Audio sessions live in Redis when it is configured.
	var audioStore service.AudioSessionStore = storage.NewAudioStorage()
	if cfg.Redis.Enabled() {
		client, err := redisstore.NewClient(ctx, cfg.Redis.URL, lg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		audioStore = redisstore.NewAudioStore(client, cfg.Redis.TTL)
		checks = append(checks, httpapi.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return redisstore.Ping(ctx, client)
		}})
	}

	// Repositories.
	userRepo := pgrepo.NewUserRepository(pool)
	progressRepo := pgrepo.NewProgressRepository(pool)
	prefStore := preferences.NewStore(pgrepo.NewPreferencesRepository(pool), lg)

	// Outbound APIs.
	quranClient := quranapi.NewClient(quranapi.Config{
		BaseURL:       cfg.QuranAPI.BaseURL,
		Timeout:       cfg.QuranAPI.Timeout,
		RatePerSecond: cfg.QuranAPI.RatePerSecond,
	}, lg)
	prayerClient := aladhan.NewClient(cfg.PrayerAPI.BaseURL, cfg.PrayerAPI.Timeout, lg)

	// Services.
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(surahRepo, reciterRepo)
	verseService := service.NewVerseService(surahRepo, reciterRepo, quranClient, cfg.QuranAPI.Timeout, lg)
	bookmarkService := service.NewBookmarkService(prefStore, surahRepo)
	settingsService := service.NewSettingsService(prefStore, reciterRepo, lg)
	progressService := service.NewProgressService(progressRepo, bookmarkService, lg)
	readerService := service.NewReaderService(surahRepo, verseService, storage.NewReaderStorage(), progressService, lg)
	audioService := service.NewAudioService(audioStore, surahRepo, reciterRepo)
	prayerService := service.NewPrayerService(prayerClient, lg)
	resetService := service.NewResetService(postgres.NewTransactor(pool), prefStore)
	dailyVerseService := service.NewDailyVerseService(
		surahRepo,
		verseService,
		settingsService,
		userRepo,
		userService,
		cfg.DailyVerse.Schedule,
		lg,
	)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Bot.Debug
	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, cfg.Bot.Workers, telegram.Services{
		Users:      userService,
		Catalog:    catalogService,
		Reader:     readerService,
		Audio:      audioService,
		Bookmarks:  bookmarkService,
		Settings:   settingsService,
		Progress:   progressService,
		Prayer:     prayerService,
		DailyVerse: dailyVerseService,
		Reset:      resetService,
	})
	dailyVerseService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := handler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		dailyVerseService.Start(gctx)
		return nil
	})

	if cfg.HTTP.Addr != "" {
		server := httpapi.NewServer(cfg.HTTP.Addr, lg, httpapi.Services{
			Catalog: catalogService,
			Verses:  verseService,
			Prayer:  prayerService,
			Checks:  checks,
		})

		g.Go(server.ListenAndServe)
		g.Go(func() error {
			<-gctx.Done()
			return server.Shutdown(cfg.HTTP.ShutdownTimeout)
		})
	}

	lg.Info("manzil bot started")
	return g.Wait()
}

func loadSurahs(path string) (*repository.SurahRepository, error) {
	if path != "" {
		return repository.NewSurahRepository(path)
	}
	return repository.NewSurahRepositoryFromJSON(assets.SurahsJSON)
}
