package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/config"
	"github.com/jmoreau/recovery-squad/backend/internal/handler"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	"github.com/jmoreau/recovery-squad/backend/internal/model/skill"
	"github.com/jmoreau/recovery-squad/backend/internal/service/ai"
	"github.com/jmoreau/recovery-squad/backend/internal/service/chat"
	"github.com/jmoreau/recovery-squad/backend/internal/service/recovery"
	"github.com/jmoreau/recovery-squad/backend/internal/service/vision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	descriptor := skill.Load("skill.json", "config/skill.json", cfg.Skill.Path)
	logger.Info("skill descriptor loaded",
		zap.String("name", descriptor.Name),
		zap.String("version", descriptor.Version))

	personaStore := persona.NewMemoryStore(persona.Seed())

	// Transcript memory: external redis store when configured,
	// process-local otherwise.
	var chatStore chat.Store
	if cfg.Memory.Enabled() {
		redisStore, err := chat.NewRedisStore(ctx, cfg.Memory.RedisURL, cfg.Memory.TTL)
		if err != nil {
			logger.Warn("redis memory unavailable, falling back to in-memory transcripts", zap.Error(err))
			chatStore = chat.NewMemoryStore()
		} else {
			defer redisStore.Close()
			chatStore = redisStore
			logger.Info("transcript memory backed by redis")
		}
	} else {
		chatStore = chat.NewMemoryStore()
	}
	chatService := chat.NewService(chatStore)

	var aiService *ai.Service
	var recoveryService *recovery.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, personaStore, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI service, continuing without model backend", zap.Error(err))
		} else {
			recoveryService = recovery.NewService(aiService, personaStore, logger)
			logger.Info("AI service initialized",
				zap.String("provider", cfg.AI.Provider),
				zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Warn("model credentials not configured, persona dispatch disabled")
	}

	var visionService *vision.Service
	if cfg.Vision.Enabled() {
		visionService, err = vision.NewService(ctx, cfg.Vision, logger)
		if err != nil {
			logger.Warn("failed to initialize vision service, screenshot analysis disabled", zap.Error(err))
			visionService = nil
		} else {
			logger.Info("vision service initialized", zap.String("model", cfg.Vision.Model))
		}
	} else {
		logger.Info("vision credentials not configured, screenshot analysis disabled")
	}

	router := handler.NewRouter(handler.Deps{
		Personas:    personaStore,
		Skill:       descriptor,
		ChatSvc:     chatService,
		AISvc:       aiService,
		RecoverySvc: recoveryService,
		VisionSvc:   visionService,
		Logger:      logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("recovery squad backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
