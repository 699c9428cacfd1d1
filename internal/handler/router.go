package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	chatHandler "github.com/jmoreau/recovery-squad/backend/internal/handler/chat"
	personaHandler "github.com/jmoreau/recovery-squad/backend/internal/handler/persona"
	recoveryHandler "github.com/jmoreau/recovery-squad/backend/internal/handler/recovery"
	skillHandler "github.com/jmoreau/recovery-squad/backend/internal/handler/skill"
	"github.com/jmoreau/recovery-squad/backend/internal/handler/stream"
	wsHandler "github.com/jmoreau/recovery-squad/backend/internal/handler/ws"
	personaModel "github.com/jmoreau/recovery-squad/backend/internal/model/persona"
	skillModel "github.com/jmoreau/recovery-squad/backend/internal/model/skill"
	aiService "github.com/jmoreau/recovery-squad/backend/internal/service/ai"
	chatService "github.com/jmoreau/recovery-squad/backend/internal/service/chat"
	recoveryService "github.com/jmoreau/recovery-squad/backend/internal/service/recovery"
	visionService "github.com/jmoreau/recovery-squad/backend/internal/service/vision"
	"github.com/jmoreau/recovery-squad/backend/pkg/utils"
)

// Deps bundles everything the router wires together. AI-dependent
// surfaces degrade to 503 when their service is nil.
type Deps struct {
	Personas    personaModel.Store
	Skill       skillModel.Descriptor
	ChatSvc     *chatService.Service
	AISvc       *aiService.Service
	RecoverySvc *recoveryService.Service
	VisionSvc   *visionService.Service
	Logger      *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	var streamHandler *stream.Handler
	if deps.AISvc != nil {
		streamHandler = stream.New(deps.AISvc, deps.ChatSvc, deps.Personas, deps.Logger)
	}

	r.Route("/api", func(api chi.Router) {
		personaHandler.New(deps.Personas).RegisterRoutes(api)
		skillHandler.New(deps.Skill).RegisterRoutes(api)
		chatHandler.New(deps.ChatSvc, deps.Personas).RegisterRoutes(api)

		if deps.RecoverySvc != nil {
			var analyzer recoveryHandler.ScreenshotAnalyzer
			if deps.VisionSvc != nil {
				analyzer = deps.VisionSvc
			}
			recoveryHandler.New(deps.RecoverySvc, analyzer, deps.Logger).RegisterRoutes(api)
			wsHandler.New(deps.RecoverySvc, deps.ChatSvc, deps.Personas, deps.Logger).RegisterRoutes(api)
		} else {
			api.Post("/recovery", func(w http.ResponseWriter, r *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "model backend unavailable")
			})
		}

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if streamHandler == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				deps.Logger.Warn("stream request failed",
					zap.String("session", sessionID),
					zap.Error(err))
			}
		})
	})

	return r
}

// requestLogger logs each request with its chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}
