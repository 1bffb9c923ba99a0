package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/d4-dhiraj/SpendWise-AI/internal/advice"
	"github.com/d4-dhiraj/SpendWise-AI/internal/advisor"
	"github.com/d4-dhiraj/SpendWise-AI/internal/api/handlers"
	"github.com/d4-dhiraj/SpendWise-AI/internal/api/middleware"
	"github.com/d4-dhiraj/SpendWise-AI/internal/auth"
	"github.com/d4-dhiraj/SpendWise-AI/internal/classifier"
	"github.com/d4-dhiraj/SpendWise-AI/internal/config"
	"github.com/d4-dhiraj/SpendWise-AI/internal/jobs/inmemory"
	"github.com/d4-dhiraj/SpendWise-AI/internal/logger"
	"github.com/d4-dhiraj/SpendWise-AI/internal/session"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store/gcs"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store/memory"
	"github.com/d4-dhiraj/SpendWise-AI/internal/store/sqlite"
)

// storage is what every backend provides: identity-scoped blobs plus the
// shared goal slot.
type storage interface {
	store.Store
	store.BroadcastSlot
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	var (
		kv  storage
		err error
	)
	switch cfg.StorageBackend {
	case "memory":
		kv = memory.New()
	case "sqlite":
		kv, err = sqlite.New(cfg.SQLiteDBPath)
	case "gcs":
		kv, err = gcs.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
	}
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open storage")
	}
	defer kv.Close()

	log.Info().Str("backend", cfg.StorageBackend).Msg("Storage ready")

	// Sessions hold each identity's loaded ledger and goal tracker; the auth
	// subscription evicts them on sign-out.
	sessions := session.NewManager(kv, kv, log)

	authProvider := auth.NewProvider(cfg.JWTSecret, cfg.TokenTTL)
	authProvider.Subscribe(sessions.HandleAuthEvent)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueBufferSize, cfg.WorkerCount, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	adv := advisor.NewGemini(cfg.FastModel, cfg.ProModel, log)
	executor := advice.NewExecutor(adv, sessions, log)

	go func() {
		log.Info().Int("workers", cfg.WorkerCount).Msg("Starting advice workers")
		if err := jobQueue.Start(workerCtx, executor); err != nil {
			log.Error().Err(err).Msg("Advice worker stopped with error")
		}
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authProvider, log)
	transactionsHandler := handlers.NewTransactionsHandler(sessions, classifier.NewGemini(cfg.FastModel), log)
	goalsHandler := handlers.NewGoalsHandler(sessions, kv, log)
	adviceHandler := handlers.NewAdviceHandler(sessions, jobQueue, jobStore, log)

	// Protected routes; everything under /api/ except auth entry points
	// requires a bearer token.
	protected := http.NewServeMux()

	protected.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Logout(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodPost:
			transactionsHandler.CreateTransaction(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			txID := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
			if txID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
				return
			}
			transactionsHandler.DeleteTransaction(w, r, txID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/classify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.ClassifyMessage(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/receipts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.ScanReceipt(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/balance", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.GetBalance(w, r)
		case http.MethodPut:
			transactionsHandler.SetBalance(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.GetSummary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/goal", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			goalsHandler.GetGoal(w, r)
		case http.MethodPost:
			goalsHandler.CreateGoal(w, r)
		case http.MethodDelete:
			goalsHandler.DeleteGoal(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/goal/contribute", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			goalsHandler.Contribute(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/goal/withdraw", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			goalsHandler.Withdraw(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/goal/publish", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			goalsHandler.PublishGoal(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/goal/import", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			goalsHandler.ImportGoal(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/advice", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			adviceHandler.ListAdvice(w, r)
		case http.MethodPost:
			adviceHandler.RequestAdvice(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	protected.HandleFunc("/api/advice/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/advice/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			adviceHandler.GetAdvice(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Create router
	mux := http.NewServeMux()
	mux.Handle("/api/", middleware.Auth(authProvider)(protected))

	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Register(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			authHandler.Login(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
