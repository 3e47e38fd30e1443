package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Solids/internal/auth"
	batch "Solids/internal/calc/batch"
	importer "Solids/internal/calc/importer"
	report "Solids/internal/calc/report"
	solid "Solids/internal/calc/solid"
	config "Solids/internal/config"
	history "Solids/internal/history"
	logging "Solids/internal/logging"
	middleware "Solids/internal/middleware"
	repo "Solids/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func HandleList(router *mux.Router, cfg config.Config, store repo.Repository, log *zap.Logger) *auth.IPRateLimiter {
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	solidH := &solid.Handler{}
	batchH := &batch.Handler{}
	importH := &importer.Handler{}
	reportH := &report.Handler{}

	tools := api.PathPrefix("/tools/solids").Subrouter()
	tools.HandleFunc("/shapes", solidH.Shapes).Methods("GET")
	tools.HandleFunc("/calc", solidH.Calc).Methods("POST")
	tools.HandleFunc("/batch", batchH.Solids).Methods("POST")
	tools.HandleFunc("/import", importH.Solids).Methods("POST")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")

	authEnv := &auth.Authenv{
		JWTkey:       []byte(cfg.TokenKey),
		Repo:         store,
		Log:          log.Named("auth"),
		SecureCookie: cfg.TLS(),
	}
	historyH := &history.HistoryHandler{Repo: store, Log: log.Named("history")}

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)
	secureApi.HandleFunc("/calculations", historyH.List).Methods("GET")
	secureApi.HandleFunc("/calculations", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/calculations/{id:[0-9]+}", historyH.Get).Methods("GET")
	secureApi.HandleFunc("/calculations/{id:[0-9]+}", historyH.Delete).Methods("DELETE")

	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	return limiter
}

// openStore returns the Postgres repository, or an in-memory one when no
// database is configured.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repo.Repository, func(), error) {
	if !cfg.Accounts() {
		log.Warn("DATABASE_URL not set, accounts and history are kept in memory")
		if cfg.TokenKey == "" {
			key := make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return nil, nil, err
			}
			cfg.TokenKey = hex.EncodeToString(key)
		}
		return repo.NewMemory(), func() {}, nil
	}
	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	store := repo.NewPostgresUserDB(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer log.Sync()

	store, closeStore, err := openStore(ctx, &cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer closeStore()

	router := mux.NewRouter()
	limiter := HandleList(router, cfg, store, log)
	router.Use(middleware.RequestID, middleware.AccessLog(log.Named("http")))
	handler := middleware.CORS(router)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLS()))
		var serveErr error
		if cfg.TLS() {
			serveErr = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			log.Error("server error", zap.Error(serveErr))
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Prune(30 * time.Minute); n > 0 {
					log.Debug("pruned rate limiters", zap.Int("count", n))
				}
			}
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
}
