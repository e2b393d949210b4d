package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/okovalenko/bloglist/internal/auth/http"
	"github.com/okovalenko/bloglist/internal/auth/identity"
	authservice "github.com/okovalenko/bloglist/internal/auth/service"
	"github.com/okovalenko/bloglist/internal/auth/token"
	"github.com/okovalenko/bloglist/internal/blog/events"
	bloghttp "github.com/okovalenko/bloglist/internal/blog/http"
	blogrepo "github.com/okovalenko/bloglist/internal/blog/repository"
	blogservice "github.com/okovalenko/bloglist/internal/blog/service"
	"github.com/okovalenko/bloglist/internal/common/clock"
	"github.com/okovalenko/bloglist/internal/common/config"
	commoncrypto "github.com/okovalenko/bloglist/internal/common/crypto"
	"github.com/okovalenko/bloglist/internal/common/db"
	commonhttp "github.com/okovalenko/bloglist/internal/common/http"
	"github.com/okovalenko/bloglist/internal/common/logger"
	srv "github.com/okovalenko/bloglist/internal/common/server"
	userhttp "github.com/okovalenko/bloglist/internal/user/http"
	userrepo "github.com/okovalenko/bloglist/internal/user/repository"
	userservice "github.com/okovalenko/bloglist/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "bloglist", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	users := userrepo.NewPgRepository(pool)
	blogs := blogrepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	verifier := token.NewVerifier(cfg.JWTSecret)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	resolver := identity.NewResolver(users, log)

	loginService := authservice.NewLoginService(users, hasher, issuer, log)
	userService := userservice.NewService(users, hasher, idGenerator, log)

	hub := events.NewHub(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	blogService := blogservice.NewService(blogs, idGenerator, hub, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/login", authhttp.NewHandler(loginService, cfg.RequestTimeout, log))
	mux.Handle("/api/users", userhttp.NewHandler(userService, cfg.RequestTimeout, log))
	blogHandler := bloghttp.NewHandler(blogService, hub, verifier, resolver, cfg.RequestTimeout, log)
	mux.Handle("/api/blogs", blogHandler)
	mux.Handle("/api/blogs/", blogHandler)
	mux.Handle("/ws/blogs", blogHandler)

	rateLimiter := commonhttp.NewPathRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, rateLimiter.Middleware(mux))

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("bloglist service: stopping event feed hub")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "bloglist", shutdownHooks)
}
