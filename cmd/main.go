package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saurabh-G07/Virtual-court-platform/config"
	"github.com/saurabh-G07/Virtual-court-platform/internal/postgres"
	"github.com/saurabh-G07/Virtual-court-platform/internal/security"
	"github.com/saurabh-G07/Virtual-court-platform/internal/service"
	grpcx "github.com/saurabh-G07/Virtual-court-platform/internal/transport/grpc"
	httpx "github.com/saurabh-G07/Virtual-court-platform/internal/transport/http"
	"github.com/saurabh-G07/Virtual-court-platform/internal/transport/ws"
	"github.com/saurabh-G07/Virtual-court-platform/pkg/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting virtual-court",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		DSN:               cfg.Postgres.DSN,
		MaxConns:          cfg.Postgres.MaxConns,
		MinConns:          cfg.Postgres.MinConns,
		MaxConnLifetime:   cfg.Postgres.ConnLifetime(),
		MaxConnIdleTime:   cfg.Postgres.ConnIdleTime(),
		HealthCheckPeriod: cfg.Postgres.HealthPeriod(),
		ApplicationName:   cfg.Postgres.ApplicationName,
	})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- repos ---
	userRepo := postgres.NewUserRepository(db.Pool)
	meetingRepo := postgres.NewMeetingRepository(db.Pool)
	messageRepo := postgres.NewMessageRepository(db.Pool)

	// --- services ---
	signer := security.NewJWTSigner(
		[]byte(cfg.Security.JWT.Secret),
		cfg.Security.JWT.Issuer,
		cfg.Security.JWT.TTL(),
		cfg.Security.JWT.Skew(),
	)
	authSvc := service.NewAuthService(userRepo, signer, security.PasswordPolicy{
		Cost:      cfg.Security.Password.BcryptCost,
		MinLength: cfg.Security.Password.MinLength,
	})
	meetingSvc := service.NewMeetingService(meetingRepo)
	chatSvc := service.NewChatService(messageRepo, cfg.Chat.MaxMessageLen)

	// --- стрим-ядро: presence + relay + lifecycle + chat ---
	presence := ws.NewPresence()
	lifecycle := ws.NewLifecycle(meetingSvc)
	relay := ws.NewRelay(presence)
	broadcaster := ws.NewChatBroadcaster(presence, chatSvc)
	wsServer := ws.NewServer(presence, lifecycle, relay, broadcaster, authSvc)

	// --- HTTP ---
	handler := httpx.NewHandler(authSvc, meetingSvc, chatSvc)
	router := httpx.NewRouter(handler, authSvc, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- gRPC (health) ---
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcx.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(grpcx.StreamServerInterceptor()),
	)
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(cfg.Logging.Service, grpc_health_v1.HealthCheckResponse_SERVING)

	// --- run both servers ---
	errCh := make(chan error, 2)

	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			errCh <- err
			return
		}
		slog.Info("grpc listen", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthSrv.Shutdown()
	grpcServer.GracefulStop()
	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
