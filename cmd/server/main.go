package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vladimish/telegramify-markdown-api/internal/config"
	"github.com/vladimish/telegramify-markdown-api/internal/formatter"
	grpcv2 "github.com/vladimish/telegramify-markdown-api/internal/grpc/v2"
	"github.com/vladimish/telegramify-markdown-api/internal/handlers"
	"github.com/vladimish/telegramify-markdown-api/internal/logger"
	"github.com/vladimish/telegramify-markdown-api/internal/router"
	"github.com/vladimish/telegramify-markdown-api/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		panic(err)
	}

	log, err := logger.New(logger.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	module, err := formatter.Open(cfg.FormatterOptions(), cfg.DisabledCapabilities...)
	if err != nil {
		return err
	}
	log.Info("Formatter loaded",
		zap.String("name", module.Name),
		zap.String("version", module.Version),
		zap.Strings("capabilities", module.Names()),
	)

	svc, err := service.NewFormatterService(module, log)
	if err != nil {
		return err
	}

	handler := handlers.NewHandler(svc, log, module.Options().MaxInputSize)
	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: router.NewRouter(handler, log, router.Options{
			CORSOrigins:    cfg.CORSOrigins,
			RequestTimeout: cfg.RequestTimeout,
		}),
	}

	var grpcSrv *grpc.Server
	if cfg.GRPCAddress != "" {
		grpcSrv = grpcv2.NewServer(svc, log)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server started", zap.String("address", cfg.ServerAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if grpcSrv != nil {
		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.GRPCAddress)
			if err != nil {
				return err
			}
			log.Info("gRPC server started", zap.String("address", cfg.GRPCAddress))
			return grpcSrv.Serve(lis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
