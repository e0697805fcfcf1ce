package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/ogurasousui/shift-scheduler/internal/core/health"
	"github.com/ogurasousui/shift-scheduler/internal/platform/config"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server は HTTP API サーバーとヘルスチェック用 gRPC サーバーのライフサイクルを管理します。
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	grpcServer *grpc.Server
	logger     *slog.Logger
}

// New は HTTP ハンドラーと稼働確認ユースケースからサーバーを構築します。
// cfg.HealthListenAddr が空の場合 gRPC サーバーは起動しません。
func New(cfg config.ServerConfig, handler http.Handler, checker health.Checker, logger *slog.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	grpcServer := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(grpcServer, newHealthServer(checker))

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		grpcServer: grpcServer,
		logger:     logger,
	}
}

// Run は設定されたアドレスで待ち受け、コンテキストがキャンセルされると両サーバーを停止します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddr, err)
	}

	var grpcLis net.Listener
	if s.cfg.HealthListenAddr != "" {
		grpcLis, err = net.Listen("tcp", s.cfg.HealthListenAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen on %s: %w", s.cfg.HealthListenAddr, err)
		}
	}

	return s.Serve(ctx, httpLis, grpcLis)
}

// Serve は与えられたリスナーで待ち受けます。grpcLis が nil の場合 gRPC サーバーは起動しません。
// いずれかのサーバーが異常終了した場合は他方も停止し、そのエラーを返します。
func (s *Server) Serve(ctx context.Context, httpLis, grpcLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", slog.String("addr", httpLis.Addr().String()))
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})

	if grpcLis != nil {
		g.Go(func() error {
			s.logger.Info("grpc health server listening", slog.String("addr", grpcLis.Addr().String()))
			if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve gRPC: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

func (s *Server) shutdown(ctx context.Context) error {
	s.logger.Info("shutting down servers")

	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	s.grpcServer.GracefulStop()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}
