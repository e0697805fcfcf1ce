package server

import (
	"context"

	"github.com/ogurasousui/shift-scheduler/internal/core/health"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName は gRPC ヘルスチェックで名前指定する場合のサービス名です。
const ServiceName = "shift-scheduler"

type healthServer struct {
	healthpb.UnimplementedHealthServer
	checker health.Checker
}

func newHealthServer(checker health.Checker) *healthServer {
	return &healthServer{checker: checker}
}

// Check は稼働確認ユースケースの結果を grpc.health.v1 のステータスに変換します。
func (h *healthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	switch req.GetService() {
	case "", ServiceName:
	default:
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}

	if h.checker != nil {
		if err := h.checker.Check(ctx); err != nil {
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
