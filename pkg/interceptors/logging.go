package interceptors

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-recipe-cache/pkg/log"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// RequestIDKey — ключ metadata с идентификатором запроса.
const RequestIDKey = "x-request-id"

// Logging кладёт в контекст логгер с request_id, method и peer
// и после вызова пишет одну запись grpc_request с кодом и длительностью.
//
// Коды Internal, Unknown, DataLoss и Unavailable логируются уровнем Error,
// остальные уровнем Info.
func Logging(base *slog.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		l := base.With(
			slog.String("request_id", requestID(ctx)),
			slog.String("method", info.FullMethod),
			slog.String("peer", peerAddr(ctx)),
		)

		resp, err := handler(log.Into(ctx, l), req)

		code := status.Code(err)
		l.Log(ctx, levelFor(code), "grpc_request",
			slog.String("code", code.String()),
			slog.Duration("dur", time.Since(start)),
		)

		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, v := range md.Get(RequestIDKey) {
			if v != "" {
				return v
			}
		}
	}

	return uuid.NewString()
}

func peerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p != nil && p.Addr != nil {
		return p.Addr.String()
	}

	return "-"
}

func levelFor(code codes.Code) slog.Level {
	switch code {
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
