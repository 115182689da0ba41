package interceptors

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/pribylovaa/go-recipe-cache/pkg/log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recover превращает панику обработчика в codes.Internal.
// Стек пишется в лог, клиент получает нейтральное сообщение.
// Логгер берётся из контекста, иначе base, иначе slog.Default().
func Recover(base *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			l := log.From(ctx)
			if l == slog.Default() && base != nil {
				l = base
			}
			l.Error("grpc_panic_recovered",
				slog.String("method", info.FullMethod),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			resp, err = nil, status.Error(codes.Internal, "internal error")
		}()

		return handler(ctx, req)
	}
}
