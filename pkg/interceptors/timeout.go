// interceptors содержит серверные unary-интерсепторы gRPC: таймаут,
// перехват паник и логирование с request_id.
package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// WithTimeout ограничивает время обработки вызова значением d.
//
// d <= 0 и уже заданный входящий дедлайн оставляют контекст без изменений.
// Истёкший дедлайн gRPC-рантайм отдаёт клиенту как codes.DeadlineExceeded.
func WithTimeout(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, has := ctx.Deadline(); has || d <= 0 {
			return handler(ctx, req)
		}

		tctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		return handler(tctx, req)
	}
}
