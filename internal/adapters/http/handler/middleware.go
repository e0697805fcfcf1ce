package handler

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/shift-scheduler/internal/core/employee"
	"github.com/rs/cors"
)

// accessLog はリクエストごとに 1 行の構造化ログを出力します。RequestID の後に登録します。
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// forwardCredential は受信した Authorization ヘッダーをディレクトリ呼び出し用にコンテキストへ載せます。
func forwardCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("Authorization"); token != "" {
			r = r.WithContext(employee.ContextWithCredential(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware は許可オリジンが設定されている場合のみ CORS ヘッダーを付与します。
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", chimiddleware.RequestIDHeader},
		ExposedHeaders: []string{"Location"},
	})
	return c.Handler
}
