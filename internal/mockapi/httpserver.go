package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/ctxutil"
)

type HTTPServer struct {
	srv  *http.Server
	done chan struct{}
}

// StartHTTP поднимает сервер и гасит его при отмене ctx.
func StartHTTP(ctx context.Context, addr string, h http.Handler, log *zap.Logger) *HTTPServer {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	hs := &HTTPServer{srv: srv, done: make(chan struct{})}

	go func() {
		defer close(hs.done)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("mockapi listen failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := ctxutil.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return hs
}

// Done закрывается, когда сервер перестал слушать.
func (s *HTTPServer) Done() <-chan struct{} { return s.done }
