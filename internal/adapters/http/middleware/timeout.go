package middleware

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
)

var errRequestTimeout = fmt.Errorf("request timed out: %w", context.DeadlineExceeded)

// Timeout bounds each request by d; a non-positive d disables it.
//
// The handler runs in its own goroutine against a buffered writer and its
// context carries the deadline, so an action that is still running sees the
// cancellation and rolls back its pending steps. When d elapses first the
// buffered response is dropped and the client gets a 504 Problem Details
// response; later writes by the handler fail with http.ErrHandlerTimeout.
// A panic in the handler is re-raised on the serving goroutine so Recovery
// still handles it.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			bw := &bufferedWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
						return
					}
					close(done)
				}()
				next.ServeHTTP(bw, r.WithContext(ctx))
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				bw.commit(w)
			case <-ctx.Done():
				bw.abandon()
				dto.WriteErrorResponse(w, r, errRequestTimeout)
			}
		})
	}
}

// bufferedWriter holds a handler's response until Timeout decides whether
// to send it. The header map is only read after the handler returned.
type bufferedWriter struct {
	header http.Header

	mu        sync.Mutex
	status    int
	body      bytes.Buffer
	abandoned bool
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.abandoned || b.status != 0 {
		return
	}
	b.status = code
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.abandoned = true
}

// commit sends the buffered response to w.
func (b *bufferedWriter) commit(w http.ResponseWriter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	maps.Copy(w.Header(), b.header)
	if b.status != 0 {
		w.WriteHeader(b.status)
	}
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
