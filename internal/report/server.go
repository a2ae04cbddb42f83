package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/banshee-data/diodeplot/internal/httputil"
	"github.com/banshee-data/diodeplot/internal/monitoring"
)

const shutdownTimeout = 5 * time.Second

// Handler serves the overlay as an HTML chart at / and as JSON at
// /data.json.
func Handler(o *Overlay) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httputil.NotFound(w, "not found")
			return
		}
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		var buf bytes.Buffer
		if err := RenderHTML(&buf, o); err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		httputil.WriteHTML(w, buf.Bytes())
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httputil.MethodNotAllowed(w)
			return
		}
		httputil.WriteJSONOK(w, o)
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		monitoring.Logf("got request %q", r.URL.Path)
		mux.ServeHTTP(w, r)
	})
}

// Serve displays the overlay on addr until ctx is cancelled, then shuts
// the server down with a grace period.
func Serve(ctx context.Context, addr string, o *Overlay) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serve(ctx, ln, o)
}

func serve(ctx context.Context, ln net.Listener, o *Overlay) error {
	server := &http.Server{
		Handler:           Handler(o),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	monitoring.Logf("serving chart on http://%s/", ln.Addr())

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("chart server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	monitoring.Logf("shutting down chart server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("chart server shutdown: %w", err)
	}
	return nil
}
