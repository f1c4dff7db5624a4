package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	sitepages "github.com/goliatone/go-sitepages"
	"github.com/goliatone/go-sitepages/cmd/internal/bootstrap"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("sitepages server: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sitepages-server", flag.ExitOnError)
	opts := bootstrap.RegisterFlags(fs)
	addr := fs.String("addr", ":8080", "Address the API listens on")
	basePath := fs.String("base-path", "/api", "Path the page API is mounted under")
	seed := fs.Bool("seed", true, "Create default documents for schemas without one")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.BasePath = *basePath

	module, err := moduleBuilder(*opts)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	if *seed {
		created, err := module.SeedPages(ctx)
		if err != nil {
			return fmt.Errorf("seed pages: %w", err)
		}
		log.Printf("seeded %d page(s)", len(created))
	}

	router, err := newRouter(module)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving page API on %s%s", *addr, *basePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRouter(module *sitepages.Module) (http.Handler, error) {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if err := module.AdminAPI().Register(r); err != nil {
		return nil, fmt.Errorf("register admin api: %w", err)
	}
	return r, nil
}
