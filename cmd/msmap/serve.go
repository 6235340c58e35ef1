package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-msmap/pkg/graphql"
	"github.com/dd0wney/cluso-msmap/pkg/loader"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the map session to a rendering client over GraphQL",
		Long:  "Serves POST /graphql and GET /metrics. With map.watch set, the map is\nreloaded whenever the document changes.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			schema, err := graphql.GenerateSchema(a.session)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("/graphql", graphql.NewGraphQLHandler(schema, a.logger))
			mux.Handle("/metrics", metricsHandler(a))

			srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("serving map", logging.String("addr", addr), logging.String("session", a.session.ID()))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			if a.cfg.Map.Watch {
				go func() {
					err := loader.Watch(ctx, a.cfg.Map.Path, loader.WatchOptions{
						Debounce: a.cfg.Map.WatchDebounce,
						Logger:   a.logger,
					}, func(doc *mapmodel.Document) {
						a.session.LoadDocument(doc)
					})
					if err != nil {
						a.logger.Error("map watch stopped", logging.Error(err))
					}
				}()
			}

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}),
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

func metricsHandler(a *app) http.Handler {
	handler := promhttp.HandlerFor(a.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.metrics.UpdateSystemMetrics()
		handler.ServeHTTP(w, r)
	})
}
