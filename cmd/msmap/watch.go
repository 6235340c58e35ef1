package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-msmap/pkg/loader"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/mapmodel"
)

func watchCmd() *cobra.Command {
	var metricsAddr string
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the map whenever the document changes and print the filtered view",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				srv := serveMetrics(a, metricsAddr)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			fmt.Println(renderResult(flags.apply(cmd, a)))

			return loader.Watch(ctx, a.cfg.Map.Path, loader.WatchOptions{
				Debounce: a.cfg.Map.WatchDebounce,
				Logger:   a.logger,
			}, func(doc *mapmodel.Document) {
				report := a.session.LoadDocument(doc)
				for _, issue := range report.Issues {
					fmt.Println(warnStyle.Render("  ! " + issue.Error()))
				}
				fmt.Println()
				fmt.Println(renderResult(a.session.Visible()))
			})
		}),
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	flags.register(cmd)
	return cmd
}

func serveMetrics(a *app, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler(a))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", logging.Error(err))
		}
	}()
	a.logger.Info("serving metrics", logging.String("addr", addr))
	return srv
}
