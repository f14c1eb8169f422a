package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for discovery requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(e *env) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Post("/discover", handleDiscover(e))

	return r
}

// discoverRequest is a brief plus the option to qualify the results in the
// same request.
type discoverRequest struct {
	model.Brief
	Qualify bool `json:"qualify"`
}

// streamLine is one NDJSON line: a progress event, an error, or the final
// result document.
type streamLine struct {
	Type      string                 `json:"type"`
	Event     *model.ProgressEvent   `json:"event,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Result    *model.DiscoveryResult `json:"result,omitempty"`
	Qualified []model.QualifiedLead  `json:"qualified,omitempty"`
}

// handleDiscover runs the cascade for a posted brief, streaming progress
// events as NDJSON and finishing with a result line.
func handleDiscover(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req discoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if len(req.Markets) == 0 {
			http.Error(w, `{"error":"markets is required"}`, http.StatusBadRequest)
			return
		}
		if req.TargetCount <= 0 {
			req.TargetCount = cfg.Discovery.DefaultTargetCount
		}
		if req.SearchDepth == "" {
			req.SearchDepth = model.SearchDepth(cfg.Discovery.DefaultDepth)
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)

		flusher, _ := w.(http.Flusher)
		enc := json.NewEncoder(w)
		var mu sync.Mutex
		writeLine := func(line streamLine) {
			mu.Lock()
			defer mu.Unlock()
			_ = enc.Encode(line)
			if flusher != nil {
				flusher.Flush()
			}
		}
		onProgress := func(ev model.ProgressEvent) {
			writeLine(streamLine{Type: "progress", Event: &ev})
		}

		res, err := e.discover.Run(r.Context(), req.Brief, onProgress)
		if err != nil {
			writeLine(streamLine{Type: "error", Error: err.Error()})
			return
		}

		final := streamLine{Type: "result", Result: res}
		if req.Qualify {
			qres, err := e.qualifier.Qualify(r.Context(), res.Contacts, qualifyConfigForBrief(req.Brief), onProgress)
			if err != nil {
				writeLine(streamLine{Type: "error", Error: err.Error()})
				return
			}
			final.Qualified = qres.Qualified
		}
		writeLine(final)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
