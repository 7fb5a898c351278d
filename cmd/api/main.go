package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"call-insights-go/internal/analyzer"
	"call-insights-go/internal/batch"
	"call-insights-go/internal/config"
	"call-insights-go/internal/llm"
	"call-insights-go/internal/logger"
	"call-insights-go/internal/notifier"
	"call-insights-go/internal/pipeline"
	"call-insights-go/internal/roster"
	"call-insights-go/internal/transcription"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "call-insights-go").Info("starting service")

	cfg := config.Load()

	agents, err := roster.Load(cfg.RosterPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load agent roster")
	}
	log.WithField("agents", agents.Size()).Info("agent roster loaded")

	var completer llm.Completer
	if cfg.MockLLM {
		log.Info("mock LLM mode ON")
		completer = llm.Canned{}
	} else {
		completer = llm.NewGateway(cfg.GatewayURL, cfg.GatewayKey, cfg.GatewayModel)
	}

	var transcriber analyzer.Transcriber
	if cfg.MockTranscribe {
		log.Info("mock transcription mode ON")
		transcriber = transcription.Mock{}
	} else {
		transcriber = transcription.NewClient(cfg.TranscribeURL)
	}

	alerts := notifier.New(&notifier.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.AlertFrom,
	}, cfg.AlertRecipient)

	system := analyzer.New(transcriber, pipeline.New(completer, agents), agents, alerts)

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// analyze one recording end to end
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "analyze")

		source := r.URL.Query().Get("source")
		if source == "" {
			reqLog.Warn("missing source")
			http.Error(w, "missing source", http.StatusBadRequest)
			return
		}
		notify := r.URL.Query().Get("notify") == "true"
		reqLog = reqLog.WithField("source", source)
		reqLog.Info("analyze request received")

		start := time.Now()
		transcripts := system.Transcribe(r.Context(), []string{source})
		if len(transcripts) == 0 {
			reqLog.Warn("transcription failed")
			http.Error(w, "transcription failed", http.StatusBadGateway)
			return
		}
		result := system.RunPipeline(r.Context(), 0)
		notified := false
		if notify && result.Success {
			notified = system.NotifyIfNeeded(result)
		}
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("success", result.Success).Info("analysis finished")

		writeJSON(w, map[string]any{"result": result, "notified": notified})
	})

	// resolve an agent/category pair against the roster
	mux.HandleFunc("/authorize", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("agent")
		category := r.URL.Query().Get("category")
		authorized, profile := system.ResolveAuthorization(name, category)
		writeJSON(w, map[string]any{
			"agent_name":    name,
			"category":      category,
			"is_authorized": authorized,
			"agent_profile": profile,
		})
	})

	// run the manifest batch (first N rows) for a quick demo
	mux.HandleFunc("/batch", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "batch")
		reqLog.Info("batch invoked")

		entries, err := batch.Load(cfg.ManifestPath)
		if err != nil {
			reqLog.WithError(err).Error("manifest load error")
			http.Error(w, "manifest load error", http.StatusInternalServerError)
			return
		}
		limit := 5
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if len(entries) < limit {
			limit = len(entries)
		}

		sources := make([]string, 0, limit)
		for _, e := range entries[:limit] {
			sources = append(sources, e.Source)
		}
		transcripts := system.Transcribe(r.Context(), sources)

		out := make([]any, 0, len(transcripts))
		for i := range transcripts {
			reqLog.WithField("batch_index", i).Info("processing batch call")
			out = append(out, system.RunPipeline(r.Context(), i))
		}
		writeJSON(w, out)
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, system.Stats())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logger.Component("api").WithError(err).Error("failed to write response")
	}
}
