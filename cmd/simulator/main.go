// Simulator serves standalone normalize and score endpoints with the same
// deterministic behavior as the in-process simulated client, so the HTTP
// transport can be exercised end to end on localhost.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/mama165/sdk-go/logs"

	"user-flag/enrichment"
)

type normalizeRequest struct {
	Text string `json:"text"`
}

type normalizeResponse struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

func main() {
	port := flag.Int("port", 9000, "Port to listen on")
	level := flag.String("level", "INFO", "Log level")
	flag.Parse()

	log := logs.GetLoggerFromString(*level)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /normalize", handleNormalize(log))
	mux.HandleFunc("POST /score", handleScore(log))

	address := fmt.Sprintf(":%d", *port)
	log.Info("Simulator listening", "address", address)
	if err := http.ListenAndServe(address, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func handleNormalize(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req normalizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		time.Sleep(enrichment.DeterministicDelay(req.Text))

		info := whatlanggo.Detect(req.Text)
		log.Debug("Normalized", "lang", info.Lang.Iso6391(), "len", len(req.Text))
		writeJSON(w, http.StatusOK, normalizeResponse{
			Text: enrichment.NormalizeText(req.Text),
			Lang: info.Lang.Iso6391(),
		})
	}
}

func handleScore(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed JSON body", http.StatusBadRequest)
			return
		}

		time.Sleep(enrichment.DeterministicDelay(req.Text))

		score := enrichment.DeterministicScore(req.Text)
		log.Debug("Scored", "score", score)
		writeJSON(w, http.StatusOK, scoreResponse{Score: score})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
