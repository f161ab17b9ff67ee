package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/etnz/capgains"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxBodySize bounds the trade batch accepted in a request.
const maxBodySize = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "capgains"})
}

// handleTaxes replays the batch of trades in the body and answers their taxes.
// The optional select query parameter is a JSONPath locating the trades in the
// body.
func (s *Server) handleTaxes(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Batch-ID", id)
	log := s.logger.With().
		Str("batch", id).
		Str("request", middleware.GetReqID(r.Context())).
		Logger()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		BatchesTotal.WithLabelValues("invalid").Inc()
		log.Info().Err(err).Msg("cannot read body")
		writeError(w, http.StatusBadRequest, capgains.ErrInvalidInput.Error())
		return
	}

	trades, err := capgains.DecodeTradesAt(body, r.URL.Query().Get("select"))
	if err != nil {
		BatchesTotal.WithLabelValues("invalid").Inc()
		log.Info().Err(err).Msg("rejected malformed batch")
		writeError(w, http.StatusBadRequest, capgains.ErrInvalidInput.Error())
		return
	}

	steps, err := capgains.Trace(s.rules, trades)
	if errors.Is(err, capgains.ErrInvalidOperation) {
		BatchesTotal.WithLabelValues("rejected").Inc()
		log.Info().Err(err).Msg("rejected batch")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		BatchesTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("cannot replay batch")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := capgains.EncodeTaxes(capgains.Taxes(steps))
	if err != nil {
		BatchesTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("cannot encode taxes")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, st := range steps {
		TradesTotal.WithLabelValues(st.Trade.Operation().String()).Inc()
	}
	BatchesTotal.WithLabelValues("ok").Inc()
	log.Debug().Int("trades", len(steps)).Msg("batch converted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
