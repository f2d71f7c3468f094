package server

import (
	"errors"
	"log"
	"net/http"

	"battle-features/internal/battle"
	"battle-features/internal/features"
	"battle-features/internal/table"

	json "github.com/goccy/go-json"
)

// ExtractResponse is the body of POST /api/extract
type ExtractResponse struct {
	Preset      string             `json:"preset"`
	Columns     []string           `json:"columns"`
	Records     []*features.Record `json:"records"`
	Duplicates  int                `json:"duplicates"`
	ParseErrors []string           `json:"parse_errors,omitempty"`
	Failed      []string           `json:"failed,omitempty"`
}

// IngestResponse is the body of POST /api/battles
type IngestResponse struct {
	Accepted int      `json:"accepted"`
	Rejected []string `json:"rejected,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[Server] Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"presets": features.PresetNames()})
}

// extractorFor resolves the preset query parameter into an extractor
func (s *Server) extractorFor(r *http.Request) (*features.Extractor, error) {
	cfg, err := s.cfg.Resolve(r.URL.Query().Get("preset"))
	if err != nil {
		return nil, err
	}
	return features.New(cfg, features.WithWorkers(s.cfg.Workers))
}

func presetStatus(err error) int {
	if errors.Is(err, features.ErrUnknownPreset) || errors.Is(err, features.ErrInvalidConfig) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleExtract turns a JSONL body into a feature table
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	extractor, err := s.extractorFor(r)
	if err != nil {
		respondError(w, presetStatus(err), err.Error())
		return
	}

	read, err := battle.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), "request", battle.NewDeduper(0))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := extractor.ExtractAll(r.Context(), read.Battles)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	tbl := table.Materialize(res.Records)
	resp := ExtractResponse{
		Preset:     extractor.Config().Name,
		Columns:    tbl.Columns,
		Records:    make([]*features.Record, tbl.Len()),
		Duplicates: read.Duplicates,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	for i := range tbl.Rows {
		resp.Records[i] = tbl.Record(i)
	}
	for _, le := range read.Errors {
		resp.ParseErrors = append(resp.ParseErrors, le.Error())
	}
	for _, be := range res.Errors {
		resp.Failed = append(resp.Failed, be.Error())
	}

	log.Printf("[Server] Extracted %d records (%d failed) with preset %s", len(resp.Records), len(resp.Failed), resp.Preset)
	respondJSON(w, http.StatusOK, resp)
}

// handleIngest validates JSONL battles and appends them to hot storage
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Rotator == nil {
		respondError(w, http.StatusServiceUnavailable, "ingest storage is not configured")
		return
	}

	read, err := battle.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), "request", nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := IngestResponse{}
	for _, le := range read.Errors {
		resp.Rejected = append(resp.Rejected, le.Error())
	}
	for i := range read.Battles {
		b := &read.Battles[i]
		if err := b.Validate(); err != nil {
			resp.Rejected = append(resp.Rejected, err.Error())
			continue
		}
		if err := s.cfg.Rotator.WriteBattle(b); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Accepted++
	}

	log.Printf("[Server] Ingested %d battles (%d rejected)", resp.Accepted, len(resp.Rejected))
	respondJSON(w, http.StatusAccepted, resp)
}
