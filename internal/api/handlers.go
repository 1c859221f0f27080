package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/model"
	"tac_converter/internal/storage"
)

const maxBodyBytes = 1 << 20

// ConvertRequest is the request body of parse and lex. A text/plain body
// is taken as the TAC with options from the query string.
type ConvertRequest struct {
	TAC                  string `json:"tac"`
	Family               string `json:"family,omitempty"`
	Mode                 string `json:"mode,omitempty"`
	StatusPolicy         string `json:"status_policy,omitempty"`
	AllowMissingEndToken bool   `json:"allow_missing_end_token,omitempty"`
	SWXLabelEndLength    int    `json:"swx_label_end_length,omitempty"`
}

// ParseResponse is the JSON response of a parse.
type ParseResponse struct {
	ID string `json:"id,omitempty"`
	converter.Parsed
}

// SerializeRequest is the request body of serialize.
type SerializeRequest struct {
	Family            string          `json:"family"`
	Message           json.RawMessage `json:"message"`
	MaxLineLength     int             `json:"max_line_length,omitempty"`
	SWXLabelEndLength int             `json:"swx_label_end_length,omitempty"`
}

// LexResponse is the JSON response of lex.
type LexResponse struct {
	Family string                `json:"family"`
	Tokens []converter.TokenView `json:"tokens"`
}

// RecordResponse is a stored conversion.
type RecordResponse struct {
	ID         string          `json:"id"`
	ReceivedAt string          `json:"received_at"`
	IssuedAt   string          `json:"issued_at,omitempty"`
	Source     string          `json:"source"`
	Family     string          `json:"family"`
	Status     string          `json:"status"`
	Location   string          `json:"location,omitempty"`
	TAC        string          `json:"tac"`
	Message    json.RawMessage `json:"message,omitempty"`
	Issues     json.RawMessage `json:"issues"`
}

func recordToResponse(r *storage.Record) RecordResponse {
	resp := RecordResponse{
		ID:         r.ID.String(),
		ReceivedAt: r.ReceivedAt.UTC().Format(time.RFC3339),
		Source:     r.Source,
		Family:     r.Family,
		Status:     r.Status,
		Location:   r.Location,
		TAC:        r.RawTAC,
		Issues:     json.RawMessage(r.IssuesJSON),
	}
	if !r.IssuedAt.IsZero() {
		resp.IssuedAt = r.IssuedAt.UTC().Format(time.RFC3339)
	}
	if r.MessageJSON != "" {
		resp.Message = json.RawMessage(r.MessageJSON)
	}
	if r.IssuesJSON == "" {
		resp.Issues = json.RawMessage("[]")
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   s.clock.Now().UTC().Format(time.RFC3339),
	})
}

// readConvertRequest decodes a JSON or plain text request.
func readConvertRequest(w http.ResponseWriter, r *http.Request) (ConvertRequest, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return ConvertRequest{}, fmt.Errorf("read body: %w", err)
	}

	var req ConvertRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		q := r.URL.Query()
		req = ConvertRequest{
			TAC:                  string(body),
			Family:               q.Get("family"),
			Mode:                 q.Get("mode"),
			StatusPolicy:         q.Get("status_policy"),
			AllowMissingEndToken: q.Get("allow_missing_end_token") == "true",
		}
		if v := q.Get("swx_label_end_length"); v != "" {
			if req.SWXLabelEndLength, err = strconv.Atoi(v); err != nil {
				return ConvertRequest{}, errors.New("invalid swx_label_end_length")
			}
		}
	} else if err := json.Unmarshal(body, &req); err != nil {
		return ConvertRequest{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if strings.TrimSpace(req.TAC) == "" {
		return ConvertRequest{}, errors.New("tac is required")
	}
	return req, nil
}

// hints applies the request options to the server defaults.
func (s *Server) hints(req ConvertRequest) (conversion.Hints, error) {
	h := s.cfg.Hints
	var err error
	if req.Family != "" {
		if h.Family, err = conversion.ParseFamily(req.Family); err != nil {
			return h, err
		}
	}
	if req.Mode != "" {
		if h.Mode, err = conversion.ParseParsingMode(req.Mode); err != nil {
			return h, err
		}
	}
	if req.StatusPolicy != "" {
		if h.StatusPolicy, err = conversion.ParseStatusPolicy(req.StatusPolicy); err != nil {
			return h, err
		}
	}
	if req.AllowMissingEndToken {
		h.AllowMissingEndToken = true
	}
	if req.SWXLabelEndLength > 0 {
		h.SWXLabelEndLength = req.SWXLabelEndLength
	}
	return h, nil
}

func cacheKey(h conversion.Hints, tac string) string {
	return fmt.Sprintf("%d|%d|%d|%t|%d|%s", h.Mode, h.Family, h.StatusPolicy, h.AllowMissingEndToken, h.SWXLabelEndLength, tac)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, err := readConvertRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hints, err := s.hints(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(hints, req.TAC)
	parsed, hit := s.cache.Get(key)
	s.metrics.CacheLookup(hit)
	if !hit {
		parsed, err = s.conv.Parse(req.TAC, hints)
		if errors.Is(err, converter.ErrUnknownFamily) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.cache.Add(key, parsed)
	}
	if hit {
		// The cached result keeps the time of its first translation.
		at := hints.TranslationTime
		if at.IsZero() {
			at = s.clock.Now().UTC()
		}
		parsed.Message = model.Restamped(parsed.Message, at)
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	resp := ParseResponse{Parsed: parsed}
	if s.sink != nil {
		rec, err := storage.NewRecord(parsed, req.TAC, "api", s.clock.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := s.sink.Store(r.Context(), rec); err != nil {
			s.logger.Error("store conversion", "id", rec.ID, "error", err)
		} else {
			resp.ID = rec.ID.String()
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	var req SerializeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	family, err := conversion.ParseFamily(req.Family)
	if err != nil || family == conversion.FamilyUnknown {
		writeError(w, http.StatusBadRequest, "family is required")
		return
	}
	if len(req.Message) == 0 {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	msg, err := model.DecodeMessage(family, req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hints := s.cfg.Hints
	if req.MaxLineLength > 0 {
		hints.MaxLineLength = req.MaxLineLength
	}
	if req.SWXLabelEndLength > 0 {
		hints.SWXLabelEndLength = req.SWXLabelEndLength
	}
	writeJSON(w, http.StatusOK, s.conv.Serialize(msg, hints))
}

func (s *Server) handleLex(w http.ResponseWriter, r *http.Request) {
	req, err := readConvertRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hints, err := s.hints(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	seq := s.conv.Lex(req.TAC, hints)
	writeJSON(w, http.StatusOK, LexResponse{
		Family: s.conv.Family(req.TAC, hints).String(),
		Tokens: converter.Tokens(seq),
	})
}

func (s *Server) handleListLatest(w http.ResponseWriter, r *http.Request) {
	if s.latest == nil {
		writeError(w, http.StatusServiceUnavailable, "Latest message store not configured")
		return
	}
	location := strings.ToUpper(chi.URLParam(r, "location"))
	records, err := s.latest.ListLatest(r.Context(), location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "No messages found for location")
		return
	}
	results := make([]RecordResponse, 0, len(records))
	for i := range records {
		results = append(results, recordToResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	if s.latest == nil {
		writeError(w, http.StatusServiceUnavailable, "Latest message store not configured")
		return
	}
	location := strings.ToUpper(chi.URLParam(r, "location"))
	family, err := conversion.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := s.latest.GetLatest(r.Context(), location, family.String())
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No message found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

func (s *Server) handleQueryArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "Archive not configured")
		return
	}
	q := r.URL.Query()
	p := storage.QueryParams{
		Family:    strings.ToUpper(q.Get("family")),
		Status:    strings.ToUpper(q.Get("status")),
		Location:  strings.ToUpper(q.Get("location")),
		FullText:  q.Get("q"),
		HasIssues: q.Get("has_issues") == "true",
		OrderDesc: q.Get("order") != "asc",
	}
	var err error
	if v := q.Get("limit"); v != "" {
		if p.Limit, err = strconv.Atoi(v); err != nil || p.Limit < 0 || p.Limit > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be between 0 and 1000")
			return
		}
	}
	if v := q.Get("offset"); v != "" {
		if p.Offset, err = strconv.Atoi(v); err != nil || p.Offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}

	records, err := s.archive.Query(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	results := make([]RecordResponse, 0, len(records))
	for i := range records {
		results = append(results, recordToResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "Archive not configured")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	rec, err := s.archive.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "No conversion found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// Helper functions.

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
