package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/auth"
	"github.com/joshdurbin/linkbio/internal/domain"
	"github.com/joshdurbin/linkbio/internal/service"
)

// RedirectPrefix is the path under which short codes are served
const RedirectPrefix = "/l/"

const maxBodyBytes = 64 << 10

// Handler holds the HTTP handlers for redirects and the link API
type Handler struct {
	links      service.LinkService
	dispatcher service.Dispatcher
	baseURL    string
	logger     zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(links service.LinkService, dispatcher service.Dispatcher, baseURL string, logger zerolog.Logger) *Handler {
	return &Handler{
		links:      links,
		dispatcher: dispatcher,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// LinkResponse is a stored link with its public short URL
type LinkResponse struct {
	*domain.ShortLinkEntry
	ShortURL string `json:"short_url"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// Redirect handles GET /l/{shortCode}. Every visit ends in a 302; unresolvable codes go to the site root.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := mux.Vars(r)["shortCode"]

	// link unfurlers send HEAD; those are not clicks
	var out service.Outcome
	if r.Method == http.MethodHead {
		out = h.dispatcher.Peek(r.Context(), shortCode, r.UserAgent())
	} else {
		out = h.dispatcher.Dispatch(r.Context(), shortCode, r.UserAgent())
	}

	h.logger.Debug().
		Str("request_id", requestIDFrom(r.Context())).
		Str("short_code", shortCode).
		Str("outcome", string(out.Status)).
		Str("source", string(out.Source)).
		Msg("visit dispatched")

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, out.Location, http.StatusFound)
}

// CreateLink handles POST /api/links
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	var req domain.CreateLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.links.CreateLink(r.Context(), owner, req)
	if err != nil {
		h.fail(w, r, err, "failed to create link")
		return
	}

	writeJSON(w, http.StatusCreated, domain.CreateLinkResponse{
		ShortCode:   entry.ShortCode,
		ShortURL:    h.shortURL(entry.ShortCode),
		Kind:        entry.TargetKind,
		OriginalURL: entry.OriginalURL,
		CreatedAt:   entry.CreatedAt,
	})
}

// ListLinks handles GET /api/links
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	entries, err := h.links.ListLinks(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "failed to list links")
		return
	}

	writeJSON(w, http.StatusOK, h.linkResponses(entries))
}

// GetLink handles GET /api/links/{shortCode}
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	entry, err := h.links.GetLink(r.Context(), owner, mux.Vars(r)["shortCode"])
	if err != nil {
		h.fail(w, r, err, "failed to get link")
		return
	}

	writeJSON(w, http.StatusOK, LinkResponse{ShortLinkEntry: entry, ShortURL: h.shortURL(entry.ShortCode)})
}

// DeactivateLink handles DELETE /api/links/{shortCode}
func (h *Handler) DeactivateLink(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	if err := h.links.DeactivateLink(r.Context(), owner, mux.Vars(r)["shortCode"]); err != nil {
		h.fail(w, r, err, "failed to deactivate link")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDeeplinkConfig handles GET /api/links/{shortCode}/deeplink
func (h *Handler) GetDeeplinkConfig(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	cfg, err := h.links.GetDeeplinkConfig(r.Context(), owner, mux.Vars(r)["shortCode"])
	if err != nil {
		h.fail(w, r, err, "failed to get deeplink config")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// UpdateDeeplinkConfig handles PUT /api/links/{shortCode}/deeplink
func (h *Handler) UpdateDeeplinkConfig(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	var cfg domain.DeeplinkConfig
	if !decodeJSON(w, r, &cfg) {
		return
	}

	if err := h.links.UpdateDeeplinkConfig(r.Context(), owner, mux.Vars(r)["shortCode"], &cfg); err != nil {
		h.fail(w, r, err, "failed to update deeplink config")
		return
	}

	writeJSON(w, http.StatusOK, &cfg)
}

// CreateProfileLink handles POST /api/profile-links
func (h *Handler) CreateProfileLink(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	var req domain.CreateProfileLinkRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.links.CreateProfileLink(r.Context(), owner, req)
	if err != nil {
		h.fail(w, r, err, "failed to create profile link")
		return
	}

	writeJSON(w, http.StatusCreated, LinkResponse{ShortLinkEntry: entry, ShortURL: h.shortURL(entry.ShortCode)})
}

// ListProfileLinks handles GET /api/profile-links
func (h *Handler) ListProfileLinks(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerOf(w, r)
	if !ok {
		return
	}

	entries, err := h.links.ListProfileLinks(r.Context(), owner)
	if err != nil {
		h.fail(w, r, err, "failed to list profile links")
		return
	}

	writeJSON(w, http.StatusOK, h.linkResponses(entries))
}

// PreviewDeeplink handles POST /api/deeplinks/preview
func (h *Handler) PreviewDeeplink(w http.ResponseWriter, r *http.Request) {
	var req domain.PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.links.PreviewDeeplink(req)
	if err != nil {
		h.fail(w, r, err, "failed to preview deeplink")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.links.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		writeError(w, r, errUnavailable("database unreachable"))
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) shortURL(shortCode string) string {
	return h.baseURL + RedirectPrefix + shortCode
}

func (h *Handler) linkResponses(entries []*domain.ShortLinkEntry) []LinkResponse {
	out := make([]LinkResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, LinkResponse{ShortLinkEntry: entry, ShortURL: h.shortURL(entry.ShortCode)})
	}
	return out
}

// fail maps err to an API error, logging the ones the caller cannot fix
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error().
			Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("path", r.URL.Path).
			Msg(msg)
	}
	writeError(w, r, appErr)
}

func ownerOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := auth.OwnerFrom(r.Context())
	if !ok {
		writeError(w, r, errUnauthorized("no owner in request"))
	}
	return owner, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, errInvalidJSON("request body too large"))
			return false
		}
		writeError(w, r, errInvalidJSON(err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, appErr *AppError) {
	appErr.RequestID = requestIDFrom(r.Context())
	appErr.WriteJSON(w)
}
