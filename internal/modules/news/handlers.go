package news

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles news HTTP requests
type Handler struct {
	repo   *Repository
	syncer Syncer
	log    zerolog.Logger
}

// Syncer triggers an immediate fetch-classify-store cycle.
type Syncer interface {
	Run() error
}

// NewHandler creates a new news handler
func NewHandler(repo *Repository, syncer Syncer, log zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		syncer: syncer,
		log:    log.With().Str("handler", "news").Logger(),
	}
}

// RegisterRoutes mounts the news endpoints
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/news", h.HandleListArticles)
	r.Get("/news/sources", h.HandleListSources)
	r.Get("/news/stats", h.HandleStats)
	r.Post("/news/refresh", h.HandleRefresh)
}

// HandleListArticles returns stored articles filtered by query parameters:
// topic, source, min_score, search, limit, offset.
func (h *Handler) HandleListArticles(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := Query{
		TopicID: params.Get("topic"),
		Source:  params.Get("source"),
		Search:  params.Get("search"),
	}
	if raw := params.Get("min_score"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.MinScore = n
		}
	}
	if raw := params.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Limit = n
		}
	}
	if raw := params.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Offset = n
		}
	}

	articles, err := h.repo.QueryArticles(q)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if articles == nil {
		articles = []StoredArticle{}
	}

	h.writeJSON(w, http.StatusOK, articles)
}

// HandleListSources returns distinct article sources.
func (h *Handler) HandleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.repo.Sources()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sources == nil {
		sources = []string{}
	}
	h.writeJSON(w, http.StatusOK, sources)
}

// HandleStats returns article totals per topic.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	total, byTopic, err := h.repo.Stats()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_articles": total,
		"by_topic":       byTopic,
	})
}

// HandleRefresh runs a sync cycle immediately.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.Run(); err != nil {
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
