package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"news_gateway/internal/db"
	"news_gateway/internal/logger"
	"news_gateway/internal/middleware"
	"news_gateway/internal/models"
	"news_gateway/internal/ranking"
)

const (
	defaultLimit       = 10
	defaultCount       = 5
	defaultPerCategory = 3
	defaultHours       = 24
	defaultLatest      = 10
)

// Server хранит зависимости HTTP-обработчиков: движок ранжирования и хранилище.
type Server struct {
	engine  *ranking.Engine
	store   db.Store
	metrics middleware.RequestObserver
}

// NewServer создаёт Server. metrics может быть nil.
func NewServer(engine *ranking.Engine, store db.Store, metrics middleware.RequestObserver) *Server {
	return &Server{engine: engine, store: store, metrics: metrics}
}

// Routes регистрирует обработчики. Внешние middleware (request id, логирование)
// навешиваются вызывающей стороной.
func (s *Server) Routes(mux *http.ServeMux) {
	s.handle(mux, "GET /api/gateway/interesting", s.Interesting)
	s.handle(mux, "GET /api/gateway/interesting/diversified", s.InterestingDiversified)
	s.handle(mux, "GET /api/gateway/top-stories", s.TopStories)
	s.handle(mux, "GET /api/gateway/daily-digest", s.DailyDigest)
	s.handle(mux, "GET /api/gateway/trending/{section}", s.Trending)
	s.handle(mux, "GET /api/gateway/highlights", s.Highlights)
	s.handle(mux, "GET /api/gateway/breaking-news", s.BreakingNews)
	s.handle(mux, "GET /api/gateway/similar/{articleId}", s.Similar)
	s.handle(mux, "GET /api/gateway/statistics", s.Statistics)
	s.handle(mux, "GET /api/articles", s.SearchArticles)
	s.handle(mux, "GET /health", s.HealthCheck)
}

// Handler возвращает готовый обработчик со всеми маршрутами.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)
	return middleware.Chain(mux, middleware.RequestID, middleware.Logging)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	var h http.Handler = fn
	if s.metrics != nil {
		h = middleware.Metrics(s.metrics, pattern, h)
	}
	mux.Handle(pattern, h)
}

// HealthCheck отвечает 200 OK, если хранилище доступно, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		http.Error(w, "DB unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// Interesting возвращает limit самых интересных статей.
func (s *Server) Interesting(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultLimit)
	if !ok {
		return
	}
	articles, err := s.engine.InterestingArticles(r.Context(), limit)
	respond(w, r, articles, err)
}

// InterestingDiversified возвращает интересные статьи с ограничением на рубрику.
func (s *Server) InterestingDiversified(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultLimit)
	if !ok {
		return
	}
	articles, err := s.engine.InterestingArticlesDiversified(r.Context(), limit)
	respond(w, r, articles, err)
}

// TopStories возвращает count главных статей.
func (s *Server) TopStories(w http.ResponseWriter, r *http.Request) {
	count, ok := queryInt(w, r, "count", defaultCount)
	if !ok {
		return
	}
	articles, err := s.engine.TopStories(r.Context(), count)
	respond(w, r, articles, err)
}

// DailyDigest возвращает дайджест дня.
func (s *Server) DailyDigest(w http.ResponseWriter, r *http.Request) {
	articles, err := s.engine.DailyDigest(r.Context())
	respond(w, r, articles, err)
}

// Trending возвращает свежие статьи рубрики из пути.
func (s *Server) Trending(w http.ResponseWriter, r *http.Request) {
	count, ok := queryInt(w, r, "count", defaultCount)
	if !ok {
		return
	}
	articles, err := s.engine.TrendingBySection(r.Context(), r.PathValue("section"), count)
	respond(w, r, articles, err)
}

// Highlights возвращает подборку по фиксированным категориям.
func (s *Server) Highlights(w http.ResponseWriter, r *http.Request) {
	perCategory, ok := queryInt(w, r, "articlesPerCategory", defaultPerCategory)
	if !ok {
		return
	}
	highlights, err := s.engine.HighlightsByCategory(r.Context(), perCategory)
	respond(w, r, highlights, err)
}

// BreakingNews возвращает срочные новости за последние hours часов.
func (s *Server) BreakingNews(w http.ResponseWriter, r *http.Request) {
	hours, ok := queryInt(w, r, "hours", defaultHours)
	if !ok {
		return
	}
	articles, err := s.engine.RecentBreakingNews(r.Context(), hours)
	respond(w, r, articles, err)
}

// Similar возвращает статьи, похожие на articleId.
func (s *Server) Similar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("articleId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article id", http.StatusBadRequest)
		return
	}
	count, ok := queryInt(w, r, "count", defaultCount)
	if !ok {
		return
	}
	articles, err := s.engine.SimilarArticles(r.Context(), id, count)
	respond(w, r, articles, err)
}

// Statistics возвращает агрегаты по коллекции.
func (s *Server) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Statistics(r.Context())
	respond(w, r, stats, err)
}

// SearchArticles ищет статьи по первому заданному критерию:
// title, section, since, from+to или latest. Без параметров отдаёт последние статьи.
func (s *Server) SearchArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		articles []models.Article
		err      error
	)
	switch {
	case q.Get("title") != "":
		articles, err = s.store.FindByTitle(ctx, q.Get("title"))
	case q.Get("section") != "":
		articles, err = s.store.FindBySection(ctx, q.Get("section"))
	case q.Get("since") != "":
		since, perr := time.Parse(time.RFC3339, q.Get("since"))
		if perr != nil {
			http.Error(w, "Invalid time format", http.StatusBadRequest)
			return
		}
		articles, err = s.store.FindPublishedAfter(ctx, since)
	case q.Get("from") != "" || q.Get("to") != "":
		from, ferr := time.Parse(time.RFC3339, q.Get("from"))
		to, terr := time.Parse(time.RFC3339, q.Get("to"))
		if ferr != nil || terr != nil {
			http.Error(w, "Invalid time format", http.StatusBadRequest)
			return
		}
		articles, err = s.store.FindPublishedBetween(ctx, from, to)
	default:
		latest, ok := queryInt(w, r, "latest", defaultLatest)
		if !ok {
			return
		}
		articles, err = s.store.FindLatest(ctx, latest)
	}
	respond(w, r, articles, err)
}

// queryInt читает неотрицательный целый параметр. При ошибке пишет 400 и возвращает false.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		http.Error(w, fmt.Sprintf("Invalid %s parameter", name), http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func respond(w http.ResponseWriter, r *http.Request, payload any, err error) {
	if err != nil {
		logger.Component("server").WithField("request_id", middleware.RequestIDFrom(r.Context())).
			Errorf("Request %s failed: %v", r.URL.Path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
