package httpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/blackmichael/redproxy/internal/config"
	"github.com/blackmichael/redproxy/internal/domain"
	"github.com/blackmichael/redproxy/internal/live"
	"github.com/blackmichael/redproxy/internal/reddit"
)

// Server is the HTTP server that serves normalized upstream content as JSON.
type Server struct {
	cfg        *config.Config
	listings   *domain.ListingService
	subscriber *live.Subscriber
	logger     *slog.Logger
	upgrader   websocket.Upgrader
	handler    http.Handler
	httpServer *http.Server
}

// NewServer creates a new HTTP server backed by the given listing service.
func NewServer(cfg *config.Config, listings *domain.ListingService, subscriber *live.Subscriber, logger *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		listings:   listings,
		subscriber: subscriber,
		logger:     logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /preferences", s.handlePreferences)
	mux.HandleFunc("GET /{$}", s.handleFrontPage)
	mux.HandleFunc("GET /r/{sub}", s.handleSubreddit)
	mux.HandleFunc("GET /r/{sub}/{sort}", s.handleSubreddit)
	mux.HandleFunc("GET /r/{sub}/about", s.handleSubredditAbout)
	mux.HandleFunc("GET /r/{sub}/comments/{id}", s.handleThread)
	mux.HandleFunc("GET /r/{sub}/comments/{id}/{title}", s.handleThread)
	mux.HandleFunc("GET /r/{sub}/comments/{id}/{title}/{comment}", s.handleThread)
	mux.HandleFunc("GET /user/{name}", s.handleUser)
	mux.HandleFunc("GET /user/{name}/about", s.handleUserAbout)
	mux.HandleFunc("GET /live/{id}", s.handleLive)
	s.handler = withLogging(logger, mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's routed handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.NewPreferences(requestSettings{r}))
}

// listingResponse is a page of posts after the request's filters.
type listingResponse struct {
	Posts       []domain.Post `json:"posts"`
	After       string        `json:"after,omitempty"`
	Filtered    uint64        `json:"filtered"`
	AllFiltered bool          `json:"all_filtered"`
}

func (s *Server) handleFrontPage(w http.ResponseWriter, r *http.Request) {
	prefs := domain.NewPreferences(requestSettings{r})

	base := ""
	if len(prefs.Subscriptions) > 0 && prefs.FrontPage != "default" {
		base = "/r/" + strings.Join(prefs.Subscriptions, "+")
	}
	s.serveListing(w, r, prefs, base)
}

func (s *Server) handleSubreddit(w http.ResponseWriter, r *http.Request) {
	if sort := r.PathValue("sort"); sort != "" && !domain.ValidSort(sort) {
		writeError(w, http.StatusNotFound, "NotFound", "unknown listing sort "+strconv.Quote(sort))
		return
	}
	prefs := domain.NewPreferences(requestSettings{r})
	s.serveListing(w, r, prefs, "/r/"+url.PathEscape(r.PathValue("sub")))
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	prefs := domain.NewPreferences(requestSettings{r})
	s.serveListing(w, r, prefs, "/user/"+url.PathEscape(r.PathValue("name")))
}

func (s *Server) serveListing(w http.ResponseWriter, r *http.Request, prefs domain.Preferences, base string) {
	q := r.URL.Query()
	params := domain.ListingParams{
		Sort:   firstNonEmpty(r.PathValue("sort"), q.Get("sort"), prefs.PostSort),
		T:      q.Get("t"),
		After:  q.Get("after"),
		Before: q.Get("before"),
	}
	path := params.Path(base)

	posts, after, err := s.listings.FetchPosts(r.Context(), path, bypassRestriction(r))
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}

	if s.cfg.SFWOnly {
		if n := domain.FilterNSFW(&posts); n > 0 {
			s.logger.Debug("dropped nsfw posts", "path", path, "count", n)
		}
	}
	filtered, allFiltered := domain.FilterPosts(&posts, prefs.FilterSet())

	writeJSON(w, http.StatusOK, listingResponse{
		Posts:       posts,
		After:       after,
		Filtered:    filtered,
		AllFiltered: allFiltered,
	})
}

func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	prefs := domain.NewPreferences(requestSettings{r})
	sub, id, comment := r.PathValue("sub"), r.PathValue("id"), r.PathValue("comment")

	path := fmt.Sprintf("/r/%s/comments/%s", url.PathEscape(sub), url.PathEscape(id))
	if comment != "" {
		path += "/_/" + url.PathEscape(comment)
	}
	path += ".json"
	if sort := firstNonEmpty(r.URL.Query().Get("sort"), prefs.CommentSort); sort != "" {
		path += "?" + url.Values{"sort": {sort}}.Encode()
	}

	thread, err := s.listings.FetchThread(r.Context(), path, domain.ThreadOptions{
		Quarantine:  bypassRestriction(r),
		Highlighted: comment,
		Filters:     prefs.FilterSet(),
	})
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	if s.cfg.SFWOnly && thread.Post.NSFW {
		writeError(w, http.StatusForbidden, "NSFWDisabled", "nsfw content is disabled on this instance")
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleSubredditAbout(w http.ResponseWriter, r *http.Request) {
	sub, err := s.listings.FetchSubreddit(r.Context(), url.PathEscape(r.PathValue("sub")), bypassRestriction(r))
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	if s.cfg.SFWOnly && sub.NSFW {
		writeError(w, http.StatusForbidden, "NSFWDisabled", "nsfw content is disabled on this instance")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleUserAbout(w http.ResponseWriter, r *http.Request) {
	user, err := s.listings.FetchUser(r.Context(), url.PathEscape(r.PathValue("name")))
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	if s.cfg.SFWOnly && user.NSFW {
		writeError(w, http.StatusForbidden, "NSFWDisabled", "nsfw content is disabled on this instance")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleLive upgrades the client connection and forwards the live counter
// updates of a post until either side goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	posts, _, err := s.listings.FetchPosts(r.Context(), "/by_id/t3_"+url.PathEscape(id)+".json", bypassRestriction(r))
	if err != nil {
		s.writeFetchError(w, r, err)
		return
	}
	if len(posts) == 0 || posts[0].WSURL == "" {
		writeError(w, http.StatusNotFound, "NotFound", "post has no live feed")
		return
	}
	wsURL := posts[0].WSURL

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		s.logger.Warn("websocket upgrade failed", "request_id", requestID(r), "error", err)
		return
	}
	defer conn.Close()
	// the server's write timeout does not apply to streams
	conn.UnderlyingConn().SetDeadline(time.Time{})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the client never sends data; a read error means it left
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = s.subscriber.Follow(ctx, wsURL, func(u live.Update) error {
		return conn.WriteJSON(u)
	})
	if err != nil && ctx.Err() == nil {
		s.logger.Error("live stream failed", "request_id", requestID(r), "post", id, "error", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "live feed unavailable"))
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// writeFetchError maps pipeline failures to responses. Missing and
// forbidden upstream content keeps its status; any other upstream failure
// is a bad gateway.
func (s *Server) writeFetchError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("fetch failed", "request_id", requestID(r), "path", r.URL.Path, "error", err)

	var statusErr *reddit.StatusError
	if errors.As(err, &statusErr) && isClientStatus(statusErr.StatusCode) {
		writeError(w, statusErr.StatusCode, "UpstreamError", statusErr.Error())
		return
	}
	var apiErr *reddit.APIError
	if errors.As(err, &apiErr) && isClientStatus(int(apiErr.Code)) {
		writeError(w, int(apiErr.Code), "UpstreamError", apiErr.Error())
		return
	}

	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) {
		writeError(w, http.StatusBadGateway, "FetchError", fetchErr.Msg)
		return
	}
	writeError(w, http.StatusInternalServerError, "InternalError", "failed to fetch content")
}

func isClientStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusNotFound
}

// bypassRestriction reports whether the request opted into quarantined or
// gated communities.
func bypassRestriction(r *http.Request) bool {
	switch r.URL.Query().Get("quarantine") {
	case "1", "true", "on":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]string{
		"error":   errType,
		"message": message,
	})
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades through the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.status = http.StatusSwitchingProtocols
	return http.NewResponseController(w.ResponseWriter).Hijack()
}
