package http

import (
	"net/http"
	"strings"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/okovalenko/bloglist/internal/auth/identity"
	"github.com/okovalenko/bloglist/internal/auth/pipeline"
	"github.com/okovalenko/bloglist/internal/auth/token"
	"github.com/okovalenko/bloglist/internal/blog/domain"
	"github.com/okovalenko/bloglist/internal/blog/events"
	"github.com/okovalenko/bloglist/internal/blog/service"
	"github.com/okovalenko/bloglist/internal/common/constants"
	commonhttp "github.com/okovalenko/bloglist/internal/common/http"
	"github.com/okovalenko/bloglist/internal/common/logger"
)

type createBlogRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
}

type updateLikesRequest struct {
	Likes *int `json:"likes"`
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type blogResponse struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Author string         `json:"author"`
	URL    string         `json:"url"`
	Likes  int            `json:"likes"`
	UserID string         `json:"user_id"`
	User   *ownerResponse `json:"user,omitempty"`
}

type Handler struct {
	blogs        *service.Service
	hub          *events.Hub
	withIdentity func(http.HandlerFunc) http.HandlerFunc
	upgrader     gorillaWS.Upgrader
	timeout      time.Duration
	log          *logger.Logger
}

// NewHandler wires the blog routes. Create and delete run behind the
// identity pipeline; list, likes-update, stats and the event feed are
// public and never resolve identity.
func NewHandler(
	blogs *service.Service,
	hub *events.Hub,
	verifier *token.Verifier,
	resolver *identity.Resolver,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		blogs: blogs,
		hub:   hub,
		withIdentity: pipeline.Wrap(
			pipeline.VerifyStage(verifier),
			pipeline.ResolveStage(resolver),
		),
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
		},
		timeout: timeout,
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/blogs", h.handleCollection)
	mux.HandleFunc("/api/blogs/stats",
		commonhttp.RequireMethod(http.MethodGet)(commonhttp.WithTimeout(timeout)(h.stats)))
	mux.HandleFunc("/api/blogs/", h.handleItem)
	if hub != nil {
		mux.HandleFunc("/ws/blogs", h.handleFeed)
	}
	return mux
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		commonhttp.WithTimeout(h.timeout)(h.list)(w, r)
	case http.MethodPost:
		h.withIdentity(commonhttp.WithTimeout(h.timeout)(h.create))(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := blogIDFromPath(r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path", nil, "")
		return
	}

	if err := commonhttp.ValidateUUID(id); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidBlogID, "invalid blog id", nil, "")
		return
	}

	switch r.Method {
	case http.MethodDelete:
		h.withIdentity(commonhttp.WithTimeout(h.timeout)(h.remove(domain.ID(id))))(w, r)
	case http.MethodPut:
		commonhttp.WithTimeout(h.timeout)(h.updateLikes(domain.ID(id)))(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]blogResponse, 0, len(blogs))
	for _, b := range blogs {
		resp := toBlogResponse(b.Blog)
		resp.User = &ownerResponse{
			ID:       string(b.Owner.ID),
			Username: b.Owner.Username,
			Name:     b.Owner.Name,
		}
		out = append(out, resp)
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id, _ := pipeline.IdentityFromContext(r.Context())

	var req createBlogRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create blog failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	blog, err := h.blogs.Create(r.Context(), id, service.CreateInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toBlogResponse(blog))
}

func (h *Handler) remove(blogID domain.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pipeline.IdentityFromContext(r.Context())

		if err := h.blogs.Delete(r.Context(), id, blogID); err != nil {
			commonhttp.HandleError(w, r, err, h.log)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) updateLikes(blogID domain.ID) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateLikesRequest
		if err := commonhttp.DecodeJSON(r, &req); err != nil {
			h.log.Warnf("update likes failed: invalid json: %v", err)
			commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
			return
		}

		if req.Likes == nil {
			commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidLikes, "likes is required", nil, "")
			return
		}

		blog, err := h.blogs.UpdateLikes(r.Context(), blogID, *req.Likes)
		if err != nil {
			commonhttp.HandleError(w, r, err, h.log)
			return
		}

		commonhttp.WriteJSON(w, http.StatusOK, toBlogResponse(blog))
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.blogs.Stats(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}
	h.hub.ServeWS(h.upgrader, w, r)
}

func blogIDFromPath(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/api/blogs/")
	if rest == "" || rest == path || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func toBlogResponse(b domain.Blog) blogResponse {
	return blogResponse{
		ID:     string(b.ID),
		Title:  b.Title,
		Author: b.Author,
		URL:    b.URL,
		Likes:  b.Likes,
		UserID: string(b.OwnerID),
	}
}
