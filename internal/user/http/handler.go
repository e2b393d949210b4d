package http

import (
	"net/http"
	"time"

	commonhttp "github.com/okovalenko/bloglist/internal/common/http"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/user/domain"
	"github.com/okovalenko/bloglist/internal/user/service"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Name     string `json:"name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=3,max=72"`
}

// userResponse carries public fields only; the password digest never
// crosses this boundary.
type userResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Blogs    []string `json:"blogs"`
}

type Handler struct {
	users *service.Service
	log   *logger.Logger
}

func NewHandler(users *service.Service, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{users: users, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", commonhttp.WithTimeout(timeout)(h.handleUsers))
	return mux
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func toUserResponse(u domain.User) userResponse {
	blogs := u.BlogIDs
	if blogs == nil {
		blogs = []string{}
	}
	return userResponse{
		ID:       string(u.ID),
		Username: u.Username,
		Name:     u.Name,
		Blogs:    blogs,
	}
}
