package http

import (
	"net/http"
	"time"

	"github.com/okovalenko/bloglist/internal/auth/service"
	commonhttp "github.com/okovalenko/bloglist/internal/common/http"
	"github.com/okovalenko/bloglist/internal/common/logger"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Handler struct {
	login   *service.LoginService
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(login *service.LoginService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{login: login, timeout: timeout, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login",
		commonhttp.RequireMethod(http.MethodPost)(
			commonhttp.WithTimeout(timeout)(h.handleLogin)))
	return mux
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	result, err := h.login.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		Username: result.Username,
		Name:     result.Name,
	})
}
