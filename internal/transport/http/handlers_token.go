package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"userhub/internal/token"
	"userhub/internal/user/models"
	dErrors "userhub/pkg/domain-errors"
	"userhub/pkg/platform/httputil"
)

// TokenService is the slice of the token service the handler needs.
type TokenService interface {
	Issue(ctx context.Context, creds models.Credentials) (string, error)
	Validate(ctx context.Context, tokenString string) (*models.User, error)
}

type TokenHandler struct {
	tokens TokenService
	logger *slog.Logger
}

func NewTokenHandler(tokens TokenService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

func (h *TokenHandler) Register(r chi.Router) {
	r.Post("/jwt/", h.handleIssue)
	r.Get("/jwt/validate", h.handleValidate)
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *TokenHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	signed, err := h.tokens.Issue(r.Context(), creds)
	if err != nil {
		h.logger.WarnContext(r.Context(), "token issuance failed", "username", creds.Username, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tokenResponse{Token: signed})
}

func (h *TokenHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token query parameter is required"))
		return
	}

	user, err := h.tokens.Validate(r.Context(), tokenString)
	if err != nil {
		var decodeErr *token.DecodeError
		if errors.As(err, &decodeErr) {
			httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "invalid_token",
				"error_description": decodeErr.Error(),
			})
			return
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
