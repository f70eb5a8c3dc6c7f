package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/davr-ledger/davr-ledger/internal/platform/httpx"
)

// Handler exposes key issuance, guarded by the deployment admin token.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	validate   *validator.Validate
	adminToken string
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, adminToken string) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		validate:   validator.New(),
		adminToken: adminToken,
	}
}

// MountRoutes attaches auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/keys", h.issueKey)
}

type issueKeyRequest struct {
	ExternalRef string `json:"external_ref" validate:"required,max=128"`
}

type issueKeyResponse struct {
	OwnerID string `json:"owner_id"`
	Token   string `json:"token"`
}

func (h *Handler) issueKey(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Admin-Token")
	if h.adminToken == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.adminToken)) != 1 {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "admin token required")
		return
	}

	var req issueKeyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	token, owner, err := h.service.Issue(r.Context(), req.ExternalRef)
	if err != nil {
		h.logger.Error("issue api key", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, issueKeyResponse{OwnerID: owner.ID, Token: token})
}
