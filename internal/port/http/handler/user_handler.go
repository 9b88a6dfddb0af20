package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agrolease/agrolease-backend/internal/entity"
	"github.com/agrolease/agrolease-backend/internal/port/http/middleware"
	"github.com/agrolease/agrolease-backend/internal/usecase"
)

type UserHandler struct {
	uc     *usecase.UserUseCase
	logger *zap.Logger
}

func NewUserHandler(uc *usecase.UserUseCase, logger *zap.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: logger}
}

type registerRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"`
	Address  *entity.Address `json:"address"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	user, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     entity.Role(req.Role),
		Address:  req.Address,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	token, user, err := h.uc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the authenticated caller's own account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	user, err := h.uc.GetByID(r.Context(), actor.ID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *entity.Address `json:"address"`
}

// UpdateProfile updates the caller's own account.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	h.updateUser(w, r, actor.ID)
}

// UpdateUser updates the account in the path. Callers may update themselves;
// anyone else requires the admin role.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Authentication required"})
		return
	}
	userID := chi.URLParam(r, "id")
	if userID != actor.ID && !actor.IsAdmin() {
		writeError(h.logger, w, usecase.ErrForbidden)
		return
	}
	h.updateUser(w, r, userID)
}

func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request, userID string) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}
	user, err := h.uc.UpdateProfile(r.Context(), userID, usecase.UpdateProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListUsers pages through accounts. Admin only (enforced by the router).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, err := positiveIntParam(params.Get("page"), "page", 1)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	limit, err := positiveIntParam(params.Get("limit"), "limit", 10)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	out, err := h.uc.ListUsers(r.Context(), entity.Role(params.Get("role")), page, limit)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.uc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

func positiveIntParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrValidation, name, raw)
	}
	return v, nil
}
