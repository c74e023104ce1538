package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/welcomedesk/userservice/internal/services"
	"github.com/welcomedesk/userservice/types"
)

const userIDParam = "userID"

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	userService *services.UserService
	logger      *slog.Logger
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{userService: userService, logger: logger}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, logger *slog.Logger) {
	handler := NewUserHandler(userService, logger)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Post("/welcome-emails", handler.SendWelcomeEmails)
	r.Route("/{"+userIDParam+"}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, UserListResponse{Items: users, Total: len(users)})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, userIDParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, found, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to fetch user", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		h.fail(w, r, "failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, userIDParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, found, err := h.userService.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		h.fail(w, r, "failed to update user", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) SendWelcomeEmails(w http.ResponseWriter, r *http.Request) {
	sent, err := h.userService.SendBulkWelcomeEmails(r.Context())
	if err != nil {
		h.fail(w, r, "failed to send welcome emails", err)
		return
	}
	writeJSON(w, http.StatusOK, WelcomeEmailsResponse{Sent: sent})
}

func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.WarnContext(r.Context(), message, "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, message)
}

type UserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserListResponse struct {
	Items []types.User `json:"items"`
	Total int          `json:"total"`
}

type WelcomeEmailsResponse struct {
	Sent bool `json:"sent"`
}
