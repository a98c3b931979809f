package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

const minPasswordLen = 8

// Handler exposes the register/login endpoints of the sketch service.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// credentials is the shared request body of both endpoints; DisplayName is
// only consulted on register.
type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if creds.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "displayName is required")
		return
	}
	if len(creds.Password) < minPasswordLen {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	result, err := h.service.Register(r.Context(), creds.Email, creds.Password, creds.DisplayName)
	switch {
	case errors.Is(err, ErrEmailTaken):
		respondError(w, http.StatusConflict, "email already registered")
	case err != nil:
		slog.Error("register failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	default:
		respond(w, http.StatusCreated, result)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		slog.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	default:
		respond(w, http.StatusOK, result)
	}
}

// decodeCredentials parses the body and enforces the fields both endpoints
// need. It writes the error response itself so callers just bail on !ok.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return credentials{}, false
	}
	if creds.Email == "" || creds.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return credentials{}, false
	}
	return creds, true
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}
