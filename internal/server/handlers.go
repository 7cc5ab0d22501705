package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scoop/internal/services"
	"github.com/desertthunder/scoop/internal/shared"
)

// IceCreamHandler serves login, logout, and flavor routes backed by a [Store].
type IceCreamHandler struct {
	store  *Store
	logger *log.Logger
	mux    *http.ServeMux
}

// NewIceCreamHandler creates an [IceCreamHandler].
func NewIceCreamHandler(store *Store, logger *log.Logger) *IceCreamHandler {
	h := &IceCreamHandler{store: store, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /login", h.login)
	h.mux.HandleFunc("POST /logout", h.logout)
	h.mux.HandleFunc("GET /ice-cream", h.flavors)
	h.mux.HandleFunc("PUT /ice-cream/{flavor}", h.setFlavor)
	h.mux.HandleFunc("DELETE /ice-cream/{flavor}", h.deleteFlavor)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *IceCreamHandler) Routes() []string {
	return []string{
		"POST /login",
		"POST /logout",
		"GET /ice-cream",
		"PUT /ice-cream/{flavor}",
		"DELETE /ice-cream/{flavor}",
	}
}

// ServeHTTP dispatches to the matching route.
func (h *IceCreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *IceCreamHandler) login(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.store.Login(creds.Username, creds.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("logged in", "username", creds.Username)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, token)
}

func (h *IceCreamHandler) logout(w http.ResponseWriter, r *http.Request) {
	if !h.store.Logout(token(r)) {
		http.Error(w, shared.ErrNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IceCreamHandler) flavors(w http.ResponseWriter, r *http.Request) {
	flavors, err := h.store.Flavors(token(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(flavors); err != nil {
		h.logger.Error("failed to encode flavors", "error", err)
	}
}

func (h *IceCreamHandler) setFlavor(w http.ResponseWriter, r *http.Request) {
	var body services.FlavorCount
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.SetFlavor(token(r), r.PathValue("flavor"), body.Count); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *IceCreamHandler) deleteFlavor(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteFlavor(token(r), r.PathValue("flavor")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// token reads the Authorization header, with or without a Bearer prefix.
func token(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrFlavorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
