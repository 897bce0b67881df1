// Package api exposes the HTTP adapter over the store. It owns
// routing, body parsing, bearer-token plumbing and status mapping; all
// invariants live in the store.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"example.com/healthtrack/internal/auth"
	"example.com/healthtrack/internal/domain"
	"example.com/healthtrack/internal/store"
)

// Handler coordinates HTTP requests with the store.
type Handler struct {
	store *store.Store
}

// NewHandler builds a Handler.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", health)
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/user", h.user)
	mux.HandleFunc("/user/profile", h.userProfile)
	mux.HandleFunc("/user/bmi", h.userBMI)
	mux.HandleFunc("/waters", h.waters)
	mux.HandleFunc("/waters/", h.waterByID)
	mux.HandleFunc("/sleeps", h.sleeps)
	mux.HandleFunc("/sleeps/", h.sleepByID)
	mux.HandleFunc("/activities", h.activitiesRoot)
	mux.HandleFunc("/activities/", h.activityByID)
	mux.HandleFunc("/category/list", h.categoryList)
	mux.HandleFunc("/category/create", h.categoryCreate)
	mux.HandleFunc("/category/", h.categoryByPath)
}

// health reports a simple OK status for container health checks.
func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type credentialsRequest struct {
	Name     string  `json:"name"`
	Password string  `json:"password"`
	Age      int     `json:"age"`
	WeightKg float64 `json:"weightKg"`
	HeightM  float64 `json:"heightM"`
	Gender   string  `json:"gender"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Name == "" || req.Password == "" || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	err := h.store.Register(store.RegisterInput{
		Name:     req.Name,
		Age:      req.Age,
		WeightKg: req.WeightKg,
		HeightM:  req.HeightM,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, "Missing or invalid fields")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Registration logs the user straight in, as the frontend expects.
	token, err := h.store.Login(req.Name, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal error when generating token")
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing name or password")
		return
	}

	token, err := h.store.Login(req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid name or password")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// profileView mirrors the original emission order of the profile body.
type profileView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Gender   string  `json:"gender"`
	WeightKg float64 `json:"weightKg"`
	HeightM  float64 `json:"heightM"`
	Age      int     `json:"age"`
}

func toProfileView(p domain.UserProfile) profileView {
	return profileView{
		ID:       p.ID,
		Name:     p.Name,
		Gender:   p.Gender,
		WeightKg: p.WeightKg,
		HeightM:  p.HeightM,
		Age:      p.Age,
	}
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	token, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization token")
		return
	}
	if err := h.store.DeleteUser(token); err != nil {
		writeStoreError(w, err, "Profile not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization token")
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.store.Profile(token)
		if err != nil {
			writeStoreError(w, err, "Profile not found")
			return
		}
		writeJSON(w, http.StatusOK, toProfileView(profile))
	case http.MethodPatch:
		var req struct {
			Age      *int     `json:"age"`
			WeightKg *float64 `json:"weightKg"`
			HeightM  *float64 `json:"heightM"`
			Gender   *string  `json:"gender"`
			Password *string  `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		profile, err := h.store.UpdateProfile(token, store.ProfileUpdate{
			Age:      req.Age,
			WeightKg: req.WeightKg,
			HeightM:  req.HeightM,
			Gender:   req.Gender,
			Password: req.Password,
		})
		if err != nil {
			writeStoreError(w, err, "Profile not found")
			return
		}
		writeJSON(w, http.StatusOK, toProfileView(profile))
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) userBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}
	token, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing or invalid Authorization token")
		return
	}

	bmi, err := h.store.BMI(token)
	if err != nil {
		// An unusable profile and a missing one look the same here.
		writeStoreError(w, err, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"bmi": bmi})
}

// writeStoreError maps the store's error taxonomy onto status codes.
// notFoundMsg customises the 404 body per endpoint, matching the
// original server's wording.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid name or password")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"errorMessage": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
