package api

import (
	"encoding/json"
	"net/http"

	"github.com/campushub/backend/internal/api/respond"
	"github.com/campushub/backend/internal/api/validate"
	"github.com/campushub/backend/internal/services"
)

// UserHandler covers account creation, login, listing, and favourites.
type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

// Create POST /api/create/user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.CreateUser(in.Username, in.Email, in.Password); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateAccount(r.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// Login POST /api/login/user
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	res, err := h.svc.VerifyCredentials(r.Context(), in.Email, in.Password)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}

// List GET /api/show/user
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.ListUsers(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": us, "count": len(us)})
}

// FavouriteSongs GET /api/fetch/favourite/user/song?email=
func (h *UserHandler) FavouriteSongs(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	songs, err := h.svc.FavouriteSongs(r.Context(), email)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"favouriteSongs": songs})
}

// ToggleFavouriteSong POST /api/update/favourite/user/song
func (h *UserHandler) ToggleFavouriteSong(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email  string `json:"email"`
		SongID string `json:"song_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	res, err := h.svc.ToggleFavouriteSong(r.Context(), in.Email, in.SongID)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
