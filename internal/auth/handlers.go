package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/aposta-facil/internal/analytics"
)

const (
	stateKeyPrefix = "oauthstate:"
	stateTTL       = 10 * time.Minute
)

// Handler expõe o fluxo de login OAuth e a sessão corrente
type Handler struct {
	log      *zap.Logger
	sessions *Sessions
	provider *Provider
	store    KVStore
	tracker  analytics.Tracker
}

func NewHandler(log *zap.Logger, sessions *Sessions, provider *Provider, store KVStore, tracker analytics.Tracker) *Handler {
	return &Handler{log: log, sessions: sessions, provider: provider, store: store, tracker: tracker}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/login", h.login)
	r.Get("/callback", h.callback)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	return r
}

// login gera o state anti-CSRF e redireciona pro provedor
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	if err := h.store.Set(r.Context(), stateKeyPrefix+state, "1", stateTTL); err != nil {
		h.log.Error("oauth state store", zap.Error(err))
		http.Error(w, "login unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// callback troca o code por identidade e emite a sessão
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		http.Error(w, "state and code required", http.StatusBadRequest)
		return
	}

	_, ok, err := h.store.Get(r.Context(), stateKeyPrefix+state)
	if err != nil {
		http.Error(w, "login unavailable", http.StatusServiceUnavailable)
		return
	}
	if !ok {
		http.Error(w, "unknown state", http.StatusBadRequest)
		return
	}
	_ = h.store.Del(r.Context(), stateKeyPrefix+state)

	id, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("oauth exchange", zap.Error(err))
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}

	token, err := h.sessions.Mint(r.Context(), id)
	if err != nil {
		h.log.Error("session mint", zap.Error(err))
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.tracker.Track(r.Context(), analytics.EventUserLogin, map[string]any{"email": id.Email})

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"email": id.Email,
		"name":  id.Name,
	})
}

// logout revoga a sessão corrente
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token == "" {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	if id, ok := FromContext(r.Context()); ok {
		h.tracker.Track(r.Context(), analytics.EventUserLogout, map[string]any{"email": id.Email})
	}
	w.WriteHeader(http.StatusNoContent)
}

// me retorna a identidade da sessão corrente
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		http.Error(w, "login required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
