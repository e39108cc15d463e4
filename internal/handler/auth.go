package handler

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelhub/reelhub/internal/ctxkeys"
	"github.com/reelhub/reelhub/internal/response"
	"github.com/reelhub/reelhub/internal/service"
)

const oauthStateCookie = "oauth_state"

type authHandler struct {
	authService *service.AuthService
	userService *service.UserService
	providers   map[string]*OAuthProvider
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, providers ...*OAuthProvider) *authHandler {
	h := &authHandler{
		authService: authService,
		userService: userService,
		providers:   make(map[string]*OAuthProvider),
	}
	for _, p := range providers {
		h.providers[p.name] = p
	}
	return h
}

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Envelope{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	identity, err := h.authService.Authenticate(r.Context(), service.CredentialsLogin{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.authService.IssueSession(identity.UserID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.authService.SetSessionCookie(w, session)
	slog.Info("user logged in", "user_id", identity.UserID, "provider", identity.Provider)

	response.JSON(w, http.StatusOK, response.Envelope{
		Success:   true,
		Message:   "Logged in successfully",
		Token:     session.Token,
		ExpiresAt: &session.ExpiresAt,
		UserID:    identity.UserID,
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Session reports who the current session belongs to.
func (h *authHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	user, err := h.userService.ByID(r.Context(), userID)
	if service.KindOf(err) == service.KindNotFound {
		// token outlived its user
		h.authService.ClearSessionCookie(w)
		response.Error(w, r, service.ErrUnauthorized)
		return
	}
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Envelope{
		Success: true,
		Message: "Session is valid",
		UserID:  user.ID,
		User:    user,
	})
}

// OAuthStart redirects to the provider's consent screen with a state cookie.
func (h *authHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		NotFound(w, r)
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		response.Error(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.authService.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.config.AuthCodeURL(state), http.StatusFound)
}

// OAuthCallback finishes the code flow and signs the user in.
func (h *authHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		NotFound(w, r)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", provider.name, "error", err)
		response.Error(w, r, service.ErrUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/auth/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", provider.name, "error", r.URL.Query().Get("error"))
		response.Error(w, r, service.ErrUnauthorized)
		return
	}

	login, err := provider.identity(r.Context(), code)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	identity, err := h.authService.Authenticate(r.Context(), login)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	session, err := h.authService.IssueSession(identity.UserID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.authService.SetSessionCookie(w, session)
	slog.Info("user logged in", "user_id", identity.UserID, "provider", identity.Provider)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func generateOAuthState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
