package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/reelhub/reelhub/internal/model"
	"github.com/reelhub/reelhub/internal/repository"
	"github.com/reelhub/reelhub/internal/validation"
)

const (
	SessionCookieName = "auth_token"
	SessionTTL        = 30 * 24 * time.Hour
	sessionIssuer     = "reelhub"
)

// LoginMethod is either CredentialsLogin or FederatedLogin.
type LoginMethod interface {
	loginMethod()
}

type CredentialsLogin struct {
	Email    string
	Password string
}

// FederatedLogin is a verified identity handed over by an OAuth provider.
type FederatedLogin struct {
	Provider  string
	Email     string
	Name      string
	AvatarURL string
}

func (CredentialsLogin) loginMethod() {}
func (FederatedLogin) loginMethod()   {}

// Identity is the normalized result of every login method.
type Identity struct {
	UserID   string
	Email    string
	Provider string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	userRepository repository.UserRepository
	hasher         PasswordHasher
	emailService   *EmailService
	jwtSecret      []byte
	isProduction   bool
	now            func() time.Time
}

func NewAuthService(
	userRepository repository.UserRepository,
	hasher PasswordHasher,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		hasher:         hasher,
		emailService:   emailService,
		jwtSecret:      []byte(jwtSecret),
		isProduction:   isProduction,
		now:            time.Now,
	}
}

// Register creates a credentials account. The password is hashed exactly once.
func (s *AuthService) Register(ctx context.Context, email, password, confirmPassword string) (*model.User, error) {
	email = strings.TrimSpace(email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError("%s", err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, validationError("%s", err.Error())
	}

	_, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, persistenceError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		Name:         defaultName(email),
		Provider:     model.ProviderCredentials,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// lost a race with a concurrent registration
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, persistenceError(err)
	}

	slog.Info("user registered", "user_id", user.ID)

	if s.emailService != nil {
		err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

// Authenticate is the single dispatch point for every login method.
func (s *AuthService) Authenticate(ctx context.Context, method LoginMethod) (*Identity, error) {
	switch m := method.(type) {
	case CredentialsLogin:
		return s.authenticateCredentials(ctx, m)
	case FederatedLogin:
		return s.authenticateFederated(ctx, m)
	default:
		return nil, fmt.Errorf("unsupported login method %T", method)
	}
}

func (s *AuthService) authenticateCredentials(ctx context.Context, login CredentialsLogin) (*Identity, error) {
	email := strings.TrimSpace(login.Email)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if login.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, persistenceError(err)
	}

	if !user.HasPassword() {
		return nil, ErrPasswordlessAccount
	}

	if !s.hasher.Verify(login.Password, *user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &Identity{UserID: user.ID, Email: user.Email, Provider: model.ProviderCredentials}, nil
}

// authenticateFederated provisions a user on first login and otherwise reuses the
// record keyed by email, syncing display name and avatar.
func (s *AuthService) authenticateFederated(ctx context.Context, login FederatedLogin) (*Identity, error) {
	email := strings.TrimSpace(login.Email)
	if email == "" {
		return nil, validationError("%s did not provide a verified email address", login.Provider)
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, persistenceError(err)
	}

	if user == nil {
		user, err = s.provisionFederated(ctx, email, login)
		if err != nil {
			return nil, err
		}
	} else {
		s.syncProfile(ctx, user, login)
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", login.Provider)
	return &Identity{UserID: user.ID, Email: user.Email, Provider: login.Provider}, nil
}

func (s *AuthService) provisionFederated(ctx context.Context, email string, login FederatedLogin) (*model.User, error) {
	name := strings.TrimSpace(login.Name)
	if name == "" {
		name = defaultName(email)
	}

	now := s.now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		AvatarURL: login.AvatarURL,
		Provider:  login.Provider,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// a concurrent login created the record first
		existing, lookupErr := s.userRepository.ByEmail(ctx, email)
		if lookupErr != nil {
			return nil, persistenceError(lookupErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, persistenceError(err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", login.Provider)
	return user, nil
}

func (s *AuthService) syncProfile(ctx context.Context, user *model.User, login FederatedLogin) {
	name := strings.TrimSpace(login.Name)
	if name == "" {
		name = user.Name
	}
	avatarURL := login.AvatarURL
	if avatarURL == "" {
		avatarURL = user.AvatarURL
	}
	if name == user.Name && avatarURL == user.AvatarURL {
		return
	}

	err := s.userRepository.UpdateProfile(ctx, user.ID, name, avatarURL, s.now().UTC())
	if err != nil {
		slog.Warn("failed to sync OAuth profile", "error", err, "user_id", user.ID)
		return
	}
	user.Name = name
	user.AvatarURL = avatarURL
}

// IssueSession signs a token carrying only the user id and a 30 day expiry.
func (s *AuthService) IssueSession(userID string) (*Session, error) {
	now := s.now()
	expiresAt := now.Add(SessionTTL)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &Session{Token: tokenString, ExpiresAt: expiresAt}, nil
}

// VerifySession returns the user id of a valid token. Any failure is Unauthorized.
func (s *AuthService) VerifySession(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", &Error{Kind: KindUnauthorized, Message: ErrUnauthorized.Message, Err: err}
	}

	if claims.Subject == "" {
		return "", ErrUnauthorized
	}

	return claims.Subject, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsProduction reports whether cookies are issued with the Secure flag.
func (s *AuthService) IsProduction() bool {
	return s.isProduction
}

func defaultName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
