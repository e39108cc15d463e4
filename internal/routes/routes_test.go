package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reelhub/reelhub/internal/app"
	"github.com/reelhub/reelhub/internal/config"
	"github.com/reelhub/reelhub/internal/handler"
	"github.com/reelhub/reelhub/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) http.Handler {
	t.Helper()

	cfg := &config.Config{
		AppName:              "Reelhub",
		AppEnv:               "development",
		AppURL:               "http://localhost:8090",
		DBDriver:             config.DriverSQLite,
		DBConnection:         filepath.Join(t.TempDir(), "reelhub.db"),
		JWTSecret:            testSecret,
		GitHubClientID:       "gh-id",
		GitHubClientSecret:   "gh-secret",
		ImageKitPrivateKey:   "private_key_test",
		ImageKitPublicKey:    "public_key_test",
		ImageKitUploadExpiry: 30 * time.Minute,
		AuthRateLimit:        1000,
		AuthRateWindow:       time.Minute,
	}
	if mutate != nil {
		mutate(cfg)
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return setupRoutes(a, handler.GitHubEndpoints, handler.GoogleEndpoints)
}

type envelope struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	Code          string            `json:"code"`
	Videos        []json.RawMessage `json:"videos"`
	Video         *videoJSON        `json:"video"`
	UploadedVideo *videoJSON        `json:"uploadedVideo"`
	Token         string            `json:"token"`
	UserID        string            `json:"userId"`
	PublicKey     string            `json:"publicKey"`
	AuthParams    *struct {
		Token     string `json:"token"`
		Expire    int64  `json:"expire"`
		Signature string `json:"signature"`
	} `json:"authenticationParameters"`
}

type videoJSON struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	OwnerID        string `json:"ownerId"`
	Controls       bool   `json:"controls"`
	Transformation struct {
		Height  int `json:"height"`
		Width   int `json:"width"`
		Quality int `json:"quality"`
	} `json:"transformation"`
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (c client) register(email, password, confirm string) (*httptest.ResponseRecorder, envelope) {
	return c.do(http.MethodPost, "/auth/register",
		`{"email":"`+email+`","password":"`+password+`","confirmPassword":"`+confirm+`"}`, "")
}

func (c client) login(email, password string) (*httptest.ResponseRecorder, envelope) {
	return c.do(http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
}

func (c client) signedIn(email string) string {
	c.t.Helper()
	rec, _ := c.register(email, "correct horse", "correct horse")
	require.Equal(c.t, http.StatusCreated, rec.Code)
	rec, env := c.login(email, "correct horse")
	require.Equal(c.t, http.StatusOK, rec.Code)
	require.NotEmpty(c.t, env.Token)
	return env.Token
}

const validVideo = `{
	"title": "Sunset",
	"description": "Timelapse over the bay",
	"videoUrl": "https://ik.imagekit.io/demo/sunset.mp4",
	"thumbnailUrl": "https://ik.imagekit.io/demo/sunset.jpg",
	"transformation": {"height": 100, "width": 100, "quality": 80}
}`

func TestRegistration(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}

	rec, env := c.register("ada@example.com", "correct horse", "correct horsf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", env.Code)
	assert.False(t, env.Success)

	// nothing was stored by the rejected attempt
	rec, _ = c.login("ada@example.com", "correct horse")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = c.register("ada@example.com", "correct horse", "correct horse")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.UserID)

	rec, env = c.register("ada@example.com", "another pass", "another pass")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", env.Message)

	rec, env = c.register("", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "Missing required fields")
}

func TestLogin(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}
	rec, _ := c.register("ada@example.com", "correct horse", "correct horse")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := c.login("ada@example.com", "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Token)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), service.SessionCookieName+"=")

	rec, env = c.login("ada@example.com", "wrong horse")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", env.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
	assert.Empty(t, env.Token)
}

func TestSession(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}
	token := c.signedIn("ada@example.com")

	rec, env := c.do(http.MethodGet, "/auth/session", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.UserID)

	rec, _ = c.do(http.MethodGet, "/auth/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = c.do(http.MethodPost, "/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestVideoFeed(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}

	rec, env := c.do(http.MethodGet, "/videos", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"videos":[]`)
	assert.Empty(t, env.Videos)

	// anonymous create is refused and stores nothing
	rec, env = c.do(http.MethodPost, "/videos", validVideo, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Code)
	_, env = c.do(http.MethodGet, "/videos", "", "")
	assert.Empty(t, env.Videos)

	token := c.signedIn("ada@example.com")

	rec, env = c.do(http.MethodPost, "/videos", validVideo, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, env.UploadedVideo)
	first := env.UploadedVideo
	assert.Equal(t, 1920, first.Transformation.Height)
	assert.Equal(t, 1080, first.Transformation.Width)
	assert.Equal(t, 80, first.Transformation.Quality)
	assert.True(t, first.Controls)
	assert.NotEmpty(t, first.OwnerID)

	time.Sleep(5 * time.Millisecond)
	rec, env = c.do(http.MethodPost, "/videos", strings.Replace(validVideo, "Sunset", "Sunrise", 1), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := env.UploadedVideo

	rec, env = c.do(http.MethodGet, "/videos", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Videos, 2)
	var head videoJSON
	require.NoError(t, json.Unmarshal(env.Videos[0], &head))
	assert.Equal(t, second.ID, head.ID)

	rec, env = c.do(http.MethodGet, "/videos/"+first.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sunset", env.Video.Title)

	rec, env = c.do(http.MethodGet, "/videos/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Code)
}

func TestCreateVideo_Validation(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}
	token := c.signedIn("ada@example.com")

	for name, body := range map[string]string{
		"missing fields": `{"title":"Sunset"}`,
		"relative url":   strings.Replace(validVideo, "https://ik.imagekit.io/demo/sunset.mp4", "/sunset.mp4", 1),
		"bad quality":    strings.Replace(validVideo, `"quality": 80`, `"quality": 0`, 1),
		"malformed":      `{"title":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, env := c.do(http.MethodPost, "/videos", body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", env.Code)
		})
	}

	_, env := c.do(http.MethodGet, "/videos", "", "")
	assert.Empty(t, env.Videos)
}

func TestExpiredOrForeignTokensAreRejected(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}
	c.signedIn("ada@example.com")

	sign := func(secret string, expiresAt time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "some-user",
			Issuer:    "reelhub",
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		})
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}

	for name, token := range map[string]string{
		"expired":      sign(testSecret, time.Now().Add(-time.Minute)),
		"wrong secret": sign("ffffffffffffffffffffffffffffffff", time.Now().Add(time.Hour)),
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			rec, _ := c.do(http.MethodPost, "/videos", validVideo, token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})

		t.Run(name+" cookie", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(validVideo))
			req.Header.Set("Content-Type", "application/json")
			req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
			rec := httptest.NewRecorder()
			c.handler.ServeHTTP(rec, req)

			// same answer as a request without any session
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
		})
	}
}

func TestStaleCookieDoesNotBlockLogin(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}
	c.signedIn("ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMediaEndpoints(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}

	rec, env := c.do(http.MethodGet, "/media/upload-auth", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public_key_test", env.PublicKey)
	require.NotNil(t, env.AuthParams)
	assert.NotEmpty(t, env.AuthParams.Token)
	assert.Len(t, env.AuthParams.Signature, 40)
	assert.Greater(t, env.AuthParams.Expire, time.Now().Unix())

	rec, env = c.do(http.MethodGet, "/media/upload-url?filename=clip.mp4&contentType=video/mp4", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Code)
}

func TestAuthRateLimit(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, func(cfg *config.Config) {
		cfg.AuthRateLimit = 2
	})}

	for range 2 {
		rec, _ := c.login("ada@example.com", "correct horse")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec, env := c.login("ada@example.com", "correct horse")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", env.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// reads are not limited
	rec, _ = c.do(http.MethodGet, "/videos", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}

	rec, env := c.do(http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, _ = c.do(http.MethodGet, "/auth/myspace", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCookieSessionWritesNeedCSRFToken(t *testing.T) {
	h := newTestServer(t, nil)
	c := client{t: t, handler: h}
	token := c.signedIn("ada@example.com")

	// any safe request hands out the csrf cookie
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos", nil))
	var csrf string
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "csrf_token" {
			csrf = cookie.Value
		}
	}
	require.NotEmpty(t, csrf)

	post := func(csrfHeader string) int {
		req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(validVideo))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
		req.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrf})
		if csrfHeader != "" {
			req.Header.Set("X-CSRF-Token", csrfHeader)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post(""))
	assert.Equal(t, http.StatusCreated, post(csrf))
}

func TestProbes(t *testing.T) {
	c := client{t: t, handler: newTestServer(t, nil)}

	rec, _ := c.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = c.do(http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestOAuthProvidersRegistered(t *testing.T) {
	tests := []struct {
		name       string
		google     bool
		wantGoogle int
	}{
		{name: "github only", wantGoogle: http.StatusNotFound},
		{name: "github and google", google: true, wantGoogle: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, func(cfg *config.Config) {
				if tt.google {
					cfg.GoogleClientID = "g-id"
					cfg.GoogleClientSecret = "g-secret"
				}
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
			assert.Equal(t, http.StatusFound, rec.Code)

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
			assert.Equal(t, tt.wantGoogle, rec.Code)
		})
	}
}
