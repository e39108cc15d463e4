package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/reelhub/reelhub/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var errOAuthFailed = &service.Error{Kind: service.KindUpstream, Message: "OAuth authentication failed. Please try again."}

// ProviderEndpoints locates an identity provider's token and profile APIs.
type ProviderEndpoints struct {
	OAuth oauth2.Endpoint
	API   string
}

var (
	GitHubEndpoints = ProviderEndpoints{OAuth: github.Endpoint, API: "https://api.github.com"}
	GoogleEndpoints = ProviderEndpoints{OAuth: google.Endpoint, API: "https://www.googleapis.com/oauth2/v2"}
)

// OAuthProvider is one configured identity provider.
type OAuthProvider struct {
	name   string
	config *oauth2.Config
	// profile reads the verified identity with an authorized client
	profile func(ctx context.Context, client *http.Client) (service.FederatedLogin, error)
}

func NewGitHubProvider(clientID, clientSecret, appURL string, endpoints ProviderEndpoints) *OAuthProvider {
	api := strings.TrimSuffix(endpoints.API, "/")
	return &OAuthProvider{
		name: "github",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  appURL + "/auth/github/callback",
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoints.OAuth,
		},
		profile: func(ctx context.Context, client *http.Client) (service.FederatedLogin, error) {
			return githubProfile(ctx, client, api)
		},
	}
}

func NewGoogleProvider(clientID, clientSecret, appURL string, endpoints ProviderEndpoints) *OAuthProvider {
	api := strings.TrimSuffix(endpoints.API, "/")
	return &OAuthProvider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  appURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: endpoints.OAuth,
		},
		profile: func(ctx context.Context, client *http.Client) (service.FederatedLogin, error) {
			return googleProfile(ctx, client, api)
		},
	}
}

// identity exchanges the authorization code and fetches the user's profile.
func (p *OAuthProvider) identity(ctx context.Context, code string) (service.FederatedLogin, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", p.name, "error", err)
		return service.FederatedLogin{}, &service.Error{Kind: errOAuthFailed.Kind, Message: errOAuthFailed.Message, Err: err}
	}

	login, err := p.profile(ctx, p.config.Client(ctx, token))
	if err != nil {
		slog.Error("failed to get oauth profile", "provider", p.name, "error", err)
		return service.FederatedLogin{}, &service.Error{Kind: errOAuthFailed.Kind, Message: errOAuthFailed.Message, Err: err}
	}

	login.Provider = p.name
	return login, nil
}

func githubProfile(ctx context.Context, client *http.Client, api string) (service.FederatedLogin, error) {
	var user struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, api+"/user", &user); err != nil {
		return service.FederatedLogin{}, err
	}

	// private emails are only listed by /user/emails
	if user.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, api+"/user/emails", &emails); err != nil {
			return service.FederatedLogin{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				user.Email = e.Email
				break
			}
		}
	}

	if user.Email == "" {
		return service.FederatedLogin{}, errors.New("github returned no verified primary email")
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return service.FederatedLogin{Email: user.Email, Name: name, AvatarURL: user.AvatarURL}, nil
}

func googleProfile(ctx context.Context, client *http.Client, api string) (service.FederatedLogin, error) {
	var info struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, api+"/userinfo", &info); err != nil {
		return service.FederatedLogin{}, err
	}

	if info.Email == "" || !info.VerifiedEmail {
		return service.FederatedLogin{}, errors.New("google returned no verified email")
	}

	return service.FederatedLogin{Email: info.Email, Name: info.Name, AvatarURL: info.Picture}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
