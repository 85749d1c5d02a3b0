package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// profile is the normalized identity returned by a provider's user
// info endpoint.
type profile struct {
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// OAuthProvider wraps an oauth2.Config together with the provider's
// user info endpoint and response parser.
type OAuthProvider struct {
	Name string

	config      oauth2.Config
	userInfoURL string
	parse       func([]byte) (profile, error)
}

// NewGoogleProvider returns the Google identity provider.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: "google",
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
			RedirectURL:  redirectURL,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		parse:       parseGoogleProfile,
	}
}

// NewGitHubProvider returns the GitHub identity provider.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *OAuthProvider {
	return &OAuthProvider{
		Name: "github",
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
			RedirectURL:  redirectURL,
		},
		userInfoURL: "https://api.github.com/user",
		parse:       parseGitHubProfile,
	}
}

// AuthorizationURL returns the provider's consent page URL carrying the
// given state parameter.
func (p *OAuthProvider) AuthorizationURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for tokens and fetches the
// user's profile. Returns the provider-side user ID, email, display
// name and avatar URL.
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code string) (providerID, email, name, avatarURL string, err error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", "", "", "", fmt.Errorf("auth.ExchangeCode: %w", err)
	}

	resp, err := p.config.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return "", "", "", "", fmt.Errorf("auth.ExchangeCode: fetching user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", "", "", fmt.Errorf("auth.ExchangeCode: user info returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", "", "", fmt.Errorf("auth.ExchangeCode: reading user info: %w", err)
	}

	pr, err := p.parse(body)
	if err != nil {
		return "", "", "", "", err
	}

	return pr.ProviderID, pr.Email, pr.Name, pr.AvatarURL, nil
}

func parseGoogleProfile(data []byte) (profile, error) {
	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return profile{}, fmt.Errorf("auth.parseGoogleProfile: %w", err)
	}

	return profile{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
	}, nil
}

func parseGitHubProfile(data []byte) (profile, error) {
	var info struct {
		ID        int    `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return profile{}, fmt.Errorf("auth.parseGitHubProfile: %w", err)
	}

	// GitHub profiles often leave the display name blank.
	name := info.Name
	if name == "" {
		name = info.Login
	}

	return profile{
		ProviderID: strconv.Itoa(info.ID),
		Email:      info.Email,
		Name:       name,
		AvatarURL:  info.AvatarURL,
	}, nil
}
