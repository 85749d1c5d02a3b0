package v1

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tackboard/tack/internal/auth"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
)

type RegisterInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		Name     string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

type OAuthAuthorizeInput struct {
	Provider string `path:"provider" enum:"google,github" doc:"OAuth provider"`
	State    string `query:"state" doc:"Opaque state echoed back on callback"`
}

type OAuthAuthorizeOutput struct {
	Body struct {
		AuthorizationURL string `json:"authorization_url"`
	}
}

type OAuthStatusOutput struct {
	Body struct {
		Providers []string `json:"providers" doc:"Names of enabled OAuth providers"`
	}
}

type OAuthCallbackInput struct {
	Provider string `path:"provider" enum:"google,github" doc:"OAuth provider"`
	Code     string `query:"code" required:"true" doc:"Authorization code"`
	State    string `query:"state" doc:"Opaque state from the authorize step"`
}

type OAuthCallbackOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
		IsNewUser    bool         `json:"is_new_user"`
	}
}

// RegisterAuthRoutes registers the unauthenticated auth endpoints:
// signup, login, token refresh and the OAuth flow.
func RegisterAuthRoutes(api huma.API, authSvc AuthService, providers map[string]*auth.OAuthProvider, dispatcher EventDispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("user already exists")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}

		_, pair, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		dispatcher.Dispatch(ctx, events.Welcome{UserID: user.ID, UserEmail: user.Email})

		user.PasswordHash = ""

		out := &RegisterOutput{}
		out.Body.User = user
		out.Body.AccessToken = pair.AccessToken
		out.Body.RefreshToken = pair.RefreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		user, pair, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or password")
			}
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		user.PasswordHash = ""

		out := &LoginOutput{}
		out.Body.User = user
		out.Body.AccessToken = pair.AccessToken
		out.Body.RefreshToken = pair.RefreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-status",
		Method:      http.MethodGet,
		Path:        "/auth/oauth",
		Summary:     "List configured OAuth providers",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*OAuthStatusOutput, error) {
		names := make([]string, 0, len(providers))
		for name := range providers {
			names = append(names, name)
		}
		sort.Strings(names)

		out := &OAuthStatusOutput{}
		out.Body.Providers = names
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-authorize",
		Method:      http.MethodGet,
		Path:        "/auth/oauth/{provider}",
		Summary:     "Get the OAuth authorization URL for a provider",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *OAuthAuthorizeInput) (*OAuthAuthorizeOutput, error) {
		provider, ok := providers[input.Provider]
		if !ok {
			return nil, huma.Error404NotFound("unknown or unconfigured provider")
		}

		out := &OAuthAuthorizeOutput{}
		out.Body.AuthorizationURL = provider.AuthorizationURL(input.State)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "oauth-callback",
		Method:      http.MethodGet,
		Path:        "/auth/oauth/{provider}/callback",
		Summary:     "Complete an OAuth login",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *OAuthCallbackInput) (*OAuthCallbackOutput, error) {
		provider, ok := providers[input.Provider]
		if !ok {
			return nil, huma.Error404NotFound("unknown or unconfigured provider")
		}

		providerID, email, name, avatarURL, err := provider.ExchangeCode(ctx, input.Code)
		if err != nil {
			return nil, huma.Error401Unauthorized("OAuth exchange failed")
		}

		user, pair, isNew, err := authSvc.OAuthLogin(ctx, provider.Name, providerID, email, name, avatarURL)
		if err != nil {
			return nil, huma.Error500InternalServerError("OAuth login failed", err)
		}

		if isNew {
			dispatcher.Dispatch(ctx, events.Welcome{UserID: user.ID, UserEmail: user.Email})
		}

		user.PasswordHash = ""

		out := &OAuthCallbackOutput{}
		out.Body.User = user
		out.Body.AccessToken = pair.AccessToken
		out.Body.RefreshToken = pair.RefreshToken
		out.Body.IsNewUser = isNew
		return out, nil
	})
}

type MeOutput struct {
	Body *domain.User
}

// RegisterUserRoutes registers the authenticated user endpoints.
func RegisterUserRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the authenticated user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*MeOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		user, err := authSvc.GetUser(ctx, userID)
		if err != nil {
			return nil, huma.Error404NotFound("user not found")
		}

		user.PasswordHash = ""
		return &MeOutput{Body: user}, nil
	})
}
