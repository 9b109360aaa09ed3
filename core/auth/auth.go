package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sareeadmin.GO/config"
	"sareeadmin.GO/core/cache"
	"sareeadmin.GO/core/log"
	"sareeadmin.GO/core/supabase"
)

// tokenTTL is how long a validated access token is trusted without asking the auth service again.
const tokenTTL = time.Minute

const tokenTag = "auth:tokens"

// UserVerifier resolves an access token to its user.
type UserVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// Middleware returns the auth middleware based on AUTH_TYPE env var.
// verifier is only needed for AUTH_TYPE=supabase.
func Middleware(verifier UserVerifier, store *cache.Cache) echo.MiddlewareFunc {
	skipper := buildSkipper()
	switch config.GetEnv("AUTH_TYPE", "basic") {
	case "key":
		return keyAuth(config.GetEnv("API_KEY", ""), skipper)
	case "supabase":
		if verifier == nil {
			log.Fatal().Msg("AUTH_TYPE=supabase needs SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return tokenAuth(verifier, store, config.GetEnvList("ADMIN_EMAILS"), skipper)
	default:
		return basicAuth(config.GetEnv("API_USER", ""), config.GetEnv("API_PASS", ""), skipper)
	}
}

func buildSkipper() middleware.Skipper {
	skipPaths := config.GetAuthSkipperPaths()
	return func(c echo.Context) bool {
		path := c.Path()
		for _, skip := range skipPaths {
			if path == skip {
				return true
			}
		}
		return false
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func basicAuth(user, pass string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if user == "" {
				return false, nil
			}
			return equal(username, user) && equal(password, pass), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(apiKey string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return apiKey != "" && equal(key, apiKey), nil
		},
		Skipper: skipper,
	})
}

// tokenAuth accepts a Bearer access token issued by the backend's auth service.
// A non-empty allow-list restricts access to those emails.
func tokenAuth(verifier UserVerifier, store *cache.Cache, admins []string, skipper middleware.Skipper) echo.MiddlewareFunc {
	if store == nil {
		store = cache.NewCache()
	}
	allowed := make(map[string]bool, len(admins))
	for _, e := range admins {
		allowed[strings.ToLower(e)] = true
	}
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(token string, c echo.Context) (bool, error) {
			if v, ok := store.Get(tokenTag + "|" + token); ok {
				c.Set("user", v)
				return true, nil
			}
			user, err := verifier.GetUser(c.Request().Context(), token)
			if err != nil {
				log.Debug().Err(err).Msg("auth: token rejected")
				return false, nil
			}
			if len(allowed) > 0 && !allowed[strings.ToLower(user.Email)] {
				log.Warn().Str("email", user.Email).Msg("auth: user not in ADMIN_EMAILS")
				return false, nil
			}
			store.Set(tokenTag+"|"+token, user, tokenTTL, []string{tokenTag})
			c.Set("user", user)
			return true, nil
		},
		Skipper: skipper,
	})
}
