package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"billmaker/internal/common"
	"billmaker/internal/config"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const tokenContextKey = "user"

var errMissingSubject = errors.New("token has no subject")

// Authenticator verifies bearer tokens and places the token subject in the
// request context as the caller's user ID. Tokens are checked against a
// remote JWKS when one is configured, otherwise against a shared HMAC secret.
type Authenticator struct {
	jwks   *keyfunc.JWKS
	secret []byte
	logger *zap.Logger
}

func NewAuthenticator(cfg config.AuthConfig, logger *zap.Logger) (*Authenticator, error) {
	a := &Authenticator{logger: logger}

	if cfg.JWKSURL != "" {
		jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL, err)
		}
		a.jwks = jwks
		return a, nil
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("either a JWKS URL or a JWT secret is required")
	}
	a.secret = []byte(cfg.JWTSecret)
	return a, nil
}

// Middleware rejects requests without a valid token with the standard 401 envelope.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	jwtConfig := echojwt.Config{
		ContextKey: tokenContextKey,
		ErrorHandler: func(c echo.Context, err error) error {
			a.logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return common.SendUnauthorizedError(c)
		},
	}
	if a.jwks != nil {
		jwtConfig.KeyFunc = a.jwks.Keyfunc
	} else {
		jwtConfig.SigningKey = a.secret
	}

	verify := echojwt.WithConfig(jwtConfig)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(a.bindUser(next))
	}
}

func (a *Authenticator) bindUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		userID, err := subjectOf(token)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			return common.SendUnauthorizedError(c)
		}

		c.SetRequest(c.Request().WithContext(common.WithUserID(c.Request().Context(), userID)))
		return next(c)
	}
}

func subjectOf(token *jwt.Token) (string, error) {
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

// Close stops the background JWKS refresh.
func (a *Authenticator) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}
