package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"meetgrid/core/constants"
	"meetgrid/core/controller"
	"meetgrid/core/errors"
	"meetgrid/core/logger"
	"meetgrid/core/utils"

	"github.com/labstack/echo/v4"
)

const HeaderAdminToken = "X-Admin-Token"

type Middleware struct {
	tokens     *utils.TokenManager
	limiter    *IPRateLimiter
	adminToken string
}

func NewMiddleware(tokens *utils.TokenManager, limiter *IPRateLimiter) *Middleware {
	return &Middleware{
		tokens:  tokens,
		limiter: limiter,
	}
}

// WithAdminToken sets the shared key checked by AdminMiddleware.
func (m *Middleware) WithAdminToken(token string) *Middleware {
	m.adminToken = token
	return m
}

// AdminMiddleware guards operator routes with the X-Admin-Token header. With no
// token configured every request passes, which suits local development.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.adminToken == "" {
				return next(c)
			}
			got := c.Request().Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(m.adminToken)) != 1 {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Invalid admin token")
			}
			return next(c)
		}
	}
}

// OrganizerMiddleware requires a bearer token issued for the event named by the
// :id path parameter.
func (m *Middleware) OrganizerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "Invalid authorization header format")
			}

			claims, err := m.tokens.Parse(raw)
			if err != nil {
				if err == utils.ErrTokenExpired {
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrTokenExpired, "Token expired")
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "Invalid token")
			}

			if claims.EventID != c.Param("id") {
				logger.Warn("Middleware:OrganizerMiddleware:EventMismatch", "token_event", claims.EventID, "path_event", c.Param("id"))
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "Token does not grant access to this event")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RateLimit throttles requests per client IP.
func (m *Middleware) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.limiter != nil && !m.limiter.Allow(c.RealIP()) {
				return controller.NewErrorResponse(http.StatusTooManyRequests, errors.ErrTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}

func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("HTTP",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"remote", c.RealIP(),
				"duration", time.Since(start).String(),
			)
			return nil
		}
	}
}
