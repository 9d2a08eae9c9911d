// Package middleware provides HTTP middleware functions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	allowMethods = "GET, POST, DELETE, OPTIONS"
	allowHeaders = "Content-Type"
)

// CORSConfig lists the origins that may call the API. An origin is allowed
// when it equals one of Origins, is a localhost origin, or is served from
// CloudfrontDomain.
type CORSConfig struct {
	Origins          []string
	CloudfrontDomain string
}

// CORSMiddleware returns a CORS middleware for cfg.
func CORSMiddleware(cfg CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")

			if cfg.Allowed(origin) {
				h := c.Response().Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}

			// Handle preflight requests
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

// Allowed reports whether origin may call the API.
func (cfg CORSConfig) Allowed(origin string) bool {
	if origin == "" {
		return false
	}

	for _, o := range cfg.Origins {
		if o == origin {
			return true
		}
	}

	// Allow localhost for development
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
		return true
	}

	if cfg.CloudfrontDomain != "" && origin == "https://"+strings.TrimPrefix(cfg.CloudfrontDomain, "https://") {
		return true
	}

	return false
}
