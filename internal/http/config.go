package http

import (
	"github.com/galmuri/galmuri/internal/auth"
	"github.com/galmuri/galmuri/internal/config"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router.
type RouterConfig struct {
	Service CaptureService

	AuthMiddleware *auth.Middleware
	CORS           config.CORS

	Version string
}
