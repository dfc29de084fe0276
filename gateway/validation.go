package gateway

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
)

// validateConfig checks the required session config fields and returns the
// parsed endpoint URL. Every failure maps onto ErrInvalidConfig so hosts
// get one error class for malformed configuration.
func validateConfig(cfg Config) (*url.URL, error) {
	if strings.TrimSpace(cfg.GameID) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "gameId is required")
	}
	if strings.TrimSpace(cfg.TargetID) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "targetId is required")
	}
	if strings.TrimSpace(cfg.UserID) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "userId is required")
	}
	if cfg.ResolveBalance == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "a balance resolver is required")
	}
	if strings.TrimSpace(cfg.EndpointURL) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "endpoint URL is required")
	}

	endpoint, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "endpoint URL %q", cfg.EndpointURL)
	}
	if err := channel.ValidateEndpoint(endpoint); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "endpoint URL %q", cfg.EndpointURL)
	}
	return endpoint, nil
}
