package app

import (
	"github.com/samvad-hq/cloudspeakers-go/internal/config"
	"github.com/samvad-hq/cloudspeakers-go/internal/logger"
	"github.com/samvad-hq/cloudspeakers-go/pkg/cloudspeakers"
)

// NewAPIClient builds the Cloudspeakers client from config.
func NewAPIClient(cfg *config.Config, log logger.Logger) *cloudspeakers.Client {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return cloudspeakers.New(
		cloudspeakers.WithAPIKey(cfg.APIKey),
		cloudspeakers.WithBaseURL(cfg.BaseURL),
		cloudspeakers.WithTimeout(cfg.RequestTimeout),
		cloudspeakers.WithUserAgent(cfg.UserAgent),
		cloudspeakers.WithLogger(log),
	)
}
