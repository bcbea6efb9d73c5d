package services

import (
	"context"
	"strings"

	"github.com/skip2/go-qrcode"
)

// BaseURLProvider supplies the public address of the server
type BaseURLProvider interface {
	GetBaseURL(ctx context.Context) (string, error)
}

// DisplayService produces assets for the public display screen
type DisplayService struct {
	settings BaseURLProvider
}

// NewDisplayService creates a new DisplayService
func NewDisplayService(settings BaseURLProvider) *DisplayService {
	return &DisplayService{settings: settings}
}

// DisplayURL returns the public URL of the display page
func (s *DisplayService) DisplayURL(ctx context.Context) (string, error) {
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", ErrBaseURLNotConfigured
	}
	return strings.TrimSuffix(baseURL, "/") + "/display", nil
}

// DisplayQR generates a QR code PNG pointing at the display page, so guests
// can follow the draw on their phones
func (s *DisplayService) DisplayQR(ctx context.Context) ([]byte, error) {
	url, err := s.DisplayURL(ctx)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(url, qrcode.Medium, 256)
}
