package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

// IntegrationUpdate is the client payload for a platform status change
type IntegrationUpdate struct {
	Status      string          `json:"status"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	AccessToken string          `json:"access_token,omitempty"`
}

// Integrations lists the user's platform connections
func (s *Service) Integrations(ctx context.Context, userID string) ([]models.Integration, error) {
	rows, err := s.repo.ListIntegrations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Integration{}
	}
	return rows, nil
}

// UpdateIntegration sets the status of one platform, encrypting any access token
func (s *Service) UpdateIntegration(ctx context.Context, userID, platform string, up IntegrationUpdate) (*models.Integration, error) {
	if !models.ValidPlatform(platform) {
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}
	if !models.ValidStatus(up.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, up.Status)
	}
	if len(up.Metadata) > 0 && !json.Valid(up.Metadata) {
		return nil, fmt.Errorf("%w: metadata must be valid JSON", ErrInvalidInput)
	}

	token, err := s.cipher.Encrypt(up.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	in := &models.Integration{
		UserID:      userID,
		Platform:    platform,
		Status:      up.Status,
		Metadata:    up.Metadata,
		AccessToken: token,
	}
	if up.Status == models.StatusConnected {
		now := s.now()
		in.LastSync = &now
	}
	if err := s.repo.UpsertIntegration(ctx, in); err != nil {
		return nil, err
	}

	s.log.Infof("Integration %s for user %s set to %s", platform, userID, up.Status)
	return in, nil
}

// IntegrationToken returns the decrypted access token stored for a platform
func (s *Service) IntegrationToken(ctx context.Context, userID, platform string) (string, error) {
	rows, err := s.repo.ListIntegrations(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, r := range rows {
		if r.Platform == platform {
			return s.cipher.Decrypt(r.AccessToken)
		}
	}
	return "", fmt.Errorf("%w: no %s integration", ErrInvalidInput, platform)
}
