package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/repository"
)

// Minimum gap between two alerts to the same user
const alertCooldown = 24 * time.Hour

// CheckRunwayAlerts emails every user whose runway is under the configured
// threshold. It returns the number of alerts sent.
func (s *Service) CheckRunwayAlerts(ctx context.Context) (int, error) {
	if s.alerts == nil {
		return 0, nil
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	now := s.now()
	s.pruneAlerted(now)
	for i := range users {
		u := &users[i]
		if u.Email == "" || !s.dueForAlert(u.ID, now) {
			continue
		}
		snap, err := s.repo.GetFinancialSnapshot(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return sent, err
		}
		if snap.RunwayMonths.IsUnbounded() || float64(snap.RunwayMonths) >= s.config.RunwayAlertMonths {
			continue
		}
		if err := s.alerts.SendRunwayAlert(u.Email, u, snap); err != nil {
			s.log.Warnf("Runway alert for user %s not sent: %v", u.ID, err)
			continue
		}
		s.markAlerted(u.ID, now)
		sent++
	}
	return sent, nil
}

func (s *Service) dueForAlert(userID string, now time.Time) bool {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()
	last, ok := s.alerted[userID]
	return !ok || now.Sub(last) >= alertCooldown
}

func (s *Service) markAlerted(userID string, now time.Time) {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()
	s.alerted[userID] = now
}

// pruneAlerted forgets users whose cooldown has passed
func (s *Service) pruneAlerted(now time.Time) {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()
	for id, last := range s.alerted {
		if now.Sub(last) >= alertCooldown {
			delete(s.alerted, id)
		}
	}
}
