package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/session"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the registration payload
type RegisterInput struct {
	Username     string     `json:"username"`
	Password     string     `json:"password"`
	Email        string     `json:"email"`
	CompanyName  string     `json:"company_name"`
	Industry     string     `json:"industry"`
	FoundingDate *time.Time `json:"founding_date"`
}

const minPasswordLength = 6

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hashedPassword),
		CompanyName:  in.CompanyName,
		Industry:     strings.ToLower(strings.TrimSpace(in.Industry)),
		FoundingDate: in.FoundingDate,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)

	if s.config.SeedDemoData {
		if err := s.seedDemoData(ctx, user.ID); err != nil {
			s.log.Warnf("Failed to seed demo data for %s: %v", user.ID, err)
		}
	}
	return user, nil
}

// Login authenticates a user, opens a session and returns its signed token
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrUnauthorized
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrUnauthorized
	}

	sess := session.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.config.SessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, err
	}
	token, err := s.signer.Sign(sess)
	if err != nil {
		return "", nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return token, user, nil
}

// Authenticate resolves a session token to its user id
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	sid, uid, err := s.signer.Verify(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	sess, err := s.sessions.Lookup(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	if sess.UserID != uid {
		return "", ErrUnauthorized
	}
	return uid, nil
}

// Logout revokes the session behind token
func (s *Service) Logout(ctx context.Context, token string) error {
	sid, _, err := s.signer.Verify(token)
	if err != nil {
		return ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.log.Infof("Session closed: %s", sid)
	return nil
}

// Me returns the authenticated user
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// SweepSessions drops expired sessions
func (s *Service) SweepSessions(ctx context.Context) (int, error) {
	return s.sessions.Sweep(ctx)
}
