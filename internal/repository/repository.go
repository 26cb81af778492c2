package repository

import (
	"context"
	"errors"

	"github.com/Dan9191/cfo-dashboard/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("already exists")
)

// Repository provides storage for every dashboard entity
type Repository interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	GetFinancialSnapshot(ctx context.Context, userID string) (*models.FinancialSnapshot, error)
	UpsertFinancialSnapshot(ctx context.Context, snap *models.FinancialSnapshot) error

	GetTaxOptimization(ctx context.Context, userID string) (*models.TaxOptimization, error)
	UpsertTaxOptimization(ctx context.Context, opt *models.TaxOptimization) error

	CreateNewsArticle(ctx context.Context, article *models.NewsArticle) error
	ListNewsArticles(ctx context.Context, userID string, limit int) ([]models.NewsArticle, error)

	CreateInsight(ctx context.Context, insight *models.Insight) error
	ListInsights(ctx context.Context, userID string, limit int) ([]models.Insight, error)

	ListIntegrations(ctx context.Context, userID string) ([]models.Integration, error)
	UpsertIntegration(ctx context.Context, integration *models.Integration) error
}
