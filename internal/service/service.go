package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/Dan9191/cfo-dashboard/internal/finance"
	"github.com/Dan9191/cfo-dashboard/internal/insight"
	"github.com/Dan9191/cfo-dashboard/internal/integrations/newsfeed"
	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	"github.com/Dan9191/cfo-dashboard/internal/session"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	"github.com/Dan9191/cfo-dashboard/internal/utils"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnauthorized is returned for bad credentials and invalid or revoked sessions
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned for malformed requests that the core does not validate
	ErrInvalidInput = errors.New("invalid input")
)

// AlertSender delivers runway alerts
type AlertSender interface {
	SendRunwayAlert(to string, user *models.User, snap *models.FinancialSnapshot) error
}

// Deps are the collaborators of a Service. Provider, News and Alerts are optional.
type Deps struct {
	Repo     repository.Repository
	Sessions session.Store
	Signer   *session.Signer
	Log      *logrus.Logger
	Config   *config.Config
	Tax      *tax.Calculator
	Cipher   *utils.TokenCipher
	Provider insight.Provider
	News     newsfeed.Source
	Alerts   AlertSender
}

// Service handles business logic
type Service struct {
	repo     repository.Repository
	sessions session.Store
	signer   *session.Signer
	log      *logrus.Logger
	config   *config.Config
	tax      *tax.Calculator
	cipher   *utils.TokenCipher
	provider insight.Provider
	fallback insight.FallbackProvider
	news     newsfeed.Source
	offline  newsfeed.Source
	alerts   AlertSender
	market   models.MarketData
	now      func() time.Time

	alertMu sync.Mutex
	alerted map[string]time.Time
}

// NewService initializes a new service
func NewService(d Deps) *Service {
	s := &Service{
		repo:     d.Repo,
		sessions: d.Sessions,
		signer:   d.Signer,
		log:      d.Log,
		config:   d.Config,
		tax:      d.Tax,
		cipher:   d.Cipher,
		provider: d.Provider,
		news:     d.News,
		offline:  newsfeed.NewStaticSource(),
		alerts:   d.Alerts,
		market:   defaultMarketData,
		now:      time.Now,
		alerted:  make(map[string]time.Time),
	}
	if s.provider == nil {
		s.provider = s.fallback
	}
	if s.news == nil {
		s.news = s.offline
	}
	return s
}

// Macro context handed to the insight provider
var defaultMarketData = models.MarketData{
	InterestRate:       5.25,
	InflationRate:      2.3,
	SectorGrowth:       12.5,
	CompetitionIndex:   0.7,
	GDPGrowth:          1.8,
	Unemployment:       4.2,
	ConsumerConfidence: 65,
}

// noise returns a fresh source per projection so a seed reproduces the same curve
func (s *Service) noise() finance.Noise {
	if s.config.ForecastNoiseSeed == 0 {
		return finance.NoNoise{}
	}
	return finance.SeededNoise(s.config.ForecastNoiseSeed)
}

// Ping checks the storage backend
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
