package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/platform/db"
)

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewService wires the property store. cache may be nil, in which case every
// read goes to the database.
func NewService(repo Repository, cache Cache, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "global_property").Logger(),
	}
}

func cacheKey(ctx context.Context, property string) string {
	tenant := db.TenantFromContext(ctx)
	if tenant == "" {
		tenant = "default"
	}
	return "gp:" + tenant + ":" + property
}

// GetGlobalProperty returns the stored value of property, or "" when it is unset.
func (s *Service) GetGlobalProperty(ctx context.Context, property string) (string, error) {
	property = strings.TrimSpace(property)
	if property == "" {
		return "", fmt.Errorf("property name is required")
	}

	key := cacheKey(ctx, property)
	if s.cache != nil {
		val, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("property", property).Msg("global property cache read failed")
		} else if ok {
			return val, nil
		}
	}

	gp, err := s.repo.Get(ctx, property)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, gp.Value, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("property", property).Msg("global property cache write failed")
		}
	}
	return gp.Value, nil
}

// GetProperty returns the full record, or ErrNotFound.
func (s *Service) GetProperty(ctx context.Context, property string) (*GlobalProperty, error) {
	return s.repo.Get(ctx, strings.TrimSpace(property))
}

// SaveGlobalProperty stores gp and drops any cached value for it.
func (s *Service) SaveGlobalProperty(ctx context.Context, gp *GlobalProperty) error {
	gp.Property = strings.TrimSpace(gp.Property)
	if gp.Property == "" {
		return fmt.Errorf("property name is required")
	}
	if len(gp.Property) > 255 {
		return fmt.Errorf("property name too long")
	}
	if err := s.repo.Upsert(ctx, gp); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(ctx, gp.Property)); err != nil {
			s.logger.Warn().Err(err).Str("property", gp.Property).Msg("global property cache invalidation failed")
		}
	}
	s.logger.Info().Str("property", gp.Property).Msg("global property saved")
	return nil
}
