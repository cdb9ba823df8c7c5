package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

const defaultCacheTTL = 15 * time.Minute

type BikeService struct {
	bikeRepo ports.BikeRepository
	logger   ports.LoggerPort
	cache    ports.CachePort
	cacheTTL time.Duration
}

// NewBikeService wires the service. cache may be nil to disable caching.
func NewBikeService(
	bikeRepo ports.BikeRepository,
	logger ports.LoggerPort,
	cache ports.CachePort,
	cacheTTL time.Duration,
) *BikeService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &BikeService{
		bikeRepo: bikeRepo,
		logger:   logger,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(frameNumber string) string {
	return fmt.Sprintf("bike:%s", frameNumber)
}

// SelectBike loads the bike stored under frameNumber. When no row exists a
// bike holding only the key is returned.
func (s *BikeService) SelectBike(ctx context.Context, frameNumber string) (*domain.Bike, error) {
	if cached, ok := s.fromCache(ctx, frameNumber); ok {
		return cached, nil
	}

	bike, err := s.bikeRepo.GetBikeByFrameNumber(ctx, frameNumber)
	if errors.Is(err, domain.ErrBikeNotFound) {
		s.logger.Debug("No stored bike, starting a new one", map[string]interface{}{
			"frame_number": frameNumber,
		})
		return domain.NewBike(frameNumber), nil
	}
	if err != nil {
		s.logger.Error("Failed to select bike", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": frameNumber,
		})
		return nil, err
	}

	s.toCache(ctx, bike)

	return bike, nil
}

// SaveBike validates the bike and writes it. It tries an insert first and
// falls back to an update when the key already exists.
func (s *BikeService) SaveBike(ctx context.Context, bike *domain.Bike) (domain.SaveResult, error) {
	if err := bike.Validate(); err != nil {
		s.logger.Warn("Bike validation failed", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": bike.FrameNumber,
		})
		return "", err
	}

	result := domain.Inserted
	err := s.bikeRepo.InsertBike(ctx, bike)
	if err != nil && s.bikeRepo.IsUniqueViolation(err) {
		result = domain.Updated
		err = s.bikeRepo.UpdateBike(ctx, bike)
	}
	if err != nil {
		s.logger.Error("Failed to save bike", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": bike.FrameNumber,
			"branch":       string(result),
		})
		return "", err
	}

	s.invalidate(ctx, bike.FrameNumber)

	s.logger.Info("Bike saved successfully", map[string]interface{}{
		"frame_number": bike.FrameNumber,
		"result":       string(result),
	})

	return result, nil
}

func (s *BikeService) fromCache(ctx context.Context, frameNumber string) (*domain.Bike, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, cacheKey(frameNumber))
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warn("Failed to read bike cache", map[string]interface{}{
				"error":        err.Error(),
				"frame_number": frameNumber,
			})
		}
		return nil, false
	}

	var bike domain.Bike
	if err := json.Unmarshal(data, &bike); err != nil {
		s.logger.Warn("Dropping unreadable cache entry", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": frameNumber,
		})
		return nil, false
	}

	s.logger.Debug("Bike found in cache", map[string]interface{}{
		"frame_number": frameNumber,
	})
	return &bike, true
}

func (s *BikeService) toCache(ctx context.Context, bike *domain.Bike) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(bike)
	if err != nil {
		s.logger.Warn("Failed to marshal bike for cache", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": bike.FrameNumber,
		})
		return
	}

	if err := s.cache.Set(ctx, cacheKey(bike.FrameNumber), data, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache bike", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": bike.FrameNumber,
		})
	}
}

func (s *BikeService) invalidate(ctx context.Context, frameNumber string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cacheKey(frameNumber)); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": frameNumber,
		})
	}
}
