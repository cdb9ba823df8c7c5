package ports

import (
	"context"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
)

type BikeRepository interface {
	GetBikeByFrameNumber(ctx context.Context, frameNumber string) (*domain.Bike, error)
	InsertBike(ctx context.Context, bike *domain.Bike) error
	UpdateBike(ctx context.Context, bike *domain.Bike) error
	IsUniqueViolation(err error) bool
}

type BikeService interface {
	SelectBike(ctx context.Context, frameNumber string) (*domain.Bike, error)
	SaveBike(ctx context.Context, bike *domain.Bike) (domain.SaveResult, error)
}
