package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
)

const dateLayout = "2006-01-02"

type BikeRepository struct {
	gw *Gateway
}

func NewBikeRepository(gw *Gateway) *BikeRepository {
	return &BikeRepository{gw: gw}
}

func (r *BikeRepository) GetBikeByFrameNumber(ctx context.Context, frameNumber string) (*domain.Bike, error) {
	var (
		key         string
		brandType   sql.NullString
		description sql.NullString
		price       decimal.NullDecimal
		date        sql.NullTime
		color       sql.NullString
	)

	err := r.gw.SelectStatement().QueryRowContext(ctx, frameNumber).Scan(
		&key,
		&brandType,
		&description,
		&price,
		&date,
		&color,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBikeNotFound
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "select bike", Err: err}
	}

	bike := &domain.Bike{
		FrameNumber: key,
		BrandType:   brandType.String,
		Description: description.String,
	}
	if price.Valid {
		bike.SetPrice(price.Decimal)
	}
	if date.Valid {
		bike.SetAvailableDate(date.Time)
	}
	if color.Valid {
		c, err := domain.ParseColor(color.String)
		if err != nil {
			return nil, &domain.StorageError{Op: "select bike", Err: fmt.Errorf("frame %s: %w", key, err)}
		}
		bike.Color = c
	}

	return bike, nil
}

func (r *BikeRepository) InsertBike(ctx context.Context, bike *domain.Bike) error {
	_, err := r.gw.InsertStatement().ExecContext(ctx,
		bike.FrameNumber,
		bike.BrandType,
		bike.Description,
		priceParam(bike.Price),
		dateParam(bike.AvailableDate),
		colorParam(bike.Color),
	)
	if err != nil {
		return &domain.StorageError{Op: "insert bike", Err: err}
	}
	return nil
}

func (r *BikeRepository) UpdateBike(ctx context.Context, bike *domain.Bike) error {
	result, err := r.gw.UpdateStatement().ExecContext(ctx,
		bike.BrandType,
		bike.Description,
		priceParam(bike.Price),
		dateParam(bike.AvailableDate),
		colorParam(bike.Color),
		bike.FrameNumber,
	)
	if err != nil {
		return &domain.StorageError{Op: "update bike", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "update bike", Err: err}
	}
	if rowsAffected == 0 {
		return &domain.StorageError{Op: "update bike", Err: domain.ErrBikeNotFound}
	}

	return nil
}

func (r *BikeRepository) IsUniqueViolation(err error) bool {
	return r.gw.IsUniqueViolation(err)
}

// priceParam binds the price as decimal text so neither driver goes
// through a float.
func priceParam(p *decimal.Decimal) interface{} {
	if p == nil {
		return nil
	}
	return p.String()
}

func dateParam(d *time.Time) interface{} {
	if d == nil {
		return nil
	}
	return d.Format(dateLayout)
}

func colorParam(c domain.Color) interface{} {
	if c == "" {
		return nil
	}
	return string(c)
}
