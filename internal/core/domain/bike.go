package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bike is a single bicycle record keyed by its frame number.
// Fields may be partially empty until Validate is called.
//
// swagger:model domain.Bike
type Bike struct {
	FrameNumber   string           `json:"frame_number" validate:"required,min=5"`
	BrandType     string           `json:"brand_type" validate:"required,min=3"`
	Description   string           `json:"description" validate:"required"`
	Price         *decimal.Decimal `json:"price" validate:"required,cents"`
	AvailableDate *time.Time       `json:"available_date" validate:"required"`
	Color         Color            `json:"color" validate:"required,oneof=Red Green Yellow Blue"`
}

// NewBike returns a bike carrying only its frame number.
func NewBike(frameNumber string) *Bike {
	return &Bike{FrameNumber: frameNumber}
}

// Equal reports whether both bikes share the same frame number.
func (b *Bike) Equal(other *Bike) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.FrameNumber == other.FrameNumber
}

// IsNew reports whether only the key is set.
func (b *Bike) IsNew() bool {
	return b.BrandType == "" && b.Description == "" && b.Price == nil &&
		b.AvailableDate == nil && b.Color == ""
}

// SetAvailableDate stores d truncated to its calendar date.
func (b *Bike) SetAvailableDate(d time.Time) {
	date := NormalizeDate(d)
	b.AvailableDate = &date
}

// SetPrice stores a copy of p.
func (b *Bike) SetPrice(p decimal.Decimal) {
	b.Price = &p
}

func (b *Bike) String() string {
	price := "<nil>"
	if b.Price != nil {
		price = FormatPrice(*b.Price)
	}
	return fmt.Sprintf("Bike{frameNumber=%s, brandType=%s, description=%s, price=%s}",
		b.FrameNumber, b.BrandType, b.Description, price)
}

// PriceScale is the number of decimal places a price may carry.
const PriceScale = 2

// HasPriceScale reports whether p fits in PriceScale decimal places.
func HasPriceScale(p decimal.Decimal) bool {
	return p.Equal(p.Round(PriceScale))
}

// FormatPrice renders p with PriceScale decimals. A price with more places
// is rendered in full so it is never rounded on display.
func FormatPrice(p decimal.Decimal) string {
	if !HasPriceScale(p) {
		return p.String()
	}
	return p.StringFixed(PriceScale)
}

// NormalizeDate drops the clock part of t and pins it to UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SaveResult tells which branch of an upsert was taken.
type SaveResult string

const (
	Inserted SaveResult = "inserted"
	Updated  SaveResult = "updated"
)
