package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

const dateLayout = "2006-01-02"

var (
	ErrNotInKeyMode = errors.New("finish or cancel the current bike first")
	ErrNotEditing   = errors.New("select a bike first")
)

// Fields is the text the user sees and types, one entry per input.
type Fields struct {
	FrameNumber   string
	BrandType     string
	Description   string
	Price         string
	AvailableDate string
	Color         string
}

// Form is the presentation model of the bike editor. In key mode only the
// frame number can be entered and selected; after a select the other
// fields become editable and the bike can be saved or the edit cancelled.
type Form struct {
	service ports.BikeService
	model   *domain.Bike
	fields  Fields
}

func NewForm(service ports.BikeService) *Form {
	return &Form{service: service}
}

func (f *Form) KeyMode() bool {
	return f.model == nil
}

func (f *Form) Fields() Fields {
	return f.fields
}

// Model returns the bike being edited, nil in key mode.
func (f *Form) Model() *domain.Bike {
	return f.model
}

// Select loads the bike for key and switches to edit mode.
func (f *Form) Select(ctx context.Context, key string) error {
	if !f.KeyMode() {
		return ErrNotInKeyMode
	}

	bike, err := f.service.SelectBike(ctx, key)
	if err != nil {
		return err
	}

	f.model = bike
	f.fields = fieldsFrom(bike)
	return nil
}

// Submit copies the edited text into the bike. Nothing is copied when any
// value cannot be converted.
func (f *Form) Submit(fields Fields) error {
	if f.KeyMode() {
		return ErrNotEditing
	}

	var price *decimal.Decimal
	if s := strings.TrimSpace(fields.Price); s != "" {
		p, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
		if err != nil {
			return &domain.ValidationError{Field: "Price", Rule: "format", Message: "price must be a number"}
		}
		if !domain.HasPriceScale(p) {
			return &domain.ValidationError{Field: "Price", Rule: "cents", Message: domain.PriceScaleMessage}
		}
		price = &p
	}

	var date *time.Time
	if s := strings.TrimSpace(fields.AvailableDate); s != "" {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return &domain.ValidationError{
				Field:   "AvailableDate",
				Rule:    "format",
				Message: "availability date must be formatted as YYYY-MM-DD",
			}
		}
		d = domain.NormalizeDate(d)
		date = &d
	}

	color, err := domain.ParseColor(fields.Color)
	if err != nil {
		return &domain.ValidationError{
			Field:   "Color",
			Rule:    "oneof",
			Message: "color must be one of Red, Green, Yellow, Blue",
		}
	}

	f.model.BrandType = strings.TrimSpace(fields.BrandType)
	f.model.Description = strings.TrimSpace(fields.Description)
	f.model.Price = price
	f.model.AvailableDate = date
	f.model.Color = color

	f.fields = fieldsFrom(f.model)
	return nil
}

// Save persists the bike and returns to key mode. On error the form stays
// in edit mode so the user can correct the input.
func (f *Form) Save(ctx context.Context) (domain.SaveResult, error) {
	if f.KeyMode() {
		return "", ErrNotEditing
	}

	result, err := f.service.SaveBike(ctx, f.model)
	if err != nil {
		return "", err
	}

	f.Cancel()
	return result, nil
}

// Cancel drops the bike being edited without touching storage.
func (f *Form) Cancel() {
	f.model = nil
	f.fields = Fields{}
}

func fieldsFrom(b *domain.Bike) Fields {
	fields := Fields{
		FrameNumber: b.FrameNumber,
		BrandType:   b.BrandType,
		Description: b.Description,
		Color:       string(b.Color),
	}
	if b.Price != nil {
		fields.Price = domain.FormatPrice(*b.Price)
	}
	if b.AvailableDate != nil {
		fields.AvailableDate = b.AvailableDate.Format(dateLayout)
	}
	return fields
}
