package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sm8ta/webike_bike_registry/internal/core/domain"
	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

const dateLayout = "2006-01-02"

type BikeHandler struct {
	bikeService ports.BikeService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type SaveBikeRequest struct {
	BrandType     string           `json:"brand_type" example:"Trek X1"`
	Description   string           `json:"description" example:"Good condition"`
	Price         *decimal.Decimal `json:"price" swaggertype:"string" example:"450.00"`
	AvailableDate string           `json:"available_date" example:"2026-05-01"`
	Color         string           `json:"color" example:"Red"`
}

type BikeResponse struct {
	FrameNumber   string  `json:"frame_number" example:"AB1234"`
	BrandType     string  `json:"brand_type" example:"Trek X1"`
	Description   string  `json:"description" example:"Good condition"`
	Price         *string `json:"price" example:"450.00"`
	AvailableDate *string `json:"available_date" example:"2026-05-01"`
	Color         string  `json:"color" example:"Red"`
	Exists        bool    `json:"exists" example:"true"`
}

type SaveBikeResponse struct {
	Result string       `json:"result" example:"inserted"`
	Bike   BikeResponse `json:"bike"`
}

func NewBikeHandler(
	bikeService ports.BikeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		logger:      logger,
		metrics:     metrics,
	}
}

func newBikeResponse(bike *domain.Bike) BikeResponse {
	resp := BikeResponse{
		FrameNumber: bike.FrameNumber,
		BrandType:   bike.BrandType,
		Description: bike.Description,
		Color:       string(bike.Color),
		Exists:      !bike.IsNew(),
	}
	if bike.Price != nil {
		price := domain.FormatPrice(*bike.Price)
		resp.Price = &price
	}
	if bike.AvailableDate != nil {
		date := bike.AvailableDate.Format(dateLayout)
		resp.AvailableDate = &date
	}
	return resp
}

// @Summary Get bike
// @Description Looks a bike up by frame number. Unknown frame numbers return an empty bike with exists=false.
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param frame_number path string true "Frame number" example:"AB1234"
// @Success 200 {object} BikeResponse "Bike"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 500 {object} errorResponse "Storage error"
// @Router /bikes/{frame_number} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	frameNumber := c.Param("frame_number")

	bike, err := h.bikeService.SelectBike(c.Request.Context(), frameNumber)
	if err != nil {
		h.logger.Error("Failed to get bike", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": frameNumber,
			"request_id":   getRequestID(c),
		})
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, newBikeResponse(bike))
}

// @Summary Save bike
// @Description Inserts the bike, or updates it when the frame number already exists.
// @Tags bikes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param frame_number path string true "Frame number" example:"AB1234"
// @Param request body SaveBikeRequest true "Bike data"
// @Success 201 {object} successResponse{data=SaveBikeResponse} "Bike inserted"
// @Success 200 {object} successResponse{data=SaveBikeResponse} "Bike updated"
// @Failure 400 {object} errorResponse "Malformed request"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 422 {object} errorResponse "Validation failed"
// @Failure 500 {object} errorResponse "Storage error"
// @Router /bikes/{frame_number} [put]
func (h *BikeHandler) SaveBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	frameNumber := c.Param("frame_number")

	if payload, exists := getAuthPayload(c, authorizationPayloadKey); exists && !payload.CanWrite() {
		h.logger.Warn("Access denied to save bike", map[string]interface{}{
			"subject":      payload.Subject,
			"role":         string(payload.Role),
			"frame_number": frameNumber,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	var req SaveBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in save bike", map[string]interface{}{
			"error":      err.Error(),
			"request_id": getRequestID(c),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike := domain.NewBike(frameNumber)
	bike.BrandType = req.BrandType
	bike.Description = req.Description
	bike.Price = req.Price

	if req.AvailableDate != "" {
		date, err := time.Parse(dateLayout, req.AvailableDate)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "available_date must be formatted as YYYY-MM-DD")
			return
		}
		bike.SetAvailableDate(date)
	}

	color, err := domain.ParseColor(req.Color)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	bike.Color = color

	result, err := h.bikeService.SaveBike(c.Request.Context(), bike)
	if err != nil {
		if domain.IsValidationError(err) {
			h.metrics.RecordSave("rejected")
			newErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.metrics.RecordSave("failed")
		h.logger.Error("Failed to save bike", map[string]interface{}{
			"error":        err.Error(),
			"frame_number": frameNumber,
			"request_id":   getRequestID(c),
		})
		newErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.RecordSave(string(result))

	status := http.StatusOK
	if result == domain.Inserted {
		status = http.StatusCreated
	}

	newSuccessResponse(c, status, "Ok, bike saved!", SaveBikeResponse{
		Result: string(result),
		Bike:   newBikeResponse(bike),
	})
}
