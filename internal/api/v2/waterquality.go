// internal/api/v2/waterquality.go
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// PredictResponse is the reply to a successful prediction.
type PredictResponse struct {
	Potability int `json:"potability"`
}

// ListResponse wraps all stored records.
type ListResponse struct {
	Entries []datastore.WaterQuality `json:"entries"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

const entryNotFound = "Entry not found"

// Predict handles POST /predict: validate, classify, store, publish.
// @Summary Predict water potability
// @Description Validates the nine measurements, classifies the sample and stores it with the predicted label
// @Tags water_quality
// @Accept json
// @Produce json
// @Param sample body waterquality.Sample true "Water quality measurements"
// @Success 200 {object} PredictResponse "Predicted label, 0 or 1"
// @Failure 400 {object} ErrorResponse "Malformed JSON body"
// @Failure 422 {object} ErrorResponse "Missing or invalid measurements"
// @Failure 500 {object} ErrorResponse "Prediction or storage failure"
// @Router /predict [post]
func (c *Controller) Predict(ctx echo.Context) error {
	sample, err := waterquality.DecodeSample(ctx.Request().Body)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid request body", errorStatus(err))
	}

	measurements, err := sample.Validate()
	if err != nil {
		return c.HandleError(ctx, err, "Invalid water quality sample", errorStatus(err))
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), requestTimeout)
	defer cancel()

	label, err := c.Predictor.Predict(reqCtx, measurements)
	if err != nil {
		return c.HandleError(ctx, err, "Prediction failed", http.StatusInternalServerError)
	}

	record := datastore.NewWaterQuality(measurements, label)
	if err := c.DS.Save(reqCtx, record); err != nil {
		return c.HandleError(ctx, err, "Failed to store record", http.StatusInternalServerError)
	}

	c.logger.WithContext(reqCtx).Debug("record stored",
		logger.Uint64("id", record.ID),
		logger.Int("potability", record.Potability))

	if c.Publisher != nil {
		c.Publisher.PublishRecord(reqCtx, record)
	}

	return ctx.JSON(http.StatusOK, PredictResponse{Potability: int(label)})
}

// ListWaterQuality handles GET /water_quality.
// @Summary List stored records
// @Description Returns every stored record ordered by id
// @Tags water_quality
// @Produce json
// @Success 200 {object} ListResponse "All stored records"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /water_quality [get]
func (c *Controller) ListWaterQuality(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), requestTimeout)
	defer cancel()

	records, err := c.DS.GetAll(reqCtx)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list records", http.StatusInternalServerError)
	}
	if records == nil {
		records = []datastore.WaterQuality{}
	}
	return ctx.JSON(http.StatusOK, ListResponse{Entries: records})
}

// DeleteWaterQuality handles DELETE /water_quality/:id. Absent and
// non-numeric IDs are both reported as not found.
// @Summary Delete a stored record
// @Tags water_quality
// @Produce json
// @Param id path int true "Record id"
// @Success 200 {object} MessageResponse "Entry deleted"
// @Failure 404 {object} ErrorResponse "Entry not found"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /water_quality/{id} [delete]
func (c *Controller) DeleteWaterQuality(ctx echo.Context) error {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		return c.HandleError(ctx, nil, entryNotFound, http.StatusNotFound)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), requestTimeout)
	defer cancel()

	if err := c.DS.Delete(reqCtx, id); err != nil {
		status := errorStatus(err)
		if status == http.StatusNotFound {
			return c.HandleError(ctx, nil, entryNotFound, status)
		}
		return c.HandleError(ctx, err, "Failed to delete record", status)
	}

	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Entry deleted"})
}
