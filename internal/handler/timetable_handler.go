package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniplan/timetable-api/internal/dto"
	appErrors "github.com/uniplan/timetable-api/pkg/errors"
	"github.com/uniplan/timetable-api/pkg/response"
)

type schedulerService interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Move(ctx context.Context, req dto.MoveLectureRequest) (*dto.MoveLectureResponse, error)
	Timetable(ctx context.Context) (*dto.TimetableResponse, error)
	Report(ctx context.Context) (*dto.RunReport, error)
	Clear(ctx context.Context) error
}

// TimetableHandler manages timetable endpoints.
type TimetableHandler struct {
	service schedulerService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc schedulerService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Run a placement pass and commit the resulting timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest false "Run options"
// @Success 201 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Return the latest committed timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	timetable, err := h.service.Timetable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetable)
}

// Report godoc
// @Summary Return the report of the most recent placement run
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/report [get]
func (h *TimetableHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Move godoc
// @Summary Propose relocating a placed lecture to a new doctor, day and start
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.MoveLectureRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/move [post]
func (h *TimetableHandler) Move(c *gin.Context) {
	var req dto.MoveLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.service.Move(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Clear godoc
// @Summary Remove the committed timetable and reset entity write-backs
// @Tags Timetable
// @Produce json
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
