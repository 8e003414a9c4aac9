package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/usecase"
	"hospital-backend/pkg/response"
	"hospital-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ScheduleBlockHandler struct {
	scheduleBlockUsecase usecase.ScheduleBlockUsecase
	validator            *validator.CustomValidator
}

func NewScheduleBlockHandler(scheduleBlockUsecase usecase.ScheduleBlockUsecase, validator *validator.CustomValidator) *ScheduleBlockHandler {
	return &ScheduleBlockHandler{
		scheduleBlockUsecase: scheduleBlockUsecase,
		validator:            validator,
	}
}

// CreateBlock adds a recurring or date-specific availability block
// @Summary Create schedule block
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateScheduleBlockRequest true "Create Schedule Block Request"
// @Success 201 {object} response.Response
// @Router /schedule-blocks [post]
func (h *ScheduleBlockHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	block, err := h.scheduleBlockUsecase.CreateBlock(r.Context(), &req)
	if err != nil {
		h.writeBlockError(w, err, "Failed to create schedule block")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule block created successfully", block)
}

// UpdateBlock edits an existing availability block
// @Summary Update schedule block
// @Tags Schedules
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Block ID"
// @Param request body dto.UpdateScheduleBlockRequest true "Update Schedule Block Request"
// @Success 200 {object} response.Response
// @Router /schedule-blocks/{id} [put]
func (h *ScheduleBlockHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	blockID, ok := h.blockIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	block, err := h.scheduleBlockUsecase.UpdateBlock(r.Context(), blockID, &req)
	if err != nil {
		h.writeBlockError(w, err, "Failed to update schedule block")
		return
	}

	response.Success(w, http.StatusOK, "Schedule block updated successfully", block)
}

// DeleteBlock removes an availability block
// @Summary Delete schedule block
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} response.Response
// @Router /schedule-blocks/{id} [delete]
func (h *ScheduleBlockHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	blockID, ok := h.blockIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.scheduleBlockUsecase.DeleteBlock(r.Context(), blockID); err != nil {
		h.writeBlockError(w, err, "Failed to delete schedule block")
		return
	}

	response.Success(w, http.StatusOK, "Schedule block deleted successfully", nil)
}

// GetBlocksByDoctor lists the raw blocks of one doctor
// @Summary Get doctor's schedule blocks
// @Tags Schedules
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Router /doctors/{id}/schedule-blocks [get]
func (h *ScheduleBlockHandler) GetBlocksByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	blocks, err := h.scheduleBlockUsecase.GetBlocksByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedule blocks")
		return
	}

	response.Success(w, http.StatusOK, "Schedule blocks retrieved successfully", blocks)
}

func (h *ScheduleBlockHandler) blockIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	blockID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid block ID", nil)
		return 0, false
	}
	return blockID, true
}

func (h *ScheduleBlockHandler) writeBlockError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrScheduleBlockNotFound:
		response.NotFound(w, "Schedule block not found")
	case usecase.ErrInvalidTimeLabel:
		response.Error(w, http.StatusBadRequest, "Invalid time label, use HH:MM or H:MM AM/PM", nil)
	case usecase.ErrInvalidTimeRange:
		response.Error(w, http.StatusBadRequest, "Start time must be before end time", nil)
	case usecase.ErrInvalidDateFormat:
		response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
	case usecase.ErrBlockTargetMissing:
		response.Error(w, http.StatusBadRequest, "Either day_of_week or specific_date is required", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
