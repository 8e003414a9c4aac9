package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
	"hospital-backend/internal/domain/repository"
	"hospital-backend/internal/usecase"
	"hospital-backend/pkg/response"
	"hospital-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type OtCaseHandler struct {
	otCaseUsecase      usecase.OtCaseUsecase
	phaseRecordUsecase usecase.PhaseRecordUsecase
	validator          *validator.CustomValidator
}

func NewOtCaseHandler(
	otCaseUsecase usecase.OtCaseUsecase,
	phaseRecordUsecase usecase.PhaseRecordUsecase,
	validator *validator.CustomValidator,
) *OtCaseHandler {
	return &OtCaseHandler{
		otCaseUsecase:      otCaseUsecase,
		phaseRecordUsecase: phaseRecordUsecase,
		validator:          validator,
	}
}

// CreateCase schedules a new surgical case
// @Summary Create OT case
// @Tags OT Cases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateOtCaseRequest true "Create OT Case Request"
// @Success 201 {object} response.Response
// @Router /ot-cases [post]
func (h *OtCaseHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOtCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	otCase, err := h.otCaseUsecase.CreateCase(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthorized:
			response.Forbidden(w, "Only admins and doctors can schedule cases")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrPatientNotAdmitted:
			response.Error(w, http.StatusBadRequest, "Patient is not admitted", nil)
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrInvalidPriority:
			response.Error(w, http.StatusBadRequest, "Unknown priority", nil)
		default:
			response.InternalServerError(w, "Failed to create OT case")
		}
		return
	}

	response.Success(w, http.StatusCreated, "OT case created successfully", otCase)
}

// GetCases lists OT cases with optional filters
// @Summary List OT cases
// @Tags OT Cases
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Param date query string false "Scheduled date filter (YYYY-MM-DD)"
// @Param surgeon_id query string false "Surgeon filter"
// @Success 200 {object} response.Response
// @Router /ot-cases [get]
func (h *OtCaseHandler) GetCases(w http.ResponseWriter, r *http.Request) {
	filter := &repository.OtCaseFilter{}

	if status := r.URL.Query().Get("status"); status != "" {
		s := entity.OtCaseStatus(status)
		if !s.IsValid() {
			response.Error(w, http.StatusBadRequest, "Unknown status filter", nil)
			return
		}
		filter.Status = s
	}

	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
			return
		}
		filter.ScheduledDate = &parsed
	}

	if surgeonID := r.URL.Query().Get("surgeon_id"); surgeonID != "" {
		parsed, err := uuid.Parse(surgeonID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid surgeon ID", nil)
			return
		}
		filter.SurgeonID = &parsed
	}

	cases, err := h.otCaseUsecase.GetCases(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get OT cases")
		return
	}

	response.Success(w, http.StatusOK, "OT cases retrieved successfully", cases)
}

// GetFullCase returns a case with its records, logs and phase statuses
// @Summary Get full OT case
// @Tags OT Cases
// @Security BearerAuth
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Response
// @Router /ot-cases/{id} [get]
func (h *OtCaseHandler) GetFullCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	full, err := h.otCaseUsecase.GetFullCase(r.Context(), caseID)
	if err != nil {
		switch err {
		case usecase.ErrCaseNotFound:
			response.NotFound(w, "OT case not found")
		default:
			response.InternalServerError(w, "Failed to get OT case")
		}
		return
	}

	response.Success(w, http.StatusOK, "OT case retrieved successfully", full)
}

// TransitionStatus moves a case through its lifecycle
// @Summary Transition OT case status
// @Tags OT Cases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body dto.TransitionOtCaseRequest true "Transition Request"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /ot-cases/{id}/status [post]
func (h *OtCaseHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.TransitionOtCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	otCase, err := h.otCaseUsecase.TransitionStatus(r.Context(), caseID, &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthorized:
			response.Forbidden(w, "Only admins and doctors can transition cases")
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Unknown target status", nil)
		case usecase.ErrCaseNotFound:
			response.NotFound(w, "OT case not found")
		case usecase.ErrIllegalTransition:
			response.Conflict(w, "Illegal status transition")
		default:
			response.InternalServerError(w, "Failed to transition OT case")
		}
		return
	}

	response.Success(w, http.StatusOK, "OT case status updated successfully", otCase)
}

// Reschedule rewrites the scheduled date/time/room of a case
// @Summary Reschedule OT case
// @Tags OT Cases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body dto.RescheduleOtCaseRequest true "Reschedule Request"
// @Success 200 {object} response.Response
// @Router /ot-cases/{id}/schedule [put]
func (h *OtCaseHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.RescheduleOtCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	otCase, err := h.otCaseUsecase.Reschedule(r.Context(), caseID, &req)
	if err != nil {
		switch err {
		case usecase.ErrNotAuthorized:
			response.Forbidden(w, "Only admins and doctors can reschedule cases")
		case usecase.ErrCaseNotFound:
			response.NotFound(w, "OT case not found")
		case usecase.ErrNotReschedulable:
			response.Conflict(w, "Case schedule can no longer be changed")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to reschedule OT case")
		}
		return
	}

	response.Success(w, http.StatusOK, "OT case rescheduled successfully", otCase)
}

// UpsertPhaseRecord saves one clinical form against a case
// @Summary Save phase record
// @Tags OT Cases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param kind path string true "Record kind"
// @Param request body dto.UpsertPhaseRecordRequest true "Record payload"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /ot-cases/{id}/records/{kind} [put]
func (h *OtCaseHandler) UpsertPhaseRecord(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	kind := mux.Vars(r)["kind"]

	var req dto.UpsertPhaseRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.phaseRecordUsecase.UpsertRecord(r.Context(), caseID, kind, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownRecordKind):
			response.NotFound(w, "Unknown record kind")
		case errors.Is(err, usecase.ErrCaseNotFound):
			response.NotFound(w, "OT case not found")
		case errors.Is(err, usecase.ErrNotObstetricCase):
			response.Error(w, http.StatusBadRequest, "Record applies only to obstetric cases", nil)
		case errors.Is(err, usecase.ErrInvalidFormPayload):
			response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to save record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record saved successfully", record)
}

// GetPhaseRecord fetches one clinical form of a case
// @Summary Get phase record
// @Tags OT Cases
// @Security BearerAuth
// @Produce json
// @Param id path string true "Case ID"
// @Param kind path string true "Record kind"
// @Success 200 {object} response.Response
// @Router /ot-cases/{id}/records/{kind} [get]
func (h *OtCaseHandler) GetPhaseRecord(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	kind := mux.Vars(r)["kind"]

	record, err := h.phaseRecordUsecase.GetRecord(r.Context(), caseID, kind)
	if err != nil {
		switch err {
		case usecase.ErrUnknownRecordKind:
			response.NotFound(w, "Unknown record kind")
		case usecase.ErrRecordNotFound:
			response.NotFound(w, "Record not found")
		default:
			response.InternalServerError(w, "Failed to get record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Record retrieved successfully", record)
}

// AppendLogEntry appends one entry to an append-only case log
// @Summary Append case log entry
// @Tags OT Cases
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param kind path string true "Log kind"
// @Param request body dto.AppendLogEntryRequest true "Log entry"
// @Success 201 {object} response.Response
// @Router /ot-cases/{id}/logs/{kind} [post]
func (h *OtCaseHandler) AppendLogEntry(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	kind := mux.Vars(r)["kind"]

	var req dto.AppendLogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	entry, err := h.phaseRecordUsecase.AppendLog(r.Context(), caseID, kind, &req)
	if err != nil {
		switch err {
		case usecase.ErrUnknownLogKind:
			response.NotFound(w, "Unknown log kind")
		case usecase.ErrCaseNotFound:
			response.NotFound(w, "OT case not found")
		case usecase.ErrNotObstetricCase:
			response.Error(w, http.StatusBadRequest, "Log applies only to obstetric cases", nil)
		default:
			response.InternalServerError(w, "Failed to append log entry")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Log entry appended successfully", entry)
}

// GetLog fetches one case log in insertion order
// @Summary Get case log
// @Tags OT Cases
// @Security BearerAuth
// @Produce json
// @Param id path string true "Case ID"
// @Param kind path string true "Log kind"
// @Success 200 {object} response.Response
// @Router /ot-cases/{id}/logs/{kind} [get]
func (h *OtCaseHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	kind := mux.Vars(r)["kind"]

	log, err := h.phaseRecordUsecase.GetLog(r.Context(), caseID, kind)
	if err != nil {
		switch err {
		case usecase.ErrUnknownLogKind:
			response.NotFound(w, "Unknown log kind")
		case usecase.ErrCaseNotFound:
			response.NotFound(w, "OT case not found")
		default:
			response.InternalServerError(w, "Failed to get log")
		}
		return
	}

	response.Success(w, http.StatusOK, "Log retrieved successfully", log)
}

func (h *OtCaseHandler) caseIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	caseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid case ID", nil)
		return uuid.Nil, false
	}
	return caseID, true
}
