package converter

import (
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to its response DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:           appointment.ID,
		DoctorID:     appointment.DoctorID,
		PatientID:    appointment.PatientID,
		PatientName:  appointment.PatientName,
		PatientPhone: appointment.PatientPhone,
		Date:         appointment.AppointmentDate.Format("2006-01-02"),
		TimeSlot:     appointment.TimeSlot,
		Department:   appointment.Department,
		Location:     appointment.Location,
		Reason:       appointment.Reason,
		Symptoms:     appointment.Symptoms,
		Status:       string(appointment.Status),
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}

	// Include doctor name if preloaded
	if appointment.Doctor.User.FullName != "" {
		response.DoctorName = appointment.Doctor.User.FullName
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to response DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// SlotsToResponses converts derived time slots to response DTOs
func SlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.TimeSlotResponse{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Location:  slot.Location,
		}
	}
	return responses
}
