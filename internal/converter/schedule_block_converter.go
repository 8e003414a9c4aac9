package converter

import (
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
)

// ScheduleBlockToResponse converts a ScheduleBlock entity to its response DTO
func ScheduleBlockToResponse(block *entity.ScheduleBlock) *dto.ScheduleBlockResponse {
	if block == nil {
		return nil
	}

	response := &dto.ScheduleBlockResponse{
		ID:          block.ID,
		DoctorID:    block.DoctorID,
		DayOfWeek:   block.DayOfWeek,
		StartTime:   block.StartTime,
		EndTime:     block.EndTime,
		Location:    block.Location,
		IsAvailable: block.IsAvailable,
		CreatedAt:   block.CreatedAt,
		UpdatedAt:   block.UpdatedAt,
	}

	if block.SpecificDate != nil {
		response.SpecificDate = block.SpecificDate.Format("2006-01-02")
	}

	return response
}

// ScheduleBlocksToResponses converts a slice of ScheduleBlock entities to response DTOs
func ScheduleBlocksToResponses(blocks []entity.ScheduleBlock) []dto.ScheduleBlockResponse {
	responses := make([]dto.ScheduleBlockResponse, len(blocks))
	for i := range blocks {
		responses[i] = *ScheduleBlockToResponse(&blocks[i])
	}
	return responses
}
