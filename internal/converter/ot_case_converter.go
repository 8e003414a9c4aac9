package converter

import (
	"hospital-backend/internal/delivery/dto"
	"hospital-backend/internal/domain/entity"
)

// OtCaseToResponse converts an OtCase entity to its response DTO
func OtCaseToResponse(otCase *entity.OtCase) *dto.OtCaseResponse {
	if otCase == nil {
		return nil
	}

	return &dto.OtCaseResponse{
		ID:                otCase.ID,
		PatientID:         otCase.PatientID,
		PatientName:       otCase.PatientName,
		UHID:              otCase.UHID,
		Age:               otCase.Age,
		Gender:            otCase.Gender,
		SurgeonID:         otCase.SurgeonID,
		SurgeonName:       otCase.SurgeonName,
		AnaesthetistID:    otCase.AnaesthetistID,
		AnaesthetistName:  otCase.AnaesthetistName,
		ProcedureName:     otCase.ProcedureName,
		ProcedureCode:     otCase.ProcedureCode,
		Diagnosis:         otCase.Diagnosis,
		SurgeryType:       otCase.SurgeryType,
		EstimatedDuration: otCase.EstimatedDuration,
		ScheduledDate:     otCase.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:     otCase.ScheduledTime,
		OtRoom:            otCase.OtRoom,
		Priority:          string(otCase.Priority),
		Status:            string(otCase.Status),
		CreatedAt:         otCase.CreatedAt,
		UpdatedAt:         otCase.UpdatedAt,
	}
}

// OtCasesToResponses converts a slice of OtCase entities to response DTOs
func OtCasesToResponses(cases []entity.OtCase) []dto.OtCaseResponse {
	responses := make([]dto.OtCaseResponse, len(cases))
	for i := range cases {
		responses[i] = *OtCaseToResponse(&cases[i])
	}
	return responses
}

// PhaseRecordToResponse converts a PhaseRecord entity to its response DTO
func PhaseRecordToResponse(record *entity.PhaseRecord) *dto.PhaseRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.PhaseRecordResponse{
		ID:        record.ID,
		CaseID:    record.CaseID,
		Kind:      string(record.Kind),
		Payload:   record.Payload,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// CaseLogEntryToResponse converts a CaseLogEntry entity to its response DTO
func CaseLogEntryToResponse(entry *entity.CaseLogEntry) *dto.CaseLogEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.CaseLogEntryResponse{
		ID:         entry.ID,
		Seq:        entry.Seq,
		EventName:  entry.EventName,
		Details:    entry.Details,
		RecordedAt: entry.RecordedAt,
		RecordedBy: entry.RecordedBy,
	}
}

// CaseLogEntriesToResponses converts log entries preserving insertion order
func CaseLogEntriesToResponses(entries []entity.CaseLogEntry) []dto.CaseLogEntryResponse {
	responses := make([]dto.CaseLogEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *CaseLogEntryToResponse(&entries[i])
	}
	return responses
}

// FullOtCaseToResponse assembles the aggregate read: the case, its phase
// records keyed by kind, its logs keyed by kind, and the derived phase
// statuses.
func FullOtCaseToResponse(otCase *entity.OtCase, records []entity.PhaseRecord, logs []entity.CaseLogEntry) *dto.FullOtCaseResponse {
	recordMap := make(map[string]dto.PhaseRecordResponse, len(records))
	hasChecklist := false
	hasSurgeonNotes := false
	for i := range records {
		r := &records[i]
		recordMap[string(r.Kind)] = *PhaseRecordToResponse(r)
		switch r.Kind {
		case entity.RecordKindChecklist:
			hasChecklist = true
		case entity.RecordKindSurgeonNotes:
			hasSurgeonNotes = true
		}
	}

	logMap := make(map[string][]dto.CaseLogEntryResponse)
	for i := range logs {
		kind := string(logs[i].Kind)
		logMap[kind] = append(logMap[kind], *CaseLogEntryToResponse(&logs[i]))
	}

	return &dto.FullOtCaseResponse{
		Case: *OtCaseToResponse(otCase),
		Phases: dto.PhaseStatusResponse{
			PreOp:   string(otCase.PreOpPhaseStatus(hasChecklist)),
			IntraOp: string(otCase.IntraOpPhaseStatus(hasSurgeonNotes)),
			PostOp:  string(otCase.PostOpPhaseStatus()),
		},
		Records: recordMap,
		Logs:    logMap,
	}
}
