package entity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRecoveryScoreRowComputeTotal(t *testing.T) {
	row := RecoveryScoreRow{
		Activity:      2,
		Respiration:   1,
		Consciousness: 2,
		O2Saturation:  2,
		Circulation:   1,
	}
	if got := row.ComputeTotal(); got != 8 {
		t.Errorf("ComputeTotal() = %d, want 8", got)
	}
}

func TestRecoveryScoreRowValidateRange(t *testing.T) {
	good := RecoveryScoreRow{Activity: 0, Respiration: 2, Consciousness: 1, O2Saturation: 2, Circulation: 0}
	if err := good.Validate(); err != nil {
		t.Errorf("valid row rejected: %v", err)
	}

	bad := RecoveryScoreRow{Activity: 3}
	if err := bad.Validate(); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("score 3 accepted, want ErrScoreOutOfRange, got %v", err)
	}

	negative := RecoveryScoreRow{Circulation: -1}
	if err := negative.Validate(); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("score -1 accepted, want ErrScoreOutOfRange, got %v", err)
	}
}

func TestPostOpAssessmentNormalizeRecomputesTotals(t *testing.T) {
	assessment := PostOpAssessment{
		Rows: []RecoveryScoreRow{
			{Activity: 2, Respiration: 2, Consciousness: 2, O2Saturation: 2, Circulation: 2, Total: 3},
			{Activity: 1, Respiration: 1, Consciousness: 1, O2Saturation: 1, Circulation: 1, Total: 99},
		},
		NurseSignature:     "RN Mathew",
		PhysicianSignature: "Dr. Rao",
	}

	assessment.Normalize()
	if assessment.Rows[0].Total != 10 {
		t.Errorf("row 0 total = %d, want 10 (client total must be discarded)", assessment.Rows[0].Total)
	}
	if assessment.Rows[1].Total != 5 {
		t.Errorf("row 1 total = %d, want 5", assessment.Rows[1].Total)
	}
}

func TestPostOpAssessmentRequiresBothSignatures(t *testing.T) {
	missing := PostOpAssessment{PhysicianSignature: "Dr. Rao"}
	if err := missing.Validate(); err == nil {
		t.Error("missing nurse signature accepted")
	}

	missing = PostOpAssessment{NurseSignature: "RN Mathew"}
	if err := missing.Validate(); err == nil {
		t.Error("missing physician signature accepted")
	}
}

func TestDecodePhaseFormPostOpAssessment(t *testing.T) {
	// Client sends a wrong total; the decoded form must carry the derived
	// one.
	raw := json.RawMessage(`{
		"rows": [
			{"recorded_at": "10:15", "activity": 2, "respiration": 1, "consciousness": 2, "o2_saturation": 2, "circulation": 1, "total": 4}
		],
		"nurse_signature": "RN Mathew",
		"physician_signature": "Dr. Rao"
	}`)

	form, err := DecodePhaseForm(RecordKindPostOpAssessment, raw)
	if err != nil {
		t.Fatalf("DecodePhaseForm returned error: %v", err)
	}

	assessment, ok := form.(*PostOpAssessment)
	if !ok {
		t.Fatalf("decoded form is %T, want *PostOpAssessment", form)
	}
	if assessment.Rows[0].Total != 8 {
		t.Errorf("decoded row total = %d, want derived 8", assessment.Rows[0].Total)
	}
}

func TestDecodePhaseFormRejectsOutOfRangeScores(t *testing.T) {
	raw := json.RawMessage(`{
		"rows": [{"activity": 5, "respiration": 1, "consciousness": 1, "o2_saturation": 1, "circulation": 1}],
		"nurse_signature": "RN Mathew",
		"physician_signature": "Dr. Rao"
	}`)

	if _, err := DecodePhaseForm(RecordKindPostOpAssessment, raw); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("out-of-range score accepted, got %v", err)
	}
}

func TestDecodePhaseFormUnknownKind(t *testing.T) {
	if _, err := DecodePhaseForm("discharge_summary", json.RawMessage(`{}`)); !errors.Is(err, ErrUnknownRecordKind) {
		t.Errorf("unknown kind accepted, got %v", err)
	}
}

func TestDecodePhaseFormMalformedPayload(t *testing.T) {
	if _, err := DecodePhaseForm(RecordKindChecklist, json.RawMessage(`{not json`)); err == nil {
		t.Error("malformed payload accepted")
	}
}

func TestDecodePhaseFormChecklistRequiresPreparedBy(t *testing.T) {
	if _, err := DecodePhaseForm(RecordKindChecklist, json.RawMessage(`{"consent_signed": true}`)); err == nil {
		t.Error("checklist without prepared_by accepted")
	}

	form, err := DecodePhaseForm(RecordKindChecklist, json.RawMessage(`{"consent_signed": true, "prepared_by": "RN Leela"}`))
	if err != nil {
		t.Fatalf("valid checklist rejected: %v", err)
	}
	if form.Kind() != RecordKindChecklist {
		t.Errorf("form kind = %s, want %s", form.Kind(), RecordKindChecklist)
	}
}

func TestDecodePhaseFormSurgeonNotes(t *testing.T) {
	if _, err := DecodePhaseForm(RecordKindSurgeonNotes, json.RawMessage(`{"surgeon_name": "Dr. Rao"}`)); err == nil {
		t.Error("surgeon notes without procedure narrative accepted")
	}

	raw := json.RawMessage(`{"surgeon_name": "Dr. Rao", "procedure_narrative": "Midline incision, appendix removed."}`)
	if _, err := DecodePhaseForm(RecordKindSurgeonNotes, raw); err != nil {
		t.Errorf("valid surgeon notes rejected: %v", err)
	}
}

func TestDecodePhaseFormSafetyChecklistAnswers(t *testing.T) {
	raw := json.RawMessage(`{
		"sign_in": {"patient_confirmed": "yes", "site_marked": "na"},
		"time_out": {"team_introduced": "yes"},
		"sign_out": {"counts_correct": "maybe"},
		"coordinator_name": "RN Leela"
	}`)
	if _, err := DecodePhaseForm(RecordKindSafetyCheck, raw); err == nil {
		t.Error("graded answer outside yes/no/na accepted")
	}

	raw = json.RawMessage(`{
		"sign_in": {"patient_confirmed": "yes", "site_marked": "na"},
		"sign_out": {"counts_correct": "yes"},
		"coordinator_name": "RN Leela"
	}`)
	if _, err := DecodePhaseForm(RecordKindSafetyCheck, raw); err != nil {
		t.Errorf("valid safety checklist rejected: %v", err)
	}
}

func TestDecodePhaseFormNeonateSheetApgarRange(t *testing.T) {
	raw := json.RawMessage(`{"paediatrician_name": "Dr. Nair", "apgar_1min": 11}`)
	if _, err := DecodePhaseForm(RecordKindNeonateSheet, raw); err == nil {
		t.Error("apgar score 11 accepted")
	}

	raw = json.RawMessage(`{"paediatrician_name": "Dr. Nair", "apgar_1min": 8, "apgar_5min": 9}`)
	if _, err := DecodePhaseForm(RecordKindNeonateSheet, raw); err != nil {
		t.Errorf("valid neonate sheet rejected: %v", err)
	}
}

func TestFormToJSONRoundTrip(t *testing.T) {
	form := &SurgeonNotes{
		SurgeonName:        "Dr. Rao",
		ProcedureNarrative: "Appendicectomy, uneventful.",
		EstimatedBloodLoss: "50ml",
	}

	payload, err := FormToJSON(form)
	if err != nil {
		t.Fatalf("FormToJSON returned error: %v", err)
	}
	if payload["surgeon_name"] != "Dr. Rao" {
		t.Errorf("payload surgeon_name = %v, want Dr. Rao", payload["surgeon_name"])
	}
	if payload["procedure_narrative"] != "Appendicectomy, uneventful." {
		t.Errorf("payload procedure_narrative = %v", payload["procedure_narrative"])
	}
}
