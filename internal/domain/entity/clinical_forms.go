package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownRecordKind = errors.New("unknown phase record kind")
	ErrScoreOutOfRange   = errors.New("recovery score domain must be 0, 1 or 2")
)

// PhaseForm is the tagged-variant contract behind PhaseRecord payloads:
// one concrete schema per record kind, validated before persist.
type PhaseForm interface {
	Kind() PhaseRecordKind
	Validate() error
}

// GradedAnswer is a Yes/No/Not-Applicable field on the safety checklist.
type GradedAnswer string

const (
	AnswerYes GradedAnswer = "yes"
	AnswerNo  GradedAnswer = "no"
	AnswerNA  GradedAnswer = "na"
)

func (a GradedAnswer) IsValid() bool {
	return a == AnswerYes || a == AnswerNo || a == AnswerNA
}

// CounsellingAssessment is the pre-operative counselling note.
type CounsellingAssessment struct {
	ProcedureExplained  bool   `json:"procedure_explained"`
	RisksDiscussed      bool   `json:"risks_discussed"`
	AlternativesOffered bool   `json:"alternatives_offered"`
	QuestionsAnswered   bool   `json:"questions_answered"`
	PatientConcerns     string `json:"patient_concerns,omitempty"`
	CounsellorName      string `json:"counsellor_name"`
}

func (CounsellingAssessment) Kind() PhaseRecordKind { return RecordKindCounselling }

func (f *CounsellingAssessment) Validate() error {
	if f.CounsellorName == "" {
		return fmt.Errorf("counselling: %w", errRequired("counsellor_name"))
	}
	return nil
}

// PreOpChecklist is the 25-item pre-operative preparation checklist with
// staff attribution.
type PreOpChecklist struct {
	ConsentSigned          bool `json:"consent_signed"`
	IdentityBandApplied    bool `json:"identity_band_applied"`
	SiteMarked             bool `json:"site_marked"`
	NPOConfirmed           bool `json:"npo_confirmed"`
	BloodGroupVerified     bool `json:"blood_group_verified"`
	BloodArranged          bool `json:"blood_arranged"`
	InvestigationsAttached bool `json:"investigations_attached"`
	XrayScansAvailable     bool `json:"xray_scans_available"`
	AllergiesRecorded      bool `json:"allergies_recorded"`
	MedicationsReviewed    bool `json:"medications_reviewed"`
	PreMedicationGiven     bool `json:"pre_medication_given"`
	AntibioticTestDose     bool `json:"antibiotic_test_dose"`
	BathGiven              bool `json:"bath_given"`
	SitePrepared           bool `json:"site_prepared"`
	BowelPrepDone          bool `json:"bowel_prep_done"`
	BladderEmptied         bool `json:"bladder_emptied"`
	DenturesRemoved        bool `json:"dentures_removed"`
	JewelleryRemoved       bool `json:"jewellery_removed"`
	NailPolishRemoved      bool `json:"nail_polish_removed"`
	HospitalGownWorn       bool `json:"hospital_gown_worn"`
	VitalsRecorded         bool `json:"vitals_recorded"`
	IVLineSecured          bool `json:"iv_line_secured"`
	CatheterInserted       bool `json:"catheter_inserted"`
	NGTubeInserted         bool `json:"ng_tube_inserted"`
	CaseSheetComplete      bool `json:"case_sheet_complete"`

	PreparedBy  string `json:"prepared_by"`
	VerifiedBy  string `json:"verified_by,omitempty"`
	WardRemarks string `json:"ward_remarks,omitempty"`
}

func (PreOpChecklist) Kind() PhaseRecordKind { return RecordKindChecklist }

func (f *PreOpChecklist) Validate() error {
	if f.PreparedBy == "" {
		return fmt.Errorf("checklist: %w", errRequired("prepared_by"))
	}
	return nil
}

// PreAnaestheticEvaluation is the anaesthetist's pre-operative workup.
type PreAnaestheticEvaluation struct {
	History          string `json:"history,omitempty"`
	PastAnaesthesia  string `json:"past_anaesthesia,omitempty"`
	Comorbidities    string `json:"comorbidities,omitempty"`
	Airway           string `json:"airway,omitempty"`
	ASAGrade         int    `json:"asa_grade,omitempty"` // 1..5
	Investigations   string `json:"investigations,omitempty"`
	PlannedTechnique string `json:"planned_technique,omitempty"`
	FitForSurgery    bool   `json:"fit_for_surgery"`
	AnaesthetistName string `json:"anaesthetist_name"`
}

func (PreAnaestheticEvaluation) Kind() PhaseRecordKind { return RecordKindPreAnaesthetic }

func (f *PreAnaestheticEvaluation) Validate() error {
	if f.AnaesthetistName == "" {
		return fmt.Errorf("pre-anaesthetic: %w", errRequired("anaesthetist_name"))
	}
	if f.ASAGrade < 0 || f.ASAGrade > 5 {
		return fmt.Errorf("pre-anaesthetic: asa_grade out of range")
	}
	return nil
}

// SafetyChecklist is the WHO-style surgical safety checklist across its
// three gates.
type SafetyChecklist struct {
	// Before induction of anaesthesia
	SignIn struct {
		PatientConfirmed    GradedAnswer `json:"patient_confirmed"`
		SiteMarked          GradedAnswer `json:"site_marked"`
		AnaesthesiaMachine  GradedAnswer `json:"anaesthesia_machine"`
		PulseOximeterOn     GradedAnswer `json:"pulse_oximeter_on"`
		KnownAllergy        GradedAnswer `json:"known_allergy"`
		DifficultAirwayRisk GradedAnswer `json:"difficult_airway_risk"`
		BloodLossRisk       GradedAnswer `json:"blood_loss_risk"`
	} `json:"sign_in"`

	// Before skin incision
	TimeOut struct {
		TeamIntroduced        GradedAnswer `json:"team_introduced"`
		PatientSiteConfirmed  GradedAnswer `json:"patient_site_confirmed"`
		AntibioticProphylaxis GradedAnswer `json:"antibiotic_prophylaxis"`
		CriticalEventsShared  GradedAnswer `json:"critical_events_shared"`
		ImagingDisplayed      GradedAnswer `json:"imaging_displayed"`
	} `json:"time_out"`

	// Before patient leaves the operating room
	SignOut struct {
		ProcedureRecorded GradedAnswer `json:"procedure_recorded"`
		CountsCorrect     GradedAnswer `json:"counts_correct"`
		SpecimenLabelled  GradedAnswer `json:"specimen_labelled"`
		EquipmentIssues   GradedAnswer `json:"equipment_issues"`
		RecoveryConcerns  GradedAnswer `json:"recovery_concerns"`
	} `json:"sign_out"`

	CoordinatorName string `json:"coordinator_name"`
}

func (SafetyChecklist) Kind() PhaseRecordKind { return RecordKindSafetyCheck }

func (f *SafetyChecklist) Validate() error {
	if f.CoordinatorName == "" {
		return fmt.Errorf("safety checklist: %w", errRequired("coordinator_name"))
	}
	answers := []GradedAnswer{
		f.SignIn.PatientConfirmed, f.SignIn.SiteMarked, f.SignIn.AnaesthesiaMachine,
		f.SignIn.PulseOximeterOn, f.SignIn.KnownAllergy, f.SignIn.DifficultAirwayRisk,
		f.SignIn.BloodLossRisk,
		f.TimeOut.TeamIntroduced, f.TimeOut.PatientSiteConfirmed, f.TimeOut.AntibioticProphylaxis,
		f.TimeOut.CriticalEventsShared, f.TimeOut.ImagingDisplayed,
		f.SignOut.ProcedureRecorded, f.SignOut.CountsCorrect, f.SignOut.SpecimenLabelled,
		f.SignOut.EquipmentIssues, f.SignOut.RecoveryConcerns,
	}
	for _, a := range answers {
		if a != "" && !a.IsValid() {
			return fmt.Errorf("safety checklist: invalid answer %q", a)
		}
	}
	return nil
}

// AnaesthesiaRecord is the intra-operative anaesthesia chart.
type AnaesthesiaRecord struct {
	Technique        string `json:"technique,omitempty"`
	AgentsUsed       string `json:"agents_used,omitempty"`
	FluidsGiven      string `json:"fluids_given,omitempty"`
	BloodProducts    string `json:"blood_products,omitempty"`
	Complications    string `json:"complications,omitempty"`
	Disposition      string `json:"disposition,omitempty"` // recovery | icu | ward
	AnaesthetistName string `json:"anaesthetist_name"`
}

func (AnaesthesiaRecord) Kind() PhaseRecordKind { return RecordKindAnaesthesiaRecord }

func (f *AnaesthesiaRecord) Validate() error {
	if f.AnaesthetistName == "" {
		return fmt.Errorf("anaesthesia record: %w", errRequired("anaesthetist_name"))
	}
	return nil
}

// SurgeonNotes is the operative note. Its existence marks the intra-op
// phase complete.
type SurgeonNotes struct {
	Findings           string `json:"findings"`
	ProcedureNarrative string `json:"procedure_narrative"`
	SpecimensRemoved   string `json:"specimens_removed,omitempty"`
	EstimatedBloodLoss string `json:"estimated_blood_loss,omitempty"`
	Closure            string `json:"closure,omitempty"`
	PostOpOrders       string `json:"post_op_orders,omitempty"`
	SurgeonName        string `json:"surgeon_name"`
}

func (SurgeonNotes) Kind() PhaseRecordKind { return RecordKindSurgeonNotes }

func (f *SurgeonNotes) Validate() error {
	if f.SurgeonName == "" {
		return fmt.Errorf("surgeon notes: %w", errRequired("surgeon_name"))
	}
	if f.ProcedureNarrative == "" {
		return fmt.Errorf("surgeon notes: %w", errRequired("procedure_narrative"))
	}
	return nil
}

// RecoveryScoreRow is one Aldrete scoring observation: five domains graded
// 0-2, total always derived from the parts.
type RecoveryScoreRow struct {
	RecordedAt    string `json:"recorded_at"` // HH:MM
	Activity      int    `json:"activity"`
	Respiration   int    `json:"respiration"`
	Consciousness int    `json:"consciousness"`
	O2Saturation  int    `json:"o2_saturation"`
	Circulation   int    `json:"circulation"`
	Total         int    `json:"total"`
}

// ComputeTotal returns the sum of the five graded domains.
func (r *RecoveryScoreRow) ComputeTotal() int {
	return r.Activity + r.Respiration + r.Consciousness + r.O2Saturation + r.Circulation
}

func (r *RecoveryScoreRow) Validate() error {
	for _, v := range []int{r.Activity, r.Respiration, r.Consciousness, r.O2Saturation, r.Circulation} {
		if v < 0 || v > 2 {
			return ErrScoreOutOfRange
		}
	}
	return nil
}

// PostOpAssessment is the recovery-room assessment: repeatable Aldrete
// rows, discharge vitals and a two-signature sign-off.
type PostOpAssessment struct {
	Rows []RecoveryScoreRow `json:"rows"`

	DischargePulse     int    `json:"discharge_pulse,omitempty"`
	DischargeBP        string `json:"discharge_bp,omitempty"`
	DischargeSpO2      int    `json:"discharge_spo2,omitempty"`
	DischargeTemp      string `json:"discharge_temp,omitempty"`
	PainScore          int    `json:"pain_score,omitempty"`
	Remarks            string `json:"remarks,omitempty"`
	NurseSignature     string `json:"nurse_signature"`
	PhysicianSignature string `json:"physician_signature"`
}

func (PostOpAssessment) Kind() PhaseRecordKind { return RecordKindPostOpAssessment }

// Normalize recomputes every row total from its five parts. A client-sent
// total is never trusted; a row is never persisted with a total
// inconsistent with its domains.
func (f *PostOpAssessment) Normalize() {
	for i := range f.Rows {
		f.Rows[i].Total = f.Rows[i].ComputeTotal()
	}
}

func (f *PostOpAssessment) Validate() error {
	if f.NurseSignature == "" {
		return fmt.Errorf("post-op assessment: %w", errRequired("nurse_signature"))
	}
	if f.PhysicianSignature == "" {
		return fmt.Errorf("post-op assessment: %w", errRequired("physician_signature"))
	}
	for i := range f.Rows {
		if err := f.Rows[i].Validate(); err != nil {
			return fmt.Errorf("post-op assessment row %d: %w", i, err)
		}
	}
	return nil
}

// NeonateSheet records newborn details for obstetric cases.
type NeonateSheet struct {
	DeliveryTime      string `json:"delivery_time,omitempty"` // HH:MM
	Sex               string `json:"sex,omitempty"`
	BirthWeightGrm    int    `json:"birth_weight_grm,omitempty"`
	Apgar1Min         int    `json:"apgar_1min,omitempty"`
	Apgar5Min         int    `json:"apgar_5min,omitempty"`
	Resuscitation     string `json:"resuscitation,omitempty"`
	Abnormalities     string `json:"abnormalities,omitempty"`
	PaediatricianName string `json:"paediatrician_name"`
}

func (NeonateSheet) Kind() PhaseRecordKind { return RecordKindNeonateSheet }

func (f *NeonateSheet) Validate() error {
	if f.PaediatricianName == "" {
		return fmt.Errorf("neonate sheet: %w", errRequired("paediatrician_name"))
	}
	if f.Apgar1Min < 0 || f.Apgar1Min > 10 || f.Apgar5Min < 0 || f.Apgar5Min > 10 {
		return fmt.Errorf("neonate sheet: apgar score out of range")
	}
	return nil
}

// DecodePhaseForm decodes a raw payload into the concrete form for the
// kind, normalizes derived fields and validates it.
func DecodePhaseForm(kind PhaseRecordKind, raw json.RawMessage) (PhaseForm, error) {
	var form PhaseForm
	switch kind {
	case RecordKindCounselling:
		form = &CounsellingAssessment{}
	case RecordKindChecklist:
		form = &PreOpChecklist{}
	case RecordKindPreAnaesthetic:
		form = &PreAnaestheticEvaluation{}
	case RecordKindSafetyCheck:
		form = &SafetyChecklist{}
	case RecordKindAnaesthesiaRecord:
		form = &AnaesthesiaRecord{}
	case RecordKindSurgeonNotes:
		form = &SurgeonNotes{}
	case RecordKindPostOpAssessment:
		form = &PostOpAssessment{}
	case RecordKindNeonateSheet:
		form = &NeonateSheet{}
	default:
		return nil, ErrUnknownRecordKind
	}

	if err := json.Unmarshal(raw, form); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	if assessment, ok := form.(*PostOpAssessment); ok {
		assessment.Normalize()
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return form, nil
}

// FormToJSON serializes a validated form into the JSONB payload map.
func FormToJSON(form PhaseForm) (JSON, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}
	payload := JSON{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
