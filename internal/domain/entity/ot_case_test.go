package entity

import "testing"

func TestCanTransitionTo(t *testing.T) {
	all := []OtCaseStatus{
		OtCaseStatusScheduled, OtCaseStatusInPrep, OtCaseStatusInProgress,
		OtCaseStatusCompleted, OtCaseStatusCancelled, OtCaseStatusPostponed,
	}

	legal := map[OtCaseStatus]map[OtCaseStatus]bool{
		OtCaseStatusScheduled: {
			OtCaseStatusInPrep:    true,
			OtCaseStatusCancelled: true,
			OtCaseStatusPostponed: true,
		},
		OtCaseStatusInPrep: {
			OtCaseStatusInProgress: true,
			OtCaseStatusCancelled:  true,
			OtCaseStatusPostponed:  true,
		},
		OtCaseStatusInProgress: {
			OtCaseStatusCompleted: true,
		},
		OtCaseStatusCompleted: {},
		OtCaseStatusCancelled: {},
		OtCaseStatusPostponed: {
			OtCaseStatusScheduled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			c := &OtCase{Status: from}
			got := c.CanTransitionTo(to)
			want := legal[from][to]
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCompletedAndCancelledAreTerminal(t *testing.T) {
	targets := []OtCaseStatus{
		OtCaseStatusScheduled, OtCaseStatusInPrep, OtCaseStatusInProgress,
		OtCaseStatusCompleted, OtCaseStatusCancelled, OtCaseStatusPostponed,
	}
	for _, terminal := range []OtCaseStatus{OtCaseStatusCompleted, OtCaseStatusCancelled} {
		c := &OtCase{Status: terminal}
		for _, to := range targets {
			if c.CanTransitionTo(to) {
				t.Errorf("%s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestCancelOnlyBeforeSurgeryStarts(t *testing.T) {
	cancellable := map[OtCaseStatus]bool{
		OtCaseStatusScheduled: true,
		OtCaseStatusInPrep:    true,
	}
	for _, from := range []OtCaseStatus{
		OtCaseStatusScheduled, OtCaseStatusInPrep, OtCaseStatusInProgress,
		OtCaseStatusCompleted, OtCaseStatusPostponed,
	} {
		c := &OtCase{Status: from}
		if got := c.CanTransitionTo(OtCaseStatusCancelled); got != cancellable[from] {
			t.Errorf("cancel from %s = %v, want %v", from, got, cancellable[from])
		}
	}
}

func TestRoleMayTransition(t *testing.T) {
	tests := []struct {
		roleID int
		want   bool
	}{
		{RoleIDAdmin, true},
		{RoleIDDoctor, true},
		{RoleIDNurse, false},
		{RoleIDPatient, false},
		{0, false},
		{99, false},
	}
	for _, tt := range tests {
		if got := RoleMayTransition(tt.roleID); got != tt.want {
			t.Errorf("RoleMayTransition(%d) = %v, want %v", tt.roleID, got, tt.want)
		}
	}
}

func TestIsReschedulable(t *testing.T) {
	tests := []struct {
		status OtCaseStatus
		want   bool
	}{
		{OtCaseStatusScheduled, true},
		{OtCaseStatusPostponed, true},
		{OtCaseStatusInPrep, false},
		{OtCaseStatusInProgress, false},
		{OtCaseStatusCompleted, false},
		{OtCaseStatusCancelled, false},
	}
	for _, tt := range tests {
		c := &OtCase{Status: tt.status}
		if got := c.IsReschedulable(); got != tt.want {
			t.Errorf("IsReschedulable(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPhaseStatusDerivation(t *testing.T) {
	tests := []struct {
		name            string
		status          OtCaseStatus
		hasChecklist    bool
		hasSurgeonNotes bool
		wantPreOp       PhaseStatus
		wantIntraOp     PhaseStatus
		wantPostOp      PhaseStatus
	}{
		{
			name:        "freshly scheduled",
			status:      OtCaseStatusScheduled,
			wantPreOp:   PhaseStatusPending,
			wantIntraOp: PhaseStatusPending,
			wantPostOp:  PhaseStatusPending,
		},
		{
			name:        "in prep without checklist",
			status:      OtCaseStatusInPrep,
			wantPreOp:   PhaseStatusActive,
			wantIntraOp: PhaseStatusPending,
			wantPostOp:  PhaseStatusPending,
		},
		{
			name:         "in prep with checklist",
			status:       OtCaseStatusInPrep,
			hasChecklist: true,
			wantPreOp:    PhaseStatusComplete,
			wantIntraOp:  PhaseStatusPending,
			wantPostOp:   PhaseStatusPending,
		},
		{
			name:         "in progress without notes",
			status:       OtCaseStatusInProgress,
			hasChecklist: true,
			wantPreOp:    PhaseStatusComplete,
			wantIntraOp:  PhaseStatusActive,
			wantPostOp:   PhaseStatusPending,
		},
		{
			name:            "completed with all records",
			status:          OtCaseStatusCompleted,
			hasChecklist:    true,
			hasSurgeonNotes: true,
			wantPreOp:       PhaseStatusComplete,
			wantIntraOp:     PhaseStatusComplete,
			wantPostOp:      PhaseStatusComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &OtCase{Status: tt.status}
			if got := c.PreOpPhaseStatus(tt.hasChecklist); got != tt.wantPreOp {
				t.Errorf("PreOpPhaseStatus = %s, want %s", got, tt.wantPreOp)
			}
			if got := c.IntraOpPhaseStatus(tt.hasSurgeonNotes); got != tt.wantIntraOp {
				t.Errorf("IntraOpPhaseStatus = %s, want %s", got, tt.wantIntraOp)
			}
			if got := c.PostOpPhaseStatus(); got != tt.wantPostOp {
				t.Errorf("PostOpPhaseStatus = %s, want %s", got, tt.wantPostOp)
			}
		})
	}
}

func TestIsObstetric(t *testing.T) {
	if c := (&OtCase{SurgeryType: "obstetric"}); !c.IsObstetric() {
		t.Error("obstetric surgery type not recognized")
	}
	if c := (&OtCase{SurgeryType: "orthopaedic"}); c.IsObstetric() {
		t.Error("orthopaedic case reported as obstetric")
	}
	if c := (&OtCase{}); c.IsObstetric() {
		t.Error("empty surgery type reported as obstetric")
	}
}

func TestRecordKindPhases(t *testing.T) {
	tests := []struct {
		kind  PhaseRecordKind
		phase string
	}{
		{RecordKindCounselling, "pre_op"},
		{RecordKindChecklist, "pre_op"},
		{RecordKindPreAnaesthetic, "pre_op"},
		{RecordKindSafetyCheck, "pre_op"},
		{RecordKindAnaesthesiaRecord, "intra_op"},
		{RecordKindSurgeonNotes, "intra_op"},
		{RecordKindPostOpAssessment, "post_op"},
		{RecordKindNeonateSheet, "post_op"},
	}
	for _, tt := range tests {
		if got := tt.kind.Phase(); got != tt.phase {
			t.Errorf("%s.Phase() = %s, want %s", tt.kind, got, tt.phase)
		}
	}

	if !RecordKindNeonateSheet.ObstetricOnly() {
		t.Error("neonate sheet must be obstetric-only")
	}
	if RecordKindChecklist.ObstetricOnly() {
		t.Error("checklist must not be obstetric-only")
	}
	if !LogKindLabourChart.ObstetricOnly() {
		t.Error("labour chart must be obstetric-only")
	}
	if LogKindTimeLog.ObstetricOnly() {
		t.Error("time log must not be obstetric-only")
	}
}
