package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestRepsAcceptsStringAndNumber verifies both JSON forms of a rep
// prescription decode into Reps.
func TestRepsAcceptsStringAndNumber(t *testing.T) {
	var ex struct {
		A Reps `json:"a"`
		B Reps `json:"b"`
		C Reps `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 8, "b": "8-12", "c": null}`), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ex.A != "8" {
		t.Errorf("A = %q, want 8", ex.A)
	}
	if n, ok := ex.A.Int(); !ok || n != 8 {
		t.Errorf("A.Int() = %d, %v", n, ok)
	}
	if ex.B != "8-12" {
		t.Errorf("B = %q, want 8-12", ex.B)
	}
	if _, ok := ex.B.Int(); ok {
		t.Error("range should not parse as int")
	}
	if ex.C != "" {
		t.Errorf("C = %q, want empty", ex.C)
	}
}

// TestRepsRejectsObject verifies that non-scalar reps are rejected.
func TestRepsRejectsObject(t *testing.T) {
	var r Reps
	if err := json.Unmarshal([]byte(`{"x":1}`), &r); err == nil {
		t.Fatal("expected error for object reps")
	}
}

// TestParseFocus verifies normalisation of user-supplied focus strings.
func TestParseFocus(t *testing.T) {
	tests := []struct {
		in      string
		want    AestheticFocus
		wantErr bool
	}{
		{"glutes", FocusGlutes, false},
		{" V-Taper ", FocusVTaper, false},
		{"TONED", FocusToned, false},
		{"functional", FocusFunctional, false},
		{"bulk", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFocus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFocus(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFocus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestRPEFromRIR verifies the RIR to RPE conversion including the untracked sentinel.
func TestRPEFromRIR(t *testing.T) {
	if got := RPEFromRIR(2); got != 8 {
		t.Errorf("RPEFromRIR(2) = %v, want 8", got)
	}
	if got := RPEFromRIR(UntrackedRIR); got != 0 {
		t.Errorf("RPEFromRIR(-1) = %v, want 0", got)
	}
	if got := RIRFromRPE(0); got != UntrackedRIR {
		t.Errorf("RIRFromRPE(0) = %v, want -1", got)
	}
}

// TestSessionsFromRowsGroups verifies that flat set rows regroup into
// date-ordered sessions with exercises in their logged order.
func TestSessionsFromRowsGroups(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	sessions := []Session{
		{Name: "Push", Date: d2, Exercises: []LoggedExercise{
			{Number: 1, Name: "Bench Press", Sets: []SetLog{{WeightKg: 100, Reps: 5, RPE: 8}, {WeightKg: 100, Reps: 5}}},
		}},
		{Name: "Legs", Date: d1, Exercises: []LoggedExercise{
			{Number: 2, Name: "Leg Curl", Sets: []SetLog{{WeightKg: 40, Reps: 12}}},
			{Number: 1, Name: "Back Squat", Sets: []SetLog{{WeightKg: 140, Reps: 5, RPE: 9}}},
		}},
	}

	got := SessionsFromRows(RowsFromSessions(7, sessions))
	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	if !got[0].Date.Equal(d1) || got[0].Name != "Legs" {
		t.Errorf("first session = %s %v, want Legs %v", got[0].Name, got[0].Date, d1)
	}
	if got[0].Exercises[0].Name != "Back Squat" {
		t.Errorf("first exercise = %q, want Back Squat", got[0].Exercises[0].Name)
	}
	bench := got[1].Exercises[0]
	if len(bench.Sets) != 2 {
		t.Fatalf("bench sets = %d, want 2", len(bench.Sets))
	}
	if bench.Sets[0].RPE != 8 || bench.Sets[1].RPE != 0 {
		t.Errorf("bench RPE = %v/%v, want 8/0", bench.Sets[0].RPE, bench.Sets[1].RPE)
	}
}
