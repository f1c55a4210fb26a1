package errors

import (
	"fmt"
	"testing"
)

func TestValidationOK(t *testing.T) {
	v := NewValidation(ErrCodeInvalidEdge, "invalid edge")
	if !v.OK() {
		t.Error("new Validation should be OK")
	}
	if err := v.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestValidationCollectsAllProblems(t *testing.T) {
	v := NewValidation(ErrCodeInvalidEdge, "invalid edge")
	v.Add("origin node is required")
	v.Addf("node %q does not exist", "Z")
	if v.Check(true, "never recorded") != true {
		t.Error("Check(true) should report true")
	}
	if v.Check(false, "weight cannot be negative") != false {
		t.Error("Check(false) should report false")
	}

	err := v.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !Is(err, ErrCodeInvalidEdge) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidEdge)
	}

	want := []string{
		"origin node is required",
		`node "Z" does not exist`,
		"weight cannot be negative",
	}
	got := Problems(err)
	if len(got) != len(want) {
		t.Fatalf("Problems() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Problems()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidationErrIsSnapshot(t *testing.T) {
	v := NewValidation(ErrCodeInvalidNode, "invalid node")
	v.Add("first")
	err := v.Err()
	v.Add("second")

	if got := len(Problems(err)); got != 1 {
		t.Errorf("Problems() length = %d, want 1 (later Add must not leak)", got)
	}
}

func TestProblemsOnPlainErrors(t *testing.T) {
	if got := Problems(fmt.Errorf("plain")); got != nil {
		t.Errorf("Problems(plain) = %v, want nil", got)
	}
	if got := Problems(New(ErrCodeInvalidInput, "no list")); got != nil {
		t.Errorf("Problems(no list) = %v, want nil", got)
	}
	wrapped := fmt.Errorf("context: %w", &Error{Code: ErrCodeInvalidEdge, Problems: []string{"p"}})
	if got := Problems(wrapped); len(got) != 1 {
		t.Errorf("Problems(wrapped) = %v, want one problem", got)
	}
}
