package http

import (
	"strings"
	"testing"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		VendorID string `validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	if err := cv.Validate(P{VendorID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{VendorID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "VendorID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestDec3Validation(t *testing.T) {
	type P struct {
		Weight string `validate:"dec3"`
	}
	cv := NewValidator()

	for _, v := range []string{"15750", "15750.5", "8250.125", "0.001"} {
		if err := cv.Validate(P{Weight: v}); err != nil {
			t.Fatalf("expected dec3 OK for %q, got %v", v, err)
		}
	}
	for _, v := range []string{"", "abc", "15750.1234", "1.00001"} {
		err := cv.Validate(P{Weight: v})
		if err == nil {
			t.Fatalf("expected dec3 error for %q", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Weight", "at most 3 decimal places") {
			t.Fatalf("expected 'at most 3 decimal places' for %q, got %+v", v, fe)
		}
	}
}

func TestGradeValidation(t *testing.T) {
	type P struct {
		Grade string `validate:"grade"`
	}
	cv := NewValidator()

	for _, v := range []string{"A", "B", "C", "REJECTED", "a", "rejected"} {
		if err := cv.Validate(P{Grade: v}); err != nil {
			t.Fatalf("expected grade OK for %q, got %v", v, err)
		}
	}
	for _, v := range []string{"", "D", "AA", "APPROVED"} {
		err := cv.Validate(P{Grade: v})
		if err == nil {
			t.Fatalf("expected grade error for %q", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Grade", "A, B, C, REJECTED") {
			t.Fatalf("expected grade message for %q, got %+v", v, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name  string `validate:"required"`
		Level int    `validate:"gte=5,lte=6"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Name: "", Level: 2})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("expected required message, got %+v", fe)
	}
	if !containsFieldMsg(fe, "Level", "greater than or equal to 5") {
		t.Fatalf("expected gte message, got %+v", fe)
	}

	err = cv.Validate(P{Name: "x", Level: 7})
	if err == nil {
		t.Fatal("expected lte error")
	}
	if !containsFieldMsg(ToFieldErrors(err), "Level", "less than or equal to 6") {
		t.Fatalf("expected lte message, got %+v", ToFieldErrors(err))
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errTest)
	if len(fe) != 1 || fe[0].Field != "_" {
		t.Fatalf("unexpected fallback mapping: %+v", fe)
	}
}

var errTest = errFake("boom")

type errFake string

func (e errFake) Error() string { return string(e) }
