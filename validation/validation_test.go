package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/kbukum/opgate/errors"
)

func TestInputOperatorName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"valid", "switchMap", ""},
		{"empty", "", "is required"},
		{"blank", "   ", "is required"},
		{"too long", strings.Repeat("x", MaxOperatorName+1), "must be 64 characters or less"},
		{"at limit", strings.Repeat("x", MaxOperatorName), ""},
		{"inner space", "switch map", "must not contain whitespace"},
		{"unknown but well formed", "nope", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := Check().OperatorName(tc.input).Fields()
			if tc.wantMsg == "" {
				if len(fields) != 0 {
					t.Fatalf("expected no errors, got %v", fields)
				}
				return
			}
			if len(fields) != 1 {
				t.Fatalf("expected one error, got %v", fields)
			}
			if fields[0].Field != "operator" || fields[0].Message != tc.wantMsg {
				t.Errorf("got %+v, want operator: %s", fields[0], tc.wantMsg)
			}
		})
	}
}

func TestInputValue(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"integer", 4, false},
		{"zero", 0, false},
		{"negative fraction", -2.5, false},
		{"nan", math.NaN(), true},
		{"positive inf", math.Inf(1), true},
		{"negative inf", math.Inf(-1), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Check().Value(tc.value).Err()
			if (err != nil) != tc.wantErr {
				t.Errorf("Err() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestInputErr(t *testing.T) {
	if appErr := Check().OperatorName("take").Value(1).Err(); appErr != nil {
		t.Errorf("expected nil for valid input, got %v", appErr)
	}

	appErr := Check().OperatorName("").Value(math.NaN()).Err()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.Message != "operator: is required; value: must be a finite number" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", appErr.Details["fields"])
	}
}

type durations struct {
	TakeCount   int     `json:"take_count" validate:"gt=0"`
	MapFactor   float64 `json:"map_factor"`
	QueueSize   int     `json:"queue_size" validate:"gte=1,lte=65536"`
	Environment string  `json:"environment" validate:"required,oneof=development staging production"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(durations{TakeCount: 3, QueueSize: 1024, Environment: "development"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(durations{TakeCount: 0, QueueSize: 0, Environment: "qa"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	for _, want := range []string{
		"take_count: must be greater than 0",
		"queue_size: must be at least 1",
		"environment: must be one of: development staging production",
	} {
		if !strings.Contains(errStr, want) {
			t.Errorf("expected error to mention %q, got %q", want, errStr)
		}
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %v", appErr.Details["fields"])
	}
}

func TestStructValidateRequestBody(t *testing.T) {
	type selectRequest struct {
		Operator string `json:"operator" validate:"required,max=8"`
	}
	if err := Validate(selectRequest{Operator: "map"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	if err := Validate(selectRequest{Operator: "debounceTime"}); err == nil {
		t.Error("expected error for operator too long")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("DebounceWindow"); got != "debounce_window" {
		t.Errorf("toSnakeCase = %q", got)
	}
}
