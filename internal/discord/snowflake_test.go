package discord

import (
	"errors"
	"strings"
	"testing"
)

func Test_IsSnowflake_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "17 digits", input: "12345678901234567", want: true},
		{name: "18 digits", input: "123456789012345678", want: true},
		{name: "20 digits", input: "12345678901234567890", want: true},
		{name: "20 digits above int64", input: "99999999999999999999", want: true},
		{name: "16 digits", input: "1234567890123456", want: false},
		{name: "21 digits", input: "123456789012345678901", want: false},
		{name: "empty", input: "", want: false},
		{name: "letters", input: "abc", want: false},
		{name: "trailing letter", input: "12345678901234567a", want: false},
		{name: "leading space", input: " 123456789012345678", want: false},
		{name: "signed", input: "-12345678901234567", want: false},
		{name: "unicode digits", input: "١٢٣٤٥٦٧٨٩٠١٢٣٤٥٦٧", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsSnowflake(tt.input); got != tt.want {
				t.Errorf("IsSnowflake(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func Test_ValidateSnowflake_NamesField(t *testing.T) {
	t.Parallel()

	err := ValidateSnowflake("channel_id", "abc")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ValidateSnowflake() error = %v, want *ValidationError", err)
	}
	if ve.Field != "channel_id" || ve.Value != "abc" {
		t.Errorf("ValidationError = %+v", ve)
	}
	if !strings.Contains(err.Error(), "channel_id") {
		t.Errorf("error message %q should name the field", err.Error())
	}

	if err := ValidateSnowflake("channel_id", "123456789012345678"); err != nil {
		t.Errorf("ValidateSnowflake(valid) = %v, want nil", err)
	}
}

func Test_ValidateSnowflakes_FirstFailureWins(t *testing.T) {
	t.Parallel()

	err := ValidateSnowflakes(
		"guild_id", "111111111111111111",
		"user_id", "bad",
		"role_id", "also-bad",
	)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Field != "user_id" {
		t.Errorf("Field = %q, want user_id", ve.Field)
	}

	if err := ValidateSnowflakes(); err != nil {
		t.Errorf("ValidateSnowflakes() with no pairs = %v, want nil", err)
	}
}
