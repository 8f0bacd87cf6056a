package errors

import (
	"strings"
	"testing"
)

func TestValidateDestination(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Paris", false},
		{"valid with comma", "Paris, France", false},
		{"valid unicode", "Zürich", false},
		{"valid padded", "  Tokyo  ", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDestination(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDestination(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateDestination(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateLandmarkID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "eiffel-tower", false},
		{"valid single", "santorini", false},
		{"valid digits", "pier-39", false},

		{"empty", "", true},
		{"uppercase", "Eiffel-Tower", true},
		{"spaces", "eiffel tower", true},
		{"leading dash", "-eiffel", true},
		{"double dash", "eiffel--tower", true},
		{"path", "../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLandmarkID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLandmarkID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://upload.wikimedia.org/a.jpg", false},
		{"http", "http://example.com/b.png", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com/a.jpg", true},
		{"file", "file:///etc/passwd", true},
		{"data uri", "data:image/png;base64,AAAA", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFraction(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{0.55, false},
		{1, false},
		{0.0001, false},
		{0, true},
		{-0.2, true},
		{1.01, true},
	}

	for _, tt := range tests {
		err := ValidateFraction("height_fraction", tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFraction(%g) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}
