package errors

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "reads.bam")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		code    Code
		wantErr bool
	}{
		{"regular file", file, "", false},
		{"stdin", "-", "", false},

		{"empty", "", ErrCodeInvalidInput, true},
		{"missing", filepath.Join(dir, "nope.bam"), ErrCodeFileNotFound, true},
		{"directory", dir, ErrCodeInvalidInput, true},
		{"control char", "foo\x01.bam", ErrCodeInvalidInput, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, tt.code) {
				t.Errorf("ValidateInputPath(%q) code = %v, want %v", tt.input, GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png in temp dir", filepath.Join(dir, "out.png"), false},
		{"uppercase extension", filepath.Join(dir, "out.PNG"), false},

		{"empty", "", true},
		{"wrong extension", filepath.Join(dir, "out.jpg"), true},
		{"missing directory", filepath.Join(dir, "sub", "out.png"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
