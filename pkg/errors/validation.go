package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Stdin is the input path that selects standard input.
const Stdin = "-"

// ValidateInputPath checks that path names a readable regular file, or is
// Stdin. It does not open the file.
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "input path cannot be empty")
	}
	if path == Stdin {
		return nil
	}
	if err := validateChars(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "input file %s does not exist", path)
	}
	if err != nil {
		return Wrap(ErrCodeIO, err, "stat %s", path)
	}
	if !info.Mode().IsRegular() {
		return New(ErrCodeInvalidInput, "input file %s is not a regular file", path)
	}
	return nil
}

// ValidateOutputPath checks that path is a usable PNG destination: non-empty,
// ending in .png, inside an existing directory.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if err := validateChars(path); err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		return New(ErrCodeInvalidInput, "output %s must have a .png extension", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "output directory %s does not exist", dir)
	}
	if err != nil {
		return Wrap(ErrCodeIO, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidInput, "%s is not a directory", dir)
	}
	return nil
}

func validateChars(path string) error {
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path %q contains invalid characters", path)
		}
	}
	return nil
}
