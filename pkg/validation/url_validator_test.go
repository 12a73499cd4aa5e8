package validation

import (
	"testing"

	apperrors "pupilscreen/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Fatalf("expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateCaptureURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/capture.jpg",
		"https://example.com/capture.png",
		"https://clinic.example.com/patients/42/od.webp",
		"http://192.168.1.1/capture.jpg",
	}
	for _, url := range validURLs {
		if err := validator.ValidateCaptureURL(url); err != nil {
			t.Errorf("expected %s to pass validation, got: %v", url, err)
		}
	}
}

func TestValidateCaptureURL_EmptyURL(t *testing.T) {
	validator := NewURLValidator()

	for _, url := range []string{"", "   ", "\t\n"} {
		err := validator.ValidateCaptureURL(url)
		if err == nil {
			t.Errorf("expected empty URL %q to fail validation", url)
			continue
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			if appErr.Message != "URL cannot be empty" {
				t.Errorf("expected 'URL cannot be empty', got: %s", appErr.Message)
			}
		} else {
			t.Errorf("expected AppError, got: %T", err)
		}
	}
}

func TestValidateCaptureURL_InvalidScheme(t *testing.T) {
	validator := NewURLValidator()

	invalidSchemeURLs := []string{
		"ftp://example.com/capture.jpg",
		"file://local/path/capture.jpg",
		"not-a-url",
	}
	for _, url := range invalidSchemeURLs {
		if err := validator.ValidateCaptureURL(url); err == nil {
			t.Errorf("expected %q to fail validation", url)
		}
	}
}

func TestValidateCaptureURL_NoHost(t *testing.T) {
	validator := NewURLValidator()

	for _, url := range []string{"http://", "https://", "http:///path"} {
		err := validator.ValidateCaptureURL(url)
		if err == nil {
			t.Errorf("expected URL without host %q to fail validation", url)
			continue
		}
		if appErr, ok := err.(*apperrors.AppError); ok {
			if appErr.Message != "URL must have a valid host" {
				t.Errorf("expected 'URL must have a valid host', got: %s", appErr.Message)
			}
		}
	}
}

func TestValidateCaptureURL_RestrictedHosts(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"clinic.example.com"})

	if err := validator.ValidateCaptureURL("https://clinic.example.com/capture.png"); err != nil {
		t.Errorf("expected allowed host to pass, got: %v", err)
	}

	err := validator.ValidateCaptureURL("https://elsewhere.com/capture.png")
	if err == nil {
		t.Fatal("expected disallowed host to fail validation")
	}
	if appErr, ok := err.(*apperrors.AppError); ok {
		if appErr.Message != "URL host not allowed" {
			t.Errorf("expected 'URL host not allowed', got: %s", appErr.Message)
		}
	}
}

func TestIsHostAllowed_NoRestrictions(t *testing.T) {
	validator := NewURLValidator()

	if !validator.isHostAllowed("anywhere.example.com") {
		t.Error("expected any host to be allowed without restrictions")
	}
}
