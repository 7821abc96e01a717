package models

import "fmt"

// Error codes used in logs and internal error handling.
const (
	ErrCodeTimeout      = "PIPELINE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeNoListings   = "NO_LISTINGS_FOUND"
	ErrCodeCapture      = "CAPTURE_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeStorage      = "STORAGE_FAILURE"

	// Vision-service error codes.
	ErrCodeVisionFailure     = "VISION_FAILURE"
	ErrCodeVisionAuthFailure = "VISION_AUTH_FAILURE"
	ErrCodeVisionRateLimited = "VISION_RATE_LIMITED"
)

// PipelineError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type PipelineError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(code, message string, err error) *PipelineError {
	return &PipelineError{Code: code, Message: message, Err: err}
}
