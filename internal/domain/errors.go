package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateInvalid  = errors.New("template invalid")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrModelTimeout     = errors.New("model timeout")
	ErrInvalidJSON      = errors.New("invalid json payload")
	ErrProviderFailure  = errors.New("provider failure")
	ErrUploadFailed     = errors.New("upload failed")
)

// Pipeline stage names used in GenerationError and structured logs.
const (
	StageAnalysis = "analysis"
	StageDesign   = "design"
	StageContent  = "content"
	StageImages   = "images"
	StageTemplate = "template"
	StageAssemble = "assemble"
)

// GenerationError marks a fatal pipeline failure and records which stage
// aborted the request.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation failed at %s stage", e.Stage)
	}
	return fmt.Sprintf("generation failed at %s stage: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps cause as a fatal failure of the named stage.
func NewGenerationError(stage string, cause error) *GenerationError {
	return &GenerationError{Stage: stage, Err: cause}
}
