package domain

import "fmt"

// Stage names used in error events so the client can tell which step failed.
const (
	TranscodingStage   = "transcoding"
	TranscriptionStage = "transcription"
	PlanningStage      = "planning"
	StreamingStage     = "streaming"
	IllustrationStage  = "illustration"
)

// TranscodingError is a local ffmpeg failure. It carries the declared content
// type and size of the payload that could not be converted.
type TranscodingError struct {
	ContentType string
	Size        int
	Err         error
}

func (e *TranscodingError) Error() string {
	return fmt.Sprintf("transcoding failed for content type %q (%d bytes): %v", e.ContentType, e.Size, e.Err)
}

func (e *TranscodingError) Unwrap() error {
	return e.Err
}

// TranscriptionError is a failed speech-to-text call.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

// PlanningError is a failed title/gist generation call.
type PlanningError struct {
	Err error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("story planning failed: %v", e.Err)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// MalformedPlanError means the planner response came back but did not parse
// into the expected shape. Raw keeps the response body for diagnostics.
type MalformedPlanError struct {
	Raw string
	Err error
}

func (e *MalformedPlanError) Error() string {
	return fmt.Sprintf("malformed plan response: %v", e.Err)
}

func (e *MalformedPlanError) Unwrap() error {
	return e.Err
}

// StreamingError is a failure of the streaming story generation call.
type StreamingError struct {
	Err error
}

func (e *StreamingError) Error() string {
	return fmt.Sprintf("story streaming failed: %v", e.Err)
}

func (e *StreamingError) Unwrap() error {
	return e.Err
}

// IllustrationError is a failed image generation call.
type IllustrationError struct {
	Err error
}

func (e *IllustrationError) Error() string {
	return fmt.Sprintf("illustration failed: %v", e.Err)
}

func (e *IllustrationError) Unwrap() error {
	return e.Err
}
