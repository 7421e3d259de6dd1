package domain

import "fmt"

// Generation stages, used to identify which orchestration step failed.
const (
	StageOutline = "outline"
	StageLesson  = "lesson"
	StageQA      = "qa"
)

// IndexBuildError reports a failed vector index construction. Building
// an index from zero chunks is an error, never a silent empty index.
type IndexBuildError struct {
	Reason string
	Err    error
}

func (e *IndexBuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("index build: %s: %v", e.Reason, e.Err)
	}
	return "index build: " + e.Reason
}

func (e *IndexBuildError) Unwrap() error { return e.Err }

// GenerationError reports a failed completion call with the originating
// stage identified. A generation failure is never masked as a
// successful empty result.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
