package render

import "fmt"

// Stage names the phase a render failed in.
type Stage string

const (
	StageView    Stage = "view"
	StageExecute Stage = "execute"
)

// RenderError reports a template that failed to parse or execute, or data
// that could not be shaped into template values.
type RenderError struct {
	Stage Stage
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
