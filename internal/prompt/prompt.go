// Package prompt asks the user to confirm overwriting existing output files.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// Survey confirms through an interactive terminal prompt.
type Survey struct {
	opts []survey.AskOpt
}

// NewSurvey constructs a terminal confirmer. Options are passed to every
// survey.AskOne call, e.g. survey.WithStdio.
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

// ConfirmOverwrite asks whether path may be overwritten. The default answer
// is no.
func (s *Survey) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	confirm := &survey.Confirm{
		Message: fmt.Sprintf("Output file %s already exists, overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(confirm, &out, s.opts...); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// Static answers every confirmation with the same value. It backs
// non-interactive runs.
type Static bool

func (s Static) ConfirmOverwrite(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(s), nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
