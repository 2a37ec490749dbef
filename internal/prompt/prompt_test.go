package prompt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestStatic(t *testing.T) {
	ok, err := Static(true).ConfirmOverwrite(context.Background(), "out.html")
	if err != nil || !ok {
		t.Fatalf("Static(true) = %v, %v", ok, err)
	}
	ok, err = Static(false).ConfirmOverwrite(context.Background(), "out.html")
	if err != nil || ok {
		t.Fatalf("Static(false) = %v, %v", ok, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Static(true).ConfirmOverwrite(ctx, "out.html"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(fmt.Errorf("ask: %w", terminal.InterruptErr)); !errors.Is(err, ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted, got %v", err)
	}
	other := errors.New("eof")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("other errors should pass through, got %v", err)
	}
}
