package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeSubmission, "all strategies failed", errors.New("boom"))
	if !errors.Is(err, ErrSubmission) {
		t.Fatal("expected submission error to match sentinel")
	}
	if errors.Is(err, ErrReceipt) {
		t.Fatal("submission error must not match receipt sentinel")
	}

	wrapped := fmt.Errorf("lifecycle: %w", err)
	if CodeOf(wrapped) != CodeSubmission {
		t.Fatalf("expected SUBMISSION, got %s", CodeOf(wrapped))
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("nonce too low")
	err := Wrap(CodeReceipt, "wait receipt", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "wait receipt: nonce too low" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(CodePrecondition, "Game fee not loaded")); got != "Game fee not loaded" {
		t.Errorf("precondition message = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("plain message = %q", got)
	}
	if UserMessage(nil) != "" {
		t.Error("nil error should render empty")
	}
	if CodeOf(errors.New("x")) != CodeUnknown {
		t.Error("expected unknown code for foreign errors")
	}
}
