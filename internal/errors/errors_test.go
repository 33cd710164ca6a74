package errors

import (
	"errors"
	"testing"
)

type pathError struct {
	Path string
}

func (e pathError) Error() string { return "bad path: " + e.Path }

func TestNew(t *testing.T) {
	err := New("keystore unavailable")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "keystore unavailable" {
		t.Errorf("expected 'keystore unavailable', got '%s'", err.Error())
	}
}

func TestWrap(t *testing.T) {
	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(ErrInvalidInput, "iv size")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		if wrapped.Error() != "iv size: invalid input" {
			t.Errorf("unexpected message '%s'", wrapped.Error())
		}
		if !errors.Is(wrapped, ErrInvalidInput) {
			t.Error("expected wrapped error to match ErrInvalidInput")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "context"); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	t.Run("wrapf non-nil error", func(t *testing.T) {
		wrapped := Wrapf(ErrNotFound, "record %q line %d", "STU0001", 7)
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		if wrapped.Error() != `record "STU0001" line 7: not found` {
			t.Errorf("unexpected message '%s'", wrapped.Error())
		}
		if !errors.Is(wrapped, ErrNotFound) {
			t.Error("expected wrapped error to match ErrNotFound")
		}
	})

	t.Run("wrapf nil error", func(t *testing.T) {
		if wrapped := Wrapf(nil, "context %d", 1); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestIs(t *testing.T) {
	if !Is(ErrLocked, ErrLocked) {
		t.Error("expected ErrLocked to match itself")
	}

	doubleWrapped := Wrap(Wrap(ErrUnauthorized, "verify"), "login")
	if !Is(doubleWrapped, ErrUnauthorized) {
		t.Error("expected double-wrapped error to match ErrUnauthorized")
	}

	if Is(ErrConflict, ErrForbidden) {
		t.Error("expected distinct sentinels not to match")
	}
}

func TestAs(t *testing.T) {
	wrapped := Wrap(pathError{Path: "/tmp/x"}, "open vault")

	var target pathError
	if !As(wrapped, &target) {
		t.Fatal("expected to extract pathError from chain")
	}
	if target.Path != "/tmp/x" {
		t.Errorf("expected '/tmp/x', got '%s'", target.Path)
	}
}

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		err  error
		text string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
		{ErrLocked, "locked"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.text {
			t.Errorf("expected text '%s' for sentinel, got '%s'", tt.text, tt.err.Error())
		}
	}
}
