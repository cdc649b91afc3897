package clipboard

import (
	"context"
	"errors"
	"testing"
)

type plainWriter struct{ err error }

func (p plainWriter) WriteText(context.Context, string) error { return p.err }

func TestCopy_Success(t *testing.T) {
	mem := &Memory{}

	if err := Copy(context.Background(), mem, AlwaysFocused, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Text() != "hello" {
		t.Errorf("expected 'hello', got '%s'", mem.Text())
	}
}

func TestCopy_Unfocused(t *testing.T) {
	mem := &Memory{}
	unfocused := FocusFunc(func() bool { return false })

	err := Copy(context.Background(), mem, unfocused, "hello")

	if !errors.Is(err, ErrUnfocused) {
		t.Fatalf("expected ErrUnfocused, got %v", err)
	}
	if errors.Is(err, ErrClipboard) {
		t.Error("unfocused must not be reported as a clipboard failure")
	}
	if mem.Text() != "" {
		t.Error("expected nothing to be written")
	}
}

func TestCopy_WriteFailure(t *testing.T) {
	mem := &Memory{Err: errors.New("denied")}

	err := Copy(context.Background(), mem, nil, "hello")

	if !errors.Is(err, ErrClipboard) {
		t.Fatalf("expected ErrClipboard, got %v", err)
	}
	if errors.Is(err, ErrUnfocused) {
		t.Error("write failure must not be reported as unfocused")
	}
}

func TestCopy_WrapsForeignErrors(t *testing.T) {
	err := Copy(context.Background(), plainWriter{err: errors.New("boom")}, AlwaysFocused, "x")

	if !errors.Is(err, ErrClipboard) {
		t.Errorf("expected foreign error to be wrapped in ErrClipboard, got %v", err)
	}
}

func TestSystem_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := (System{}).WriteText(ctx, "x"); !errors.Is(err, ErrClipboard) {
		t.Errorf("expected ErrClipboard for canceled context, got %v", err)
	}
}
