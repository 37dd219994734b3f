package dataerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{Input("reader must not be nil"), "input: reader must not be nil"},
		{FormatAtLine(3, "column count mismatch"), "format: column count mismatch (line 3)"},
		{FormatAtOffset(12, "unexpected token"), "format: unexpected token (offset 12)"},
		{Write("flush output").WithCause(io.ErrClosedPipe), "write: flush output: io: read/write on closed pipe"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error() = %q; want %q", got, tc.want)
		}
	}
}

func TestOffsetDefaultsOmitted(t *testing.T) {
	// Offset -1 means "not applicable" and must not render.
	e := Format("bad document")
	if e.Offset != -1 {
		t.Fatalf("default offset = %d; want -1", e.Offset)
	}
	if got := e.Error(); got != "format: bad document" {
		t.Fatalf("Error() = %q", got)
	}

	// Offset 0 is a real position.
	if got := FormatAtOffset(0, "x").Error(); got != "format: x (offset 0)" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Write("create file").WithCause(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is lost the cause")
	}

	var de *Error
	wrapped := fmt.Errorf("stage failed: %w", err)
	if !errors.As(wrapped, &de) || de.Kind != KindWrite {
		t.Fatalf("errors.As through fmt wrap failed: %v", wrapped)
	}
}

func TestIsKind(t *testing.T) {
	err := State("stream already consumed")
	if !IsKind(err, KindState) {
		t.Fatalf("IsKind missed direct error")
	}
	if IsKind(err, KindFormat) {
		t.Fatalf("IsKind matched wrong kind")
	}
	if !IsKind(fmt.Errorf("outer: %w", err), KindState) {
		t.Fatalf("IsKind missed wrapped error")
	}
	if IsKind(nil, KindState) || IsKind(errors.New("plain"), KindState) {
		t.Fatalf("IsKind false positive")
	}
}
