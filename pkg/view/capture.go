package view

import (
	"bytes"
	"fmt"
)

// frame is one level of the output capture stack. Text produced by a view
// accumulates only into the innermost frame; closing a frame yields its
// text and exposes the frame below it (if any) as active.
type frame struct {
	buf bytes.Buffer
}

// captureStack is a strict LIFO stack of output frames. Each Renderer
// owns exactly one stack, so concurrent requests can never cross-
// contaminate each other's captured output. Nested renders within one
// request are ordinary recursive calls and push/pop in order.
//
// The invariant the rest of the package depends on: every open is paired
// with exactly one close, on every exit path including view execution
// failures. The renderer enforces this with a deferred release.
type captureStack struct {
	frames []*frame
}

// open pushes a new frame and returns it. The frame becomes the sole
// destination for view output until the matching close.
func (cs *captureStack) open() *frame {
	f := &frame{}
	cs.frames = append(cs.frames, f)
	return f
}

// close pops f off the stack and returns its captured text. Closing a
// frame that is not the innermost one reports ErrCaptureImbalance; that
// state corrupts all subsequent output on the request and is treated as
// fatal by callers.
func (cs *captureStack) close(f *frame) (string, error) {
	n := len(cs.frames)
	if n == 0 {
		return "", fmt.Errorf("close with no open frame: %w", ErrCaptureImbalance)
	}
	if cs.frames[n-1] != f {
		return "", fmt.Errorf("close of non-innermost frame: %w", ErrCaptureImbalance)
	}
	cs.frames[n-1] = nil
	cs.frames = cs.frames[:n-1]
	return f.buf.String(), nil
}

// depth returns the current nesting depth. Exposed for tests and for the
// renderer's own sanity checks.
func (cs *captureStack) depth() int {
	return len(cs.frames)
}
