package view

import (
	"errors"
	"fmt"
	"testing"
)

func TestCaptureStack_Nesting(t *testing.T) {
	var cs captureStack

	const depth = 5
	frames := make([]*frame, 0, depth)
	for i := 0; i < depth; i++ {
		f := cs.open()
		// Text written before opening the next frame must stay in this one.
		fmt.Fprintf(&f.buf, "frame-%d", i)
		frames = append(frames, f)
	}
	if cs.depth() != depth {
		t.Fatalf("depth = %d, want %d", cs.depth(), depth)
	}

	for i := depth - 1; i >= 0; i-- {
		text, err := cs.close(frames[i])
		if err != nil {
			t.Fatalf("close frame %d: %v", i, err)
		}
		want := fmt.Sprintf("frame-%d", i)
		if text != want {
			t.Errorf("frame %d captured %q, want %q", i, text, want)
		}
	}
	if cs.depth() != 0 {
		t.Errorf("depth after closing all frames = %d, want 0", cs.depth())
	}
}

func TestCaptureStack_InnerTextDoesNotLeak(t *testing.T) {
	var cs captureStack

	outer := cs.open()
	outer.buf.WriteString("outer-before ")
	inner := cs.open()
	inner.buf.WriteString("inner")

	innerText, err := cs.close(inner)
	if err != nil {
		t.Fatalf("close inner: %v", err)
	}
	outer.buf.WriteString("outer-after")

	outerText, err := cs.close(outer)
	if err != nil {
		t.Fatalf("close outer: %v", err)
	}

	if innerText != "inner" {
		t.Errorf("inner captured %q, want %q", innerText, "inner")
	}
	if outerText != "outer-before outer-after" {
		t.Errorf("outer captured %q, want %q", outerText, "outer-before outer-after")
	}
}

func TestCaptureStack_Imbalance(t *testing.T) {
	var cs captureStack

	if _, err := cs.close(&frame{}); !errors.Is(err, ErrCaptureImbalance) {
		t.Errorf("close on empty stack: got %v, want ErrCaptureImbalance", err)
	}

	bottom := cs.open()
	top := cs.open()
	if _, err := cs.close(bottom); !errors.Is(err, ErrCaptureImbalance) {
		t.Errorf("close of non-innermost frame: got %v, want ErrCaptureImbalance", err)
	}

	// The stack must still be usable in LIFO order after the bad close.
	if _, err := cs.close(top); err != nil {
		t.Errorf("close top after imbalance attempt: %v", err)
	}
	if _, err := cs.close(bottom); err != nil {
		t.Errorf("close bottom after imbalance attempt: %v", err)
	}
}
