package formula

import (
	"errors"
	"strings"
	"testing"
)

func TestParseOptionsEmpty(t *testing.T) {
	opts, err := ParseOptions(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Common || opts.Shared || opts.Init != nil {
		t.Errorf("zero clause should yield zero options, got %+v", opts)
	}
}

func TestParseOptionsKeywords(t *testing.T) {
	opts, err := ParseOptions(NewOp("+", NewSym("common"), NewSym("shared")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.Common || !opts.Shared {
		t.Errorf("got %+v, want common and shared set", opts)
	}
}

func TestParseOptionsInit(t *testing.T) {
	clause := NewOp("+", NewSym("common"),
		NewCall("init", NewNum(0.1), NewCall("c", NewNum(0.2), NewOp("-", NewNum(0.3)))))
	opts, err := ParseOptions(clause)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.1, 0.2, -0.3}
	if len(opts.Init) != len(want) {
		t.Fatalf("init = %v, want %v", opts.Init, want)
	}
	for i, v := range want {
		if opts.Init[i] != v {
			t.Errorf("init[%d] = %v, want %v", i, opts.Init[i], v)
		}
	}
}

func TestParseOptionsInitWithoutArgs(t *testing.T) {
	_, err := ParseOptions(NewSym("init"))
	if !errors.Is(err, ErrInitValues) {
		t.Errorf("err = %v, want ErrInitValues", err)
	}
}

func TestParseOptionsUnknownNamesAllOffenders(t *testing.T) {
	clause := NewOp("+", NewOp("+", NewSym("bogus"), NewSym("common")), NewSym("wrong"))
	_, err := ParseOptions(clause)
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "bogus") || !strings.Contains(msg, "wrong") {
		t.Errorf("error should name every offending term, got %q", msg)
	}
}
