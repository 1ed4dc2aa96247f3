package main

import (
	"strings"
	"testing"
)

func TestSessionEvalPersists(t *testing.T) {
	s := newSession()
	if _, err := s.eval(`(define sq (lambda (x) {(* x x)}))`); err != nil {
		t.Fatal(err)
	}
	out, err := s.eval(`(sq 7)`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "=> 49" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSessionCapturesOutput(t *testing.T) {
	s := newSession()
	out, err := s.eval(`(print "hello") (eputs "warn") (+ 1 2)`)
	if err != nil {
		t.Fatal(err)
	}
	want := "hello\nstderr: warn\n=> 3"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
	// buffers are reset between calls
	out, err = s.eval(`(+ 2 2)`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "=> 4" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSessionError(t *testing.T) {
	s := newSession()
	_, err := s.eval(`(print "before") (nope)`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "before\n") || !strings.Contains(err.Error(), "UndefinedCall") {
		t.Fatalf("unexpected error %q", err.Error())
	}
}

func TestSessionAssertResets(t *testing.T) {
	s := newSession()
	if _, err := s.eval(`(define a 1)`); err != nil {
		t.Fatal(err)
	}
	_, err := s.eval(`(assert false "boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected assertion failure, got %v", err)
	}
	if _, err := s.eval(`(return a)`); err == nil {
		t.Fatal("expected bindings to be gone after reset")
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession()
	if _, err := s.eval(`(define a 1)`); err != nil {
		t.Fatal(err)
	}
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	if _, err := s.eval(`(define a 2)`); err != nil {
		t.Fatalf("expected fresh session, got %v", err)
	}
}
