package coretls

import (
	"bytes"
	"testing"
)

func requireNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireErr(t *testing.T, err error, want Err) {
	t.Helper()
	e, ok := err.(Err)
	if !ok {
		t.Fatalf("expected Err, got %T (%v)", err, err)
	}
	if e != want {
		t.Fatalf("expected error %v, got %v", want, e)
	}
}

func requireEqual(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func requireOK(t *testing.T, e *Engine) {
	t.Helper()
	if e.LastError() != ErrOK {
		t.Fatalf("unexpected engine error: %v", e.LastError())
	}
}

func requireTrue(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Fatal(msg)
	}
}
