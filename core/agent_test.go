package core

import (
	"context"
	"errors"
	"testing"
)

func TestComplete(t *testing.T) {
	out := Complete("done")
	if out.Kind() != OutputComplete || out.Text() != "done" || out.Deltas() != nil {
		t.Fatalf("malformed complete output: %+v", out)
	}
}

func TestIncrementalFunc(t *testing.T) {
	boom := errors.New("boom")
	out := IncrementalFunc(func(send func(string)) error {
		send("Hel")
		send("lo")
		return boom
	})

	if out.Kind() != OutputIncremental {
		t.Fatalf("expected incremental, got %s", out.Kind())
	}

	var got []string
	for d := range out.Deltas() {
		got = append(got, d)
	}
	if len(got) != 2 || got[0] != "Hel" || got[1] != "lo" {
		t.Fatalf("unexpected deltas: %v", got)
	}
	if err := <-out.Errs(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestIncrementalFunc_RecoversPanic(t *testing.T) {
	out := IncrementalFunc(func(send func(string)) error {
		send("half a sen")
		panic("adapter bug")
	})

	var got []string
	for d := range out.Deltas() {
		got = append(got, d)
	}
	if len(got) != 1 || got[0] != "half a sen" {
		t.Fatalf("unexpected deltas: %v", got)
	}
	if err := <-out.Errs(); !errors.Is(err, ErrPanicked) {
		t.Fatalf("expected ErrPanicked, got %v", err)
	}
}

func TestAgentFunc(t *testing.T) {
	a := AgentFunc(func(_ context.Context, prompt string) (Output, error) {
		return Complete("echo " + prompt), nil
	})

	out, err := a.Reply(context.Background(), "hi")
	if err != nil || out.Text() != "echo hi" {
		t.Fatalf("unexpected reply %q (%v)", out.Text(), err)
	}
}
