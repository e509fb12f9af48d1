package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"polylife/src/universe"
	"polylife/src/view"
)

func newHeadless(t *testing.T, mutate func(o *universe.Options)) (*universe.BaseUniverse, *view.ConsoleOut, *bytes.Buffer) {
	t.Helper()
	o := universe.DefaultUniverseOptions
	o.Width = 12
	o.Height = 12
	o.Interval = 0
	if mutate != nil {
		mutate(&o)
	}
	u, err := universe.NewBaseUniverse(&o, make(chan universe.Status, 10))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(u.Close)
	var b bytes.Buffer
	out := view.NewConsoleOut(&b, view.Palette{".", "#"}, false)
	out.Register(u)
	return u, out, &b
}

func TestRunHeadlessUntilFinished(t *testing.T) {
	u, out, b := newHeadless(t, nil)
	u.SettleTemplate("blinker", 1)

	done := make(chan error, 1)
	go func() { done <- runHeadless(context.Background(), u, out) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runHeadless: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("headless run did not finish")
	}
	if st := u.Status(); st.RunningMode != universe.RunningStateFinished || st.Period != 2 {
		t.Fatalf("unexpected final status %+v", st)
	}
	if !strings.Contains(b.String(), "Cycle period: 2") {
		t.Fatalf("summary is missing the cycle: %q", b.String())
	}
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	u, out, b := newHeadless(t, func(o *universe.Options) {
		o.Interval = time.Millisecond
		o.MaxSteps = 0
		o.HistoryDepth = 0
	})
	u.SettleTemplate("glider", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, u, out) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runHeadless: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("headless run ignored the cancellation")
	}
	if !strings.Contains(b.String(), "Mode: waiting") {
		t.Fatalf("summary should report a stopped run: %q", b.String())
	}
}
