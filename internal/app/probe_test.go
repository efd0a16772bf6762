package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/galley/internal/logging"
	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/recipes/recipestest"
)

func TestCalculateBackoff(t *testing.T) {
	base := 250 * time.Millisecond

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 250 * time.Millisecond},
		{"negative failures", -1, 250 * time.Millisecond},
		{"one failure", 1, 500 * time.Millisecond},
		{"two failures", 2, time.Second},
		{"three failures capped", 3, 2 * time.Second},
		{"many failures capped", 10, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	for failures := 0; failures <= 64; failures++ {
		if got := calculateBackoff(failures, time.Second); got > maxBackoff {
			t.Errorf("calculateBackoff(%d) = %v, exceeds maxBackoff %v", failures, got, maxBackoff)
		}
	}
}

type flakyChecker struct {
	failFor int
	calls   int
}

func (f *flakyChecker) Health(context.Context) error {
	f.calls++
	if f.calls <= f.failFor {
		return recipes.ErrNetwork
	}
	return nil
}

func TestProbe_RetriesUntilHealthy(t *testing.T) {
	hc := &flakyChecker{failFor: 1}
	if err := Probe(context.Background(), hc, nil, 3); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if hc.calls != 2 {
		t.Fatalf("calls = %d, want 2", hc.calls)
	}
}

func TestProbe_GivesUp(t *testing.T) {
	hc := &flakyChecker{failFor: 10}
	err := Probe(context.Background(), hc, nil, 2)
	if !errors.Is(err, recipes.ErrNetwork) {
		t.Fatalf("Probe error = %v, want ErrNetwork", err)
	}
	if hc.calls != 2 {
		t.Fatalf("calls = %d, want 2", hc.calls)
	}
}

func TestProbe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hc := &flakyChecker{failFor: 10}
	if err := Probe(ctx, hc, nil, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("Probe error = %v, want context.Canceled", err)
	}
	if hc.calls != 1 {
		t.Fatalf("calls = %d, want 1", hc.calls)
	}
}

func TestProbe_AgainstFakeAPI(t *testing.T) {
	srv := recipestest.New(t, nil)
	client, err := recipes.NewClient(srv.BaseURL())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := Probe(context.Background(), client, nil, 1); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if got := srv.LastRequest().Path; got != "/api/health" {
		t.Fatalf("probe path = %q", got)
	}
}

func TestEnvProbe_HeldAPIEndsWithContext(t *testing.T) {
	srv := recipestest.New(t, nil)
	release := srv.Hold()
	t.Cleanup(release)

	client, err := recipes.NewClient(srv.BaseURL())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	env := &Env{Client: client, Logger: logging.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.probe(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("probe returned while the API was held: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("probe reported a held API as healthy")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("probe kept running after its context was cancelled")
	}
}
