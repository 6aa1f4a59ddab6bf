package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeProvider struct {
	name string
	out  string
	err  error
}

func (f fakeProvider) Name() string { return f.name }

func callFake(_ context.Context, p fakeProvider) (string, error) {
	return p.out, p.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	var called []string
	providers := []fakeProvider{
		{name: "a", err: errors.New("down")},
		{name: "b", out: "from b"},
		{name: "c", out: "from c"},
	}
	got, err := Chain(context.Background(), zerolog.Nop(), providers, func(ctx context.Context, p fakeProvider) (string, error) {
		called = append(called, p.name)
		return callFake(ctx, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from b" {
		t.Fatalf("got %q, want %q", got, "from b")
	}
	if len(called) != 2 || called[0] != "a" || called[1] != "b" {
		t.Fatalf("unexpected call order: %v", called)
	}
}

func TestChain_ExhaustedCollectsFailures(t *testing.T) {
	errA := errors.New("a down")
	errB := errors.New("b down")
	providers := []fakeProvider{{name: "a", err: errA}, {name: "b", err: errB}}

	_, err := Chain(context.Background(), zerolog.Nop(), providers, callFake)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %T", err)
	}
	if len(ex.Failures) != 2 || ex.Failures[0].Provider != "a" || ex.Failures[1].Provider != "b" {
		t.Fatalf("unexpected failures: %+v", ex.Failures)
	}
	if !errors.Is(err, errB) {
		t.Fatalf("expected errors.Is to see wrapped provider error")
	}
	if !IsExhausted(err) {
		t.Fatalf("expected IsExhausted")
	}
}

func TestChain_NoProviders(t *testing.T) {
	_, err := Chain(context.Background(), zerolog.Nop(), []fakeProvider(nil), callFake)
	if !IsExhausted(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
}

func TestChain_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Chain(ctx, zerolog.Nop(), []fakeProvider{{name: "a", out: "x"}}, func(ctx context.Context, p fakeProvider) (string, error) {
		calls++
		return callFake(ctx, p)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no provider calls, got %d", calls)
	}
}
