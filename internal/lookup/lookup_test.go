package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"solidflix/internal/logging"
	"solidflix/internal/services"
)

type stubService struct {
	mu        sync.Mutex
	search    map[string][]Movie
	recs      map[int64][]Movie
	searchErr error
	recsErr   error
	delay     time.Duration
	recCalls  []int64
}

func (s *stubService) SearchMovie(ctx context.Context, query string) ([]Movie, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.search[query], nil
}

func (s *stubService) Recommendations(_ context.Context, id int64) ([]Movie, error) {
	s.mu.Lock()
	s.recCalls = append(s.recCalls, id)
	s.mu.Unlock()
	if s.recsErr != nil {
		return nil, s.recsErr
	}
	return s.recs[id], nil
}

func TestFallbackLastExactMatchWins(t *testing.T) {
	svc := &stubService{
		search: map[string][]Movie{
			"heat": {
				{ID: 1, Title: "Heat"},
				{ID: 2, Title: "Heat Wave"},
				{ID: 3, Title: "HEAT"},
			},
		},
		recs: map[int64][]Movie{
			1: {{ID: 10, Title: "Wrong"}},
			3: {{ID: 11, Title: "Ronin"}, {ID: 12, Title: ""}, {ID: 13, Title: "Collateral"}},
		},
	}
	f := NewFallback(svc, time.Second, logging.NewNop())

	got := f.Lookup(context.Background(), "heat")
	want := []string{"Ronin", "Collateral"}
	if len(got) != len(want) {
		t.Fatalf("Lookup = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Lookup = %v, want %v", got, want)
		}
	}
	if len(svc.recCalls) != 1 || svc.recCalls[0] != 3 {
		t.Fatalf("expected recommendations for id 3 only, got %v", svc.recCalls)
	}
}

func TestFallbackNoMatchIsEmpty(t *testing.T) {
	svc := &stubService{search: map[string][]Movie{"heat": {{ID: 2, Title: "Heat Wave"}}}}
	f := NewFallback(svc, time.Second, nil)

	if got := f.Lookup(context.Background(), "heat"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	_, err := f.Resolve(context.Background(), "heat")
	if !errors.Is(err, services.ErrUnknownTitle) {
		t.Fatalf("expected ErrUnknownTitle, got %v", err)
	}
	if len(svc.recCalls) != 0 {
		t.Fatal("recommendations must not be fetched without a match")
	}
}

func TestFallbackErrorsAreEmpty(t *testing.T) {
	tests := []struct {
		name string
		svc  *stubService
	}{
		{"search error", &stubService{searchErr: errors.New("boom")}},
		{"recommendation error", &stubService{
			search:  map[string][]Movie{"heat": {{ID: 1, Title: "Heat"}}},
			recsErr: errors.New("boom"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFallback(tt.svc, time.Second, nil)
			if got := f.Lookup(context.Background(), "heat"); len(got) != 0 {
				t.Fatalf("expected empty result, got %v", got)
			}
			_, err := f.Resolve(context.Background(), "heat")
			if !errors.Is(err, services.ErrExternalService) {
				t.Fatalf("expected ErrExternalService, got %v", err)
			}
		})
	}
}

func TestFallbackTimeout(t *testing.T) {
	svc := &stubService{delay: time.Second}
	f := NewFallback(svc, 10*time.Millisecond, nil)

	start := time.Now()
	if got := f.Lookup(context.Background(), "heat"); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("lookup did not respect the per-call timeout")
	}
}

func TestFallbackWithoutService(t *testing.T) {
	f := NewFallback(nil, 0, nil)
	_, err := f.Resolve(context.Background(), "heat")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestValidatorConfirm(t *testing.T) {
	svc := &stubService{search: map[string][]Movie{
		"alien":   {{ID: 1, Title: "Aliens"}, {ID: 2, Title: "ALIEN"}},
		"unknown": {{ID: 3, Title: "Something Else"}},
	}}
	v := NewValidator(svc, time.Second, nil)

	if !v.Confirm(context.Background(), "alien") {
		t.Error("alien should be confirmed")
	}
	if v.Confirm(context.Background(), "unknown") {
		t.Error("unknown should not be confirmed")
	}
	if v.Confirm(context.Background(), "nothing") {
		t.Error("title with no results should not be confirmed")
	}
}

func TestValidatorErrorIsUnconfirmed(t *testing.T) {
	v := NewValidator(&stubService{searchErr: errors.New("down")}, time.Second, nil)
	if v.Confirm(context.Background(), "alien") {
		t.Fatal("errors must count as unconfirmed")
	}
	var nilValidator *Validator
	if nilValidator.Confirm(context.Background(), "alien") {
		t.Fatal("nil validator must not confirm")
	}
}

func TestSameTitle(t *testing.T) {
	if !SameTitle("Amélie", "AMÉLIE") {
		t.Error("expected unicode case-insensitive match")
	}
	if SameTitle("Heat", "Heat Wave") {
		t.Error("different titles should not match")
	}
}
