package provider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-autotranslate/internal/languages"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sleeper advances the fake clock instead of blocking.
func (c *fakeClock) sleeper(delays *[]time.Duration) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if delays != nil {
			*delays = append(*delays, d)
		}
		c.Advance(d)
		return nil
	}
}

type recordingTransport struct {
	mu       sync.Mutex
	requests []Request
	at       []time.Time
	clock    func() time.Time
	respond  func(ctx context.Context, req Request) (string, error)
}

func (r *recordingTransport) Translate(ctx context.Context, req Request) (string, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	if r.clock != nil {
		r.at = append(r.at, r.clock())
	}
	r.mu.Unlock()
	if r.respond != nil {
		return r.respond(ctx, req)
	}
	return "[" + string(req.Target) + "] " + req.Text, nil
}

func (r *recordingTransport) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func newTestAdapter(t *testing.T, cfg Config, transport Transport, opts ...Option) (*Adapter, *fakeClock) {
	t.Helper()
	clock := newFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	base := []Option{
		WithTransport(transport),
		WithClock(clock.Now),
		WithSleeper(clock.sleeper(nil)),
	}
	adapter, err := New(cfg, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter, clock
}

func TestTranslateTextReturnsBlankInputUnchanged(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{}, transport)

	for _, input := range []string{"", "   "} {
		if got := adapter.TranslateText(context.Background(), input, languages.Indonesian, languages.English); got != input {
			t.Fatalf("expected %q unchanged, got %q", input, got)
		}
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider calls, got %d", transport.calls())
	}
}

func TestTranslateTextCachesNetworkResults(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{}, transport)
	ctx := context.Background()

	first := adapter.TranslateText(ctx, "Selamat datang di Jawa Timur", languages.Indonesian, languages.German)
	second := adapter.TranslateText(ctx, "Selamat datang di Jawa Timur", languages.Indonesian, languages.German)

	if first != "[de] Selamat datang di Jawa Timur" || second != first {
		t.Fatalf("unexpected translations %q / %q", first, second)
	}
	if transport.calls() != 1 {
		t.Fatalf("expected one provider call, got %d", transport.calls())
	}
	stats := adapter.Stats()
	if stats.CacheHits != 1 || stats.NetworkCalls != 1 || stats.CacheSize != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	adapter.ClearCache()
	_ = adapter.TranslateText(ctx, "Selamat datang di Jawa Timur", languages.Indonesian, languages.German)
	if transport.calls() != 2 {
		t.Fatalf("expected cleared cache to reach the provider again, got %d calls", transport.calls())
	}
}

func TestTranslateTextUsesStaticMessageBeforeNetwork(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{}, transport)

	got := adapter.TranslateText(context.Background(), " Petualangan Bromo ", languages.Indonesian, languages.English)
	if got != "Bromo Adventure" {
		t.Fatalf("expected static mapping, got %q", got)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider call, got %d", transport.calls())
	}
	if adapter.Stats().DictionaryHits != 1 {
		t.Fatalf("expected dictionary hit, got %+v", adapter.Stats())
	}
}

func TestTranslateTextAppliesPhrasesLongestFirst(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{}, transport)

	got := adapter.TranslateText(context.Background(), "Melihat Matahari Terbit di gunung", languages.Indonesian, languages.English)
	if got != "Melihat sunrise di mountain" {
		t.Fatalf("unexpected phrase mapping %q", got)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider call, got %d", transport.calls())
	}
}

func TestTranslateTextSpacesNetworkCalls(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))
	var delays []time.Duration
	transport := &recordingTransport{clock: clock.Now}
	adapter, err := New(Config{APIKey: "key", MinInterval: 3 * time.Second},
		WithTransport(transport),
		WithClock(clock.Now),
		WithSleeper(clock.sleeper(&delays)),
	)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	for _, text := range []string{"Satu", "Dua", "Tiga"} {
		adapter.TranslateText(context.Background(), text, languages.Indonesian, languages.Dutch)
	}

	if transport.calls() != 3 {
		t.Fatalf("expected 3 provider calls, got %d", transport.calls())
	}
	for i := 1; i < len(transport.at); i++ {
		if gap := transport.at[i].Sub(transport.at[i-1]); gap < 3*time.Second {
			t.Fatalf("calls %d and %d only %s apart", i-1, i, gap)
		}
	}
	if len(delays) != 3 || delays[0] != 0 || delays[1] != 3*time.Second {
		t.Fatalf("unexpected waits %v", delays)
	}
}

func TestTranslateTextDailyLimitResetsAtRollover(t *testing.T) {
	transport := &recordingTransport{}
	adapter, clock := newTestAdapter(t, Config{DailyLimit: 2, MinInterval: -1}, transport)
	ctx := context.Background()

	adapter.TranslateText(ctx, "Satu", languages.Indonesian, languages.Chinese)
	adapter.TranslateText(ctx, "Dua", languages.Indonesian, languages.Chinese)
	if got := adapter.TranslateText(ctx, "Tiga", languages.Indonesian, languages.Chinese); got != "Tiga" {
		t.Fatalf("expected original text once the budget is spent, got %q", got)
	}
	if transport.calls() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", transport.calls())
	}

	clock.Advance(24 * time.Hour)
	if got := adapter.TranslateText(ctx, "Empat", languages.Indonesian, languages.Chinese); got != "[zh] Empat" {
		t.Fatalf("expected translation after rollover, got %q", got)
	}
	if stats := adapter.Stats(); stats.DailyCount != 1 {
		t.Fatalf("expected counter reset, got %d", stats.DailyCount)
	}
}

func TestTranslateTextSpentBudgetSkipsSpacingWait(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))
	var delays []time.Duration
	transport := &recordingTransport{}
	adapter, err := New(Config{APIKey: "key", MinInterval: 3 * time.Second, DailyLimit: 1},
		WithTransport(transport),
		WithClock(clock.Now),
		WithSleeper(clock.sleeper(&delays)),
	)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	for _, text := range []string{"Satu", "Dua", "Tiga", "Empat"} {
		adapter.TranslateText(context.Background(), text, languages.Indonesian, languages.German)
	}

	if transport.calls() != 1 {
		t.Fatalf("expected 1 provider call, got %d", transport.calls())
	}
	if len(delays) != 1 || delays[0] != 0 {
		t.Fatalf("calls past the daily limit must not wait for a slot, got waits %v", delays)
	}
}

func TestTranslateTextCancelledWaitKeepsBudget(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{DailyLimit: 1}, transport)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	adapter.TranslateText(cancelled, "Satu", languages.Indonesian, languages.English)
	if stats := adapter.Stats(); stats.DailyCount != 0 {
		t.Fatalf("cancelled wait should not spend the budget, got %d", stats.DailyCount)
	}
	if got := adapter.TranslateText(context.Background(), "Dua", languages.Indonesian, languages.English); got != "[en] Dua" {
		t.Fatalf("expected live translation, got %q", got)
	}
}

func TestTranslateTextWithoutAPIKeySkipsNetwork(t *testing.T) {
	transport := &recordingTransport{}
	adapter, err := New(Config{}, WithTransport(transport))
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	if got := adapter.TranslateText(context.Background(), "Selamat pagi", languages.Indonesian, languages.English); got != "Selamat pagi" {
		t.Fatalf("expected original text, got %q", got)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider call, got %d", transport.calls())
	}
}

func TestTranslateTextClientRuntimeSkipsNetwork(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{Runtime: RuntimeClient}, transport)

	if got := adapter.TranslateText(context.Background(), "Pantai indah", languages.Indonesian, languages.English); got != "beach indah" {
		t.Fatalf("expected phrase mapping only, got %q", got)
	}
	if got := adapter.TranslateText(context.Background(), "Selamat pagi", languages.Indonesian, languages.English); got != "Selamat pagi" {
		t.Fatalf("expected original text, got %q", got)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider call, got %d", transport.calls())
	}
}

func TestTranslateTextRateLimitedReturnsMappedPhrase(t *testing.T) {
	transport := &recordingTransport{respond: func(context.Context, Request) (string, error) {
		return "", ErrRateLimited
	}}
	adapter, _ := newTestAdapter(t, Config{}, transport)

	got := adapter.TranslateText(context.Background(), "air terjun", languages.Indonesian, languages.German)
	if got != "Wasserfall" {
		t.Fatalf("expected mapped phrase, got %q", got)
	}
}

func TestTranslateTextRateLimitedReattemptsPhraseMapping(t *testing.T) {
	empty, err := ParseDictionary([]byte("{}"))
	if err != nil {
		t.Fatalf("parse empty dictionary: %v", err)
	}
	reloaded, err := ParseDictionary([]byte("en:\n  phrases:\n    \"air terjun\": \"waterfall\"\n"))
	if err != nil {
		t.Fatalf("parse dictionary: %v", err)
	}

	var adapter *Adapter
	transport := &recordingTransport{respond: func(context.Context, Request) (string, error) {
		adapter.ReloadDictionary(reloaded)
		return "", ErrRateLimited
	}}
	adapter, _ = newTestAdapter(t, Config{}, transport, WithDictionary(empty))

	got := adapter.TranslateText(context.Background(), "Air Terjun Tumpak Sewu", languages.Indonesian, languages.English)
	if got != "waterfall Tumpak Sewu" {
		t.Fatalf("expected phrase fallback after 429, got %q", got)
	}
	stats := adapter.Stats()
	if stats.RateLimited != 1 || stats.NetworkCalls != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	unmapped := adapter.TranslateText(context.Background(), "Kota Malang", languages.Indonesian, languages.English)
	if unmapped != "Kota Malang" {
		t.Fatalf("expected original text, got %q", unmapped)
	}
	if transport.calls() != 2 {
		t.Fatalf("expected a single attempt per text, got %d calls", transport.calls())
	}
}

func TestTranslateTextOtherFailuresReturnOriginal(t *testing.T) {
	transport := &recordingTransport{respond: func(context.Context, Request) (string, error) {
		return "", &HTTPError{StatusCode: 500, Body: "boom"}
	}}
	adapter, _ := newTestAdapter(t, Config{}, transport)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if got := adapter.TranslateText(ctx, "Kota Batu", languages.Indonesian, languages.Dutch); got != "Kota Batu" {
			t.Fatalf("expected original text, got %q", got)
		}
	}
	if transport.calls() != 1 {
		t.Fatalf("expected fallback to be cached, got %d calls", transport.calls())
	}
	if adapter.Stats().Fallbacks != 1 {
		t.Fatalf("expected one fallback, got %+v", adapter.Stats())
	}
}

func TestTranslateTextTimesOut(t *testing.T) {
	transport := &recordingTransport{respond: func(ctx context.Context, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	adapter, _ := newTestAdapter(t, Config{Timeout: 10 * time.Millisecond}, transport)

	if got := adapter.TranslateText(context.Background(), "Kota Batu", languages.Indonesian, languages.English); got != "Kota Batu" {
		t.Fatalf("expected original text, got %q", got)
	}
	if adapter.Stats().CacheSize != 1 {
		t.Fatalf("expected timeout fallback to be cached")
	}
}

func TestTranslateTextCancelledContextIsNotCached(t *testing.T) {
	transport := &recordingTransport{}
	adapter, _ := newTestAdapter(t, Config{}, transport)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := adapter.TranslateText(cancelled, "Kota Batu", languages.Indonesian, languages.English); got != "Kota Batu" {
		t.Fatalf("expected original text, got %q", got)
	}
	if transport.calls() != 0 {
		t.Fatalf("expected no provider call, got %d", transport.calls())
	}

	if got := adapter.TranslateText(context.Background(), "Kota Batu", languages.Indonesian, languages.English); got != "[en] Kota Batu" {
		t.Fatalf("expected live translation after cancellation, got %q", got)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	var err error = &HTTPError{StatusCode: 502}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 502 {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if err.Error() != "provider: unexpected status 502" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
