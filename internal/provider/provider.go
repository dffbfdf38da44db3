package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// Runtime identifies where the adapter executes. Only server runtimes may
// reach the remote provider.
type Runtime string

const (
	RuntimeServer Runtime = "server"
	RuntimeClient Runtime = "client"
)

const (
	DefaultMinInterval   = 3 * time.Second
	DefaultDailyLimit    = 1000
	DefaultTimeout       = 10 * time.Second
	DefaultCacheTTL      = 24 * time.Hour
	DefaultCacheCapacity = 10000

	cacheShards          = 10
	cacheEvictionPercent = 10
)

// Config controls the adapter. Zero values fall back to the package
// defaults. A negative MinInterval disables spacing and a negative
// DailyLimit disables the daily budget.
type Config struct {
	Endpoint      string
	APIKey        string
	Runtime       Runtime
	MinInterval   time.Duration
	DailyLimit    int
	Timeout       time.Duration
	CacheTTL      time.Duration
	CacheCapacity int
}

// Stats is a point-in-time snapshot of adapter activity.
type Stats struct {
	CacheHits      int64 `json:"cache_hits"`
	DictionaryHits int64 `json:"dictionary_hits"`
	PhraseHits     int64 `json:"phrase_hits"`
	NetworkCalls   int64 `json:"network_calls"`
	RateLimited    int64 `json:"rate_limited"`
	Fallbacks      int64 `json:"fallbacks"`
	DailyCount     int   `json:"daily_count"`
	CacheSize      int   `json:"cache_size"`
}

// Translator is the contract consumed by the field-tree translator.
type Translator interface {
	TranslateText(ctx context.Context, text string, source, target languages.Code) string
}

// Adapter resolves text through cache, static dictionary, phrase mapping
// and finally the remote provider. It never returns an error: every failure
// degrades to the best local answer or the original text.
type Adapter struct {
	cfg        Config
	transport  Transport
	httpClient *http.Client
	dictionary atomic.Pointer[Dictionary]
	logger     interfaces.Logger
	now        func() time.Time
	sleep      Sleeper

	cacheMu sync.RWMutex
	cache   *sturdyc.Client[string]

	spacing *spacing
	quota   *dailyQuota

	cacheHits      atomic.Int64
	dictionaryHits atomic.Int64
	phraseHits     atomic.Int64
	networkCalls   atomic.Int64
	rateLimited    atomic.Int64
	fallbacks      atomic.Int64
}

var _ Translator = (*Adapter)(nil)

type Option func(*Adapter)

func WithTransport(transport Transport) Option {
	return func(a *Adapter) {
		if transport != nil {
			a.transport = transport
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

func WithDictionary(dict *Dictionary) Option {
	return func(a *Adapter) {
		if dict != nil {
			a.dictionary.Store(dict)
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(a *Adapter) {
		if clock != nil {
			a.now = clock
		}
	}
}

func WithSleeper(sleep Sleeper) Option {
	return func(a *Adapter) {
		if sleep != nil {
			a.sleep = sleep
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an adapter. Without WithDictionary the embedded dictionary is
// used; without WithTransport an HTTPTransport targets cfg.Endpoint.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg = withDefaults(cfg)
	a := &Adapter{
		cfg:    cfg,
		logger: logging.NoOp(),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.dictionary.Load() == nil {
		dict, err := DefaultDictionary()
		if err != nil {
			return nil, err
		}
		a.dictionary.Store(dict)
	}
	if a.transport == nil {
		a.transport = NewHTTPTransport(cfg.Endpoint, cfg.APIKey, a.httpClient)
	}
	a.cache = a.newCache()
	a.spacing = newSpacing(cfg.MinInterval, a.now, a.sleep)
	a.quota = newDailyQuota(cfg.DailyLimit, a.now)
	return a, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Runtime == "" {
		cfg.Runtime = RuntimeServer
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.DailyLimit == 0 {
		cfg.DailyLimit = DefaultDailyLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = DefaultCacheCapacity
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return cfg
}

func (a *Adapter) newCache() *sturdyc.Client[string] {
	return sturdyc.New[string](a.cfg.CacheCapacity, cacheShards, a.cfg.CacheTTL, cacheEvictionPercent)
}

// TranslateText returns text translated from source to target.
func (a *Adapter) TranslateText(ctx context.Context, text string, source, target languages.Code) string {
	if strings.TrimSpace(text) == "" || source == target {
		return text
	}
	if ctx == nil {
		ctx = context.Background()
	}

	key := cacheKey(source, target, text)
	if cached, ok := a.cacheGet(key); ok {
		a.cacheHits.Add(1)
		return cached
	}

	result, cacheable := a.resolve(ctx, text, source, target)
	if cacheable {
		a.cacheSet(key, result)
	}
	return result
}

func (a *Adapter) resolve(ctx context.Context, text string, source, target languages.Code) (string, bool) {
	logger := logging.WithFields(a.logger, map[string]any{
		"source": source.String(),
		"target": target.String(),
	})
	local := languages.IsSource(source)

	if local {
		dict := a.dictionary.Load()
		if mapped, ok := dict.Message(target, text); ok {
			a.dictionaryHits.Add(1)
			return mapped, true
		}
		if mapped, ok := dict.ApplyPhrases(target, text); ok {
			a.phraseHits.Add(1)
			return mapped, true
		}
	}

	if a.cfg.Runtime != RuntimeServer {
		a.fallbacks.Add(1)
		logger.Trace("provider.runtime.client_skip")
		return text, true
	}
	if a.cfg.APIKey == "" {
		a.fallbacks.Add(1)
		logger.Debug("provider.unavailable", "error", ErrUnavailable)
		return text, true
	}

	if !a.quota.take() {
		a.fallbacks.Add(1)
		logger.Warn("provider.daily_limit.reached", "limit", a.cfg.DailyLimit)
		return text, true
	}
	if delay, err := a.spacing.wait(ctx); err != nil {
		a.quota.refund()
		logger.Debug("provider.wait.cancelled", "delay", delay, "error", err)
		return text, false
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	a.networkCalls.Add(1)
	translated, err := a.transport.Translate(callCtx, Request{Text: text, Source: source, Target: target})
	cancel()
	if err == nil {
		return translated, true
	}

	if ctx.Err() != nil {
		logger.Debug("provider.network.cancelled", "error", ctx.Err())
		return text, false
	}

	if errors.Is(err, ErrRateLimited) {
		a.rateLimited.Add(1)
		if local {
			if mapped, ok := a.dictionary.Load().ApplyPhrases(target, text); ok {
				a.phraseHits.Add(1)
				logger.Info("provider.rate_limited.phrase_fallback")
				return mapped, true
			}
		}
		a.fallbacks.Add(1)
		logger.Warn("provider.rate_limited", "error", err)
		return text, true
	}

	a.fallbacks.Add(1)
	logger.Error("provider.network.failed", "error", err)
	return text, true
}

// ReloadDictionary swaps the static dictionary. Cached results are kept.
func (a *Adapter) ReloadDictionary(dict *Dictionary) {
	if dict != nil {
		a.dictionary.Store(dict)
	}
}

// ClearCache drops every cached translation.
func (a *Adapter) ClearCache() {
	a.cacheMu.Lock()
	a.cache = a.newCache()
	a.cacheMu.Unlock()
}

// Stats returns a snapshot of the adapter counters.
func (a *Adapter) Stats() Stats {
	a.cacheMu.RLock()
	size := a.cache.Size()
	a.cacheMu.RUnlock()

	return Stats{
		CacheHits:      a.cacheHits.Load(),
		DictionaryHits: a.dictionaryHits.Load(),
		PhraseHits:     a.phraseHits.Load(),
		NetworkCalls:   a.networkCalls.Load(),
		RateLimited:    a.rateLimited.Load(),
		Fallbacks:      a.fallbacks.Load(),
		DailyCount:     a.quota.used(),
		CacheSize:      size,
	}
}

func (a *Adapter) cacheGet(key string) (string, bool) {
	a.cacheMu.RLock()
	defer a.cacheMu.RUnlock()
	return a.cache.Get(key)
}

func (a *Adapter) cacheSet(key, value string) {
	a.cacheMu.RLock()
	defer a.cacheMu.RUnlock()
	a.cache.Set(key, value)
}

func cacheKey(source, target languages.Code, text string) string {
	return fmt.Sprintf("%s:%s:%s", source, target, text)
}
