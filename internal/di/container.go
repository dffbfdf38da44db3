package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-autotranslate/internal/commands"
	translationcmd "github.com/goliatone/go-autotranslate/internal/commands/translation"
	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/coverage"
	"github.com/goliatone/go-autotranslate/internal/fieldtree"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/internal/logging/gologger"
	"github.com/goliatone/go-autotranslate/internal/provider"
	"github.com/goliatone/go-autotranslate/internal/runtimeconfig"
	"github.com/goliatone/go-autotranslate/internal/storage"
	"github.com/goliatone/go-autotranslate/internal/translations"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// Container wires the translation pipeline from configuration. Overrides
// supplied through options win over what the configuration would build.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	items        content.ItemRepository
	translations content.TranslationRepository

	transport  provider.Transport
	httpClient *http.Client
	dictionary *provider.Dictionary
	adapter    *provider.Adapter
	text       fieldtree.TextTranslator
	clock      func() time.Time

	tree     *fieldtree.Translator
	registry *translations.Registry
	reader   *translations.Reader
	checker  *coverage.Checker
	service  *translations.Service
	audit    jobs.AuditRecorder

	commandRegistry translationcmd.CommandRegistry
	handlers        *translationcmd.HandlerSet
	unsubscribe     func()
}

// Option mutates the container before it is finalised.
type Option func(*Container)

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses db instead of opening one from the storage config. The
// caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the go-repository-cache service used for item reads.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithItemRepository(repo content.ItemRepository) Option {
	return func(c *Container) {
		c.items = repo
	}
}

func WithTranslationRepository(repo content.TranslationRepository) Option {
	return func(c *Container) {
		c.translations = repo
	}
}

// WithTransport replaces the HTTP transport of the provider adapter.
func WithTransport(transport provider.Transport) Option {
	return func(c *Container) {
		c.transport = transport
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

func WithDictionary(dict *provider.Dictionary) Option {
	return func(c *Container) {
		c.dictionary = dict
	}
}

// WithTextTranslator bypasses the provider adapter entirely.
func WithTextTranslator(text fieldtree.TextTranslator) Option {
	return func(c *Container) {
		c.text = text
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

func WithAuditRecorder(recorder jobs.AuditRecorder) Option {
	return func(c *Container) {
		c.audit = recorder
	}
}

// WithCommandRegistry registers the translation commands with reg.
func WithCommandRegistry(reg translationcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLogging,
		c.configureStorage,
		c.configureCacheDefaults,
		c.configureRepositories,
		c.configureProvider,
		c.configureServices,
		c.configureCommands,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "", "noop":
		return nil
	}
	lp, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = lp
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || (c.items != nil && c.translations != nil) {
		return nil
	}
	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if driver == storage.DriverMemory {
		return nil
	}
	db, err := storage.Open(driver, c.Config.Storage.DSN)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if !c.Config.Storage.CacheReads || c.bunDB == nil {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Storage.CacheTTL > 0 {
			cfg.TTL = c.Config.Storage.CacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories() error {
	if c.bunDB != nil {
		if c.items == nil {
			if c.cacheService != nil {
				c.items = content.NewBunItemRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			} else {
				c.items = content.NewBunItemRepository(c.bunDB)
			}
		}
		if c.translations == nil {
			c.translations = content.NewBunTranslationRepository(c.bunDB)
		}
		return nil
	}
	if c.items == nil {
		c.items = content.NewMemoryItemRepository()
	}
	if c.translations == nil {
		c.translations = content.NewMemoryTranslationRepository()
	}
	return nil
}

func (c *Container) configureProvider() error {
	if c.text != nil {
		return nil
	}
	cfg := c.Config.Provider
	dict := c.dictionary
	if dict == nil {
		loaded, err := provider.LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			return err
		}
		dict = loaded
	}

	opts := []provider.Option{
		provider.WithDictionary(dict),
		provider.WithClock(c.clock),
		provider.WithLogger(logging.ProviderLogger(c.loggerProvider)),
	}
	if c.httpClient != nil {
		opts = append(opts, provider.WithHTTPClient(c.httpClient))
	}
	if c.transport != nil {
		opts = append(opts, provider.WithTransport(c.transport))
	}

	adapter, err := provider.New(provider.Config{
		Endpoint:      cfg.Endpoint,
		APIKey:        cfg.APIKey,
		Runtime:       provider.Runtime(cfg.Runtime),
		MinInterval:   cfg.MinInterval,
		DailyLimit:    cfg.DailyLimit,
		Timeout:       cfg.Timeout,
		CacheTTL:      cfg.CacheTTL,
		CacheCapacity: cfg.CacheCapacity,
	}, opts...)
	if err != nil {
		return err
	}
	c.adapter = adapter
	c.text = adapter
	return nil
}

func (c *Container) configureServices() error {
	translationsLogger := logging.TranslationsLogger(c.loggerProvider)

	c.tree = fieldtree.NewTranslator(c.text,
		fieldtree.WithMaxDepth(c.Config.Translation.MaxDepth),
		fieldtree.WithConcurrency(c.Config.Translation.Concurrency),
		fieldtree.WithLogger(translationsLogger),
	)
	c.registry = translations.NewRegistry(c.translations, c.tree,
		translations.WithClock(c.clock),
		translations.WithLogger(translationsLogger),
		translations.WithDefaultLanguages(c.Config.TargetLanguages()...),
	)
	c.reader = translations.NewReader(c.translations)
	c.checker = coverage.NewChecker(c.items, c.translations,
		coverage.WithLogger(logging.CoverageLogger(c.loggerProvider)),
	)
	c.service = translations.NewService(c.items, c.registry, c.reader, c.checker,
		translations.WithServiceLogger(translationsLogger),
	)
	if c.audit == nil {
		c.audit = jobs.NewInMemoryAuditRecorder(jobs.DefaultAuditCapacity)
	}
	return nil
}

func (c *Container) configureCommands() error {
	handlers, err := translationcmd.RegisterTranslationCommands(c.commandRegistry, translationcmd.Dependencies{
		Service:  c.service,
		Items:    c.items,
		Registry: c.registry,
	}, c.loggerProvider,
		translationcmd.WithTranslateHandlerOptions(
			commands.WithTimeout[translationcmd.TranslateContentCommand](c.Config.Commands.Timeout),
		),
		translationcmd.WithWorkerOptions(c.workerOptions()...),
	)
	if err != nil {
		return err
	}
	c.handlers = handlers
	return nil
}

func (c *Container) workerOptions() []jobs.Option {
	return []jobs.Option{
		jobs.WithAuditRecorder(c.audit),
		jobs.WithClock(c.clock),
		jobs.WithLogger(logging.JobsLogger(c.loggerProvider)),
	}
}

// Migrate creates the storage schema when a database is configured.
func (c *Container) Migrate(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	return storage.CreateSchema(ctx, c.bunDB)
}

// SubscribeCommands attaches the translation handlers to the go-command
// dispatcher. Calling it twice keeps the first subscription.
func (c *Container) SubscribeCommands() {
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.handlers.Subscribe(c.Config.Commands.MaxRetries)
}

// Dispatch sends msg through the go-command dispatcher.
func (c *Container) Dispatch(ctx context.Context, msg any) error {
	switch typed := msg.(type) {
	case translationcmd.TranslateContentCommand:
		return dispatcher.Dispatch(ctx, typed)
	case translationcmd.BackfillTranslationsCommand:
		return dispatcher.Dispatch(ctx, typed)
	default:
		return fmt.Errorf("di: unsupported command %T", msg)
	}
}

// Close releases subscriptions and any database the container opened.
func (c *Container) Close() error {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

// Worker returns a backfill worker sharing the container's registry.
func (c *Container) Worker(opts ...jobs.Option) *jobs.Worker {
	options := c.workerOptions()
	if targets := c.Config.TargetLanguages(); len(targets) > 0 {
		options = append(options, jobs.WithLanguages(targets...))
	}
	return jobs.NewWorker(c.items, c.registry, append(options, opts...)...)
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB is nil for the in-memory store.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) Items() content.ItemRepository {
	return c.items
}

func (c *Container) Translations() content.TranslationRepository {
	return c.translations
}

// Provider is nil when a text translator override is installed.
func (c *Container) Provider() *provider.Adapter {
	return c.adapter
}

func (c *Container) FieldTranslator() *fieldtree.Translator {
	return c.tree
}

func (c *Container) Registry() *translations.Registry {
	return c.registry
}

func (c *Container) Reader() *translations.Reader {
	return c.reader
}

func (c *Container) Checker() *coverage.Checker {
	return c.checker
}

func (c *Container) Service() *translations.Service {
	return c.service
}

func (c *Container) AuditRecorder() jobs.AuditRecorder {
	return c.audit
}

func (c *Container) Commands() *translationcmd.HandlerSet {
	return c.handlers
}
