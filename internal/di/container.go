package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-sync/internal/cache"
	"github.com/goliatone/go-content-sync/internal/carousel"
	"github.com/goliatone/go-content-sync/internal/commands"
	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/content"
	"github.com/goliatone/go-content-sync/internal/contentapi"
	synchttp "github.com/goliatone/go-content-sync/internal/http"
	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/internal/logging/console"
	"github.com/goliatone/go-content-sync/internal/logging/gologger"
	"github.com/goliatone/go-content-sync/internal/normalize"
	"github.com/goliatone/go-content-sync/internal/repository"
	"github.com/goliatone/go-content-sync/internal/runtimeconfig"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
	"github.com/goliatone/go-content-sync/pkg/storage"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the content sync modules from a runtime config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	api          repository.APIClient
	contentCache *cache.Store
	normalizer   *normalize.Normalizer
	contentSvc   repository.Service

	scheme        locale.Scheme
	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	preferences   interfaces.PreferenceStore
	links         *locale.LinkBuilder

	clock interfaces.Clock

	commandTally     *commands.Tally
	refreshHandler   *synccmd.RefreshContentHandler
	subscribeHandler *synccmd.SubscribeHandler
	site             *synchttp.SiteAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithAPIClient replaces the HTTP content API client.
func WithAPIClient(api repository.APIClient) Option {
	return func(c *Container) {
		c.api = api
	}
}

// WithContentService overrides the content repository binding.
func WithContentService(svc repository.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithBunDB supplies an open database for the preference store. The
// container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the go-repository-cache service used by the
// preference store.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPreferenceStore overrides the locale preference store.
func WithPreferenceStore(store interfaces.PreferenceStore) Option {
	return func(c *Container) {
		c.preferences = store
	}
}

// WithClock swaps the timer source handed to carousel controllers.
func WithClock(clock interfaces.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scheme, err := locale.NewScheme(cfg.Locale.Primary, cfg.Locale.Alternate, cfg.Locale.AlternatePrefix)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		scheme: scheme,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureContent(); err != nil {
		return nil, err
	}
	if err := c.configurePreferences(context.Background()); err != nil {
		return nil, err
	}
	c.configureLinks()
	if err := c.configureCommands(); err != nil {
		return nil, err
	}
	c.configureHTTP()

	c.logger.Info("container.configured",
		"api", cfg.API.BaseURL,
		"storage", storageDriver(cfg),
		"cache_enabled", cfg.Cache.Enabled,
		"locales", []string{scheme.Primary, scheme.Alternate},
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "", "console":
			c.loggerProvider = console.NewProvider(console.Options{MinLevel: console.ParseLevel(c.Config.Logging.Level)})
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
				Service:   "content-sync",
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "sync")
	return nil
}

func (c *Container) configureContent() error {
	if c.contentSvc != nil {
		return nil
	}
	if c.api == nil {
		client, err := contentapi.New(contentapi.Config{
			BaseURL: c.Config.API.BaseURL,
			Token:   c.Config.API.Token,
			Timeout: c.Config.API.Timeout,
			Retries: c.Config.API.Retries,
		}, logging.APILogger(c.loggerProvider))
		if err != nil {
			return err
		}
		c.api = client
	}

	contentLogger := logging.ContentLogger(c.loggerProvider)
	c.contentCache = cache.New(cache.Config{
		Enabled:  c.Config.Cache.Enabled,
		TTL:      c.Config.Cache.TTL,
		Capacity: c.Config.Cache.Capacity,
	}, contentLogger)

	origin := c.Config.API.BaseURL
	if provider, ok := c.api.(interface{ Origin() string }); ok {
		origin = provider.Origin()
	}
	c.normalizer = normalize.New(origin, contentLogger)

	c.contentSvc = repository.NewService(c.api,
		repository.WithCache(c.contentCache),
		repository.WithNormalizer(c.normalizer),
		repository.WithLogger(contentLogger),
		repository.WithPageSizes(c.Config.API.BulkPageSize, c.Config.API.DefaultPageSize),
		repository.WithDefaultLocale(c.scheme.Primary),
	)
	return nil
}

func (c *Container) configurePreferences(ctx context.Context) error {
	if c.preferences != nil {
		return nil
	}

	storageCfg := storage.Config{Driver: c.Config.Storage.Driver, DSN: c.Config.Storage.DSN}
	if c.bunDB == nil && storageCfg.Persistent() {
		db, err := storage.Open(ctx, storageCfg)
		if err != nil {
			return fmt.Errorf("di: open preference storage: %w", err)
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if c.bunDB == nil {
		c.preferences = locale.NewMemoryPreferenceStore()
		return nil
	}

	if err := locale.EnsurePreferenceSchema(ctx, c.bunDB); err != nil {
		return err
	}
	c.configureCacheDefaults()
	if c.cacheService != nil {
		c.preferences = locale.NewBunPreferenceStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	}
	c.preferences = locale.NewBunPreferenceStore(c.bunDB)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache.unavailable", "error", err)
			return
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureLinks() {
	base := strings.TrimSpace(c.Config.Site.BaseURL)
	if base == "" {
		return
	}
	c.links = locale.NewLinkBuilder(c.scheme, base)
}

func (c *Container) configureCommands() error {
	c.commandTally = &commands.Tally{}
	registered, err := synccmd.RegisterCommands(c.contentSvc, synccmd.RegistrationOptions{
		LoggerProvider: c.loggerProvider,
		DefaultLocales: []string{c.scheme.Primary, c.scheme.Alternate},
		Tally:          c.commandTally,
	})
	if err != nil {
		return fmt.Errorf("di: register commands: %w", err)
	}
	c.refreshHandler = registered.Refresh
	c.subscribeHandler = registered.Subscribe
	return nil
}

func (c *Container) configureHTTP() {
	opts := []synchttp.SiteOption{
		synchttp.WithScheme(c.scheme),
		synchttp.WithPreferences(c.preferences),
		synchttp.WithRefreshHandler(c.refreshHandler),
		synchttp.WithCookieNames(c.Config.Locale.CookieName, ""),
		synchttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.links != nil {
		opts = append(opts, synchttp.WithLinks(c.links))
	}
	c.site = synchttp.NewSiteAPI(c.contentSvc, opts...)
}

// ContentService returns the content repository.
func (c *Container) ContentService() repository.Service {
	return c.contentSvc
}

// ContentCache returns the tag cache behind the repository, nil when the
// content service was supplied by the caller.
func (c *Container) ContentCache() *cache.Store {
	return c.contentCache
}

// Normalizer returns the payload normalizer.
func (c *Container) Normalizer() *normalize.Normalizer {
	return c.normalizer
}

// Scheme returns the configured locale pairing.
func (c *Container) Scheme() locale.Scheme {
	return c.scheme
}

// Locales returns the scheme as a content locale pair.
func (c *Container) Locales() content.Locales {
	return content.Locales{Primary: c.scheme.Primary, Alternate: c.scheme.Alternate}
}

// PreferenceStore returns the locale preference store.
func (c *Container) PreferenceStore() interfaces.PreferenceStore {
	return c.preferences
}

// LinkBuilder returns the localized link builder, nil without a site URL.
func (c *Container) LinkBuilder() *locale.LinkBuilder {
	return c.links
}

// LoggerProvider returns the active logger provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// NewSession builds a locale session bound to the container's preference
// store and logger.
func (c *Container) NewSession(opts ...locale.SessionOption) *locale.Session {
	base := []locale.SessionOption{
		locale.WithPreferences(c.preferences),
		locale.WithLogger(logging.LocaleLogger(c.loggerProvider)),
	}
	return locale.NewSession(c.scheme, append(base, opts...)...)
}

// NewCarousel builds a controller that shares the container clock and logger.
func (c *Container) NewCarousel(cfg carousel.Config, opts ...carousel.Option) *carousel.Controller {
	base := []carousel.Option{carousel.WithLogger(logging.CarouselLogger(c.loggerProvider))}
	if c.clock != nil {
		base = append(base, carousel.WithClock(c.clock))
	}
	return carousel.New(cfg, append(base, opts...)...)
}

// RefreshHandler returns the cache refresh command handler.
func (c *Container) RefreshHandler() *synccmd.RefreshContentHandler {
	return c.refreshHandler
}

// SubscribeHandler returns the subscribe command handler.
func (c *Container) SubscribeHandler() *synccmd.SubscribeHandler {
	return c.subscribeHandler
}

// CommandTally counts refresh and subscribe outcomes since the container was
// built.
func (c *Container) CommandTally() *commands.Tally {
	return c.commandTally
}

// SiteAPI returns the HTTP surface.
func (c *Container) SiteAPI() *synchttp.SiteAPI {
	return c.site
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		return err
	}
	return nil
}

func storageDriver(cfg runtimeconfig.Config) string {
	if driver := strings.TrimSpace(cfg.Storage.Driver); driver != "" {
		return driver
	}
	return storage.DriverMemory
}
