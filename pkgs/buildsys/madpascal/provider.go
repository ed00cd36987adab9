package madpascal

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/goplus/build-mad-pascal/internal/config"
	"github.com/goplus/build-mad-pascal/internal/deps"
	"github.com/goplus/build-mad-pascal/internal/manifest"
	"github.com/goplus/build-mad-pascal/pkgs/buildsys"
)

// Provider offers the Mad-Pascal toolchain to the host for one project.
type Provider struct {
	cwd    string
	store  config.Store
	tc     Toolchain
	lookup Lookup
	log    *zap.Logger

	mu        sync.Mutex
	listeners map[int]func()
	next      int
	unsubs    []func()
}

var _ buildsys.Builder = (*Provider)(nil)

// Option configures Provider.
type Option func(*Provider)

// WithoutAssembler limits the provider to the compile stage.
func WithoutAssembler() Option {
	return func(p *Provider) {
		p.tc.Assemble = false
	}
}

// WithGOOS generates settings for goos instead of the running OS.
func WithGOOS(goos string) Option {
	return func(p *Provider) {
		p.tc.GOOS = goos
	}
}

// WithLookup replaces the executable lookup used by IsEligible.
func WithLookup(lookup Lookup) Option {
	return func(p *Provider) {
		p.lookup = lookup
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Provider) {
		p.log = log
	}
}

// New creates a provider for the project rooted at cwd and subscribes to the
// options that change its settings. Call Close to unsubscribe.
func New(cwd string, store config.Store, opts ...Option) *Provider {
	p := &Provider{
		cwd:       cwd,
		store:     store,
		tc:        Toolchain{GOOS: runtime.GOOS, Assemble: true},
		lookup:    ExecLookup,
		log:       zap.NewNop(),
		listeners: map[int]func(){},
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, key := range []string{KeyInstallPath, KeyAssemblerArgs} {
		p.unsubs = append(p.unsubs, store.Observe(key, func(any) { p.refresh(key) }))
	}
	return p
}

// Cwd returns the project directory.
func (p *Provider) Cwd() string {
	return p.cwd
}

func (p *Provider) NiceName() string {
	return "Mad-Pascal"
}

// Config returns the current configuration snapshot.
func (p *Provider) Config() Config {
	return LoadConfig(p.store, p.tc.GOOS)
}

func (p *Provider) IsEligible() bool {
	return p.IsEligibleContext(context.Background())
}

// IsEligibleContext is IsEligible with a context for the lookups.
func (p *Provider) IsEligibleContext(ctx context.Context) bool {
	cfg := p.Config()
	ok := p.tc.Probe(ctx, cfg, p.lookup)
	p.log.Debug("eligibility probe",
		zap.String("cwd", p.cwd),
		zap.String("installPath", cfg.InstallPath),
		zap.Bool("alwaysEligible", cfg.AlwaysEligible),
		zap.Bool("eligible", ok))
	return ok
}

func (p *Provider) Settings() []buildsys.Target {
	return p.tc.Settings(p.Config())
}

func (p *Provider) OnRefresh(fn func()) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) refresh(key string) {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	p.log.Debug("refresh", zap.String("key", key), zap.Int("listeners", len(fns)))
	for _, fn := range fns {
		fn()
	}
}

// Close drops the configuration subscriptions and refresh listeners.
func (p *Provider) Close() {
	p.mu.Lock()
	unsubs := p.unsubs
	p.unsubs = nil
	p.listeners = map[int]func(){}
	p.mu.Unlock()
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
}

// Activate satisfies the package dependencies of m when the
// manageDependencies option is enabled. goos selects the option defaults, as
// for the provider.
func Activate(ctx context.Context, store config.Store, goos string, pm deps.PackageManager, m *manifest.Manifest, log *zap.Logger) error {
	if !LoadConfig(store, goos).ManageDependencies {
		return nil
	}
	return deps.Satisfy(ctx, pm, m.Name, m.PackageDeps, log)
}
