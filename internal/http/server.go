package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hoffman/internal/auth"
	"hoffman/internal/cache"
	"hoffman/internal/core"
	applog "hoffman/internal/log"
	"hoffman/internal/middleware/ratelimit"
	"hoffman/internal/middleware/security"
	"hoffman/internal/middleware/trace"
	"hoffman/internal/services"
	appweb "hoffman/web"
)

// Deps are the collaborators the server needs. Ready, Clock and Registry
// are optional.
type Deps struct {
	Auth     *services.AuthService
	Sessions *auth.SessionManager
	Settings *services.SettingsService
	Ledger   *services.LedgerService
	Panel    *services.PanelService
	Family   *services.FamilyService

	// Ready backs /readyz, typically the store ping.
	Ready func(context.Context) error
	Clock func() time.Time

	Logger             *applog.Logger
	Registry           *prometheus.Registry
	RateLimitPerMinute int
	PanelCacheTTL      time.Duration
}

type Server struct {
	http.Server
	templates *template.Template

	auth     *services.AuthService
	sessions *auth.SessionManager
	settings *services.SettingsService
	ledger   *services.LedgerService
	panel    *services.PanelService
	family   *services.FamilyService
	ready    func(context.Context) error
	now      func() time.Time
	logger   *applog.Logger

	panelCache    *cache.LRUCache[core.Balance]
	panelCacheTTL time.Duration
	cacheManager  *cache.Manager
	rateLimiter   *ratelimit.Limiter
	detector      *security.Detector
	registry      *prometheus.Registry
	ledgerCounter *prometheus.CounterVec
	started       time.Time

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and wires routes and middleware.
func NewServer(addr string, deps Deps) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		templates:     tmpl,
		auth:          deps.Auth,
		sessions:      deps.Sessions,
		settings:      deps.Settings,
		ledger:        deps.Ledger,
		panel:         deps.Panel,
		family:        deps.Family,
		ready:         deps.Ready,
		now:           now,
		logger:        logger,
		panelCache:    cache.NewLRUCache[core.Balance](500, deps.PanelCacheTTL),
		panelCacheTTL: deps.PanelCacheTTL,
		cacheManager:  cache.NewManager(logger),
		detector:      security.NewDetector(),
		registry:      registry,
		started:       time.Now(),
	}

	rl := ratelimit.DefaultConfig()
	if deps.RateLimitPerMinute > 0 {
		rl.RequestsPerMinute = deps.RateLimitPerMinute
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	if s.panelCacheTTL > 0 {
		s.cacheManager.Register(s.panelCache)
		s.cacheManager.StartCleanup(time.Minute)
	}

	s.registerMetrics()
	traceMetrics := trace.NewMetrics(registry)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = trace.NewMiddleware(s.detector.ExtractClientIP, traceMetrics).Middleware(handler)
	handler = applog.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/signup", s.handleSignUp)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/panel", s.requireSession(s.handlePanel))
	mux.HandleFunc("/config", s.requireSession(s.handleConfig))
	mux.HandleFunc("/launch", s.requireSession(s.handleLaunch))
	mux.HandleFunc("/launch/incomes", s.requireSession(s.handleCreateIncome))
	mux.HandleFunc("/launch/expenses", s.requireSession(s.handleCreateExpense))
	mux.HandleFunc("/launch/debts", s.requireSession(s.handleCreateDebt))
	mux.HandleFunc("/share", s.requireSession(s.handleShare))
	mux.HandleFunc("/join", s.requireSession(s.handleJoin))

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

func (s *Server) registerMetrics() {
	s.ledgerCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hoffman",
		Name:      "ledger_entries_total",
		Help:      "Ledger entries stored, by kind.",
	}, []string{"kind"})

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.ledgerCounter,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "hoffman",
			Name:      "panel_cache_entries",
			Help:      "Balances currently cached.",
		}, func() float64 { return float64(s.panelCache.Size()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "hoffman",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}, func() float64 { return float64(s.rateLimiter.Rejected()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "hoffman",
			Name:      "suspicious_requests_total",
			Help:      "Requests matching a known attack pattern.",
		}, func() float64 { return float64(s.detector.SuspiciousRequests()) }),
	)
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// requireSession lets the request through only with a valid session, and
// redirects to the login screen otherwise.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.sessions.FromRequest(r)
		if !ok {
			redirect(w, r, "/")
			return
		}
		ctx := auth.WithUserID(r.Context(), userID)
		logger := applog.FromContext(ctx).With(applog.FieldUserID, userID)
		ctx = context.WithValue(ctx, applog.LoggerContextKey, logger)
		security.NoStore(next).ServeHTTP(w, r.WithContext(ctx))
	}
}

func currentUser(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// render executes the named template into a buffer so a failing template
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, resp *HTMXResponseBuilder, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).Error("Template execution failed",
			applog.FieldError, err, "template", name)
		ErrorResponse(http.StatusInternalServerError, "Erro ao renderizar a página").Write(w)
		return
	}
	resp.BodyHTML(buf.Bytes()).Write(w)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).Warn("Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	TooManyRequestsError("Muitas requisições. Tente novamente em instantes.").Write(w)
}

func (s *Server) panelKey(userID string, ym core.YearMonth) string {
	return userID + "|" + ym.String()
}

// balance returns the cached balance or computes it. A balance built
// from a failed read is shown once and never cached.
func (s *Server) balance(ctx context.Context, userID string, ym core.YearMonth) core.Balance {
	key := s.panelKey(userID, ym)
	if s.panelCacheTTL > 0 {
		if b, ok := s.panelCache.Get(key); ok {
			return b
		}
	}
	b, complete := s.panel.Compute(ctx, userID, ym)
	if s.panelCacheTTL > 0 && complete {
		s.panelCache.Set(key, b)
	}
	return b
}

// invalidatePanel drops every cached month of userID.
func (s *Server) invalidatePanel(userID string) {
	s.panelCache.DeletePrefix(userID + "|")
}
