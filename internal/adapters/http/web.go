package web

import (
	"net/http"
	"strings"
	"time"

	"hoteladmin/internal/adapters/http/middleware"
	"hoteladmin/internal/adapters/http/perf"
	"hoteladmin/internal/adapters/images"
	accountStore "hoteladmin/internal/adapters/storage/account"
	auditStore "hoteladmin/internal/adapters/storage/audit"
	contentStore "hoteladmin/internal/adapters/storage/content"
	inquiryStore "hoteladmin/internal/adapters/storage/inquiry"
	outboxStore "hoteladmin/internal/adapters/storage/outbox"
	reservationStore "hoteladmin/internal/adapters/storage/reservation"
	roomStore "hoteladmin/internal/adapters/storage/room"
	"hoteladmin/internal/application/orchestrators"
	"hoteladmin/internal/domain/occupancy"
)

// ImageURLPrefix is the path room photos are served under.
const ImageURLPrefix = "/room-images/"

// DefaultRateLimitPerSecond is the per-IP request budget when none is configured.
const DefaultRateLimitPerSecond = 20

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	RoomStore        roomStore.Store
	ReservationStore reservationStore.Store
	InquiryStore     inquiryStore.Store
	ContentStore     contentStore.Store
	OutboxStore      outboxStore.Store
	AuditStore       auditStore.Store
}

// Options carries the non-storage collaborators and settings of a Server.
type Options struct {
	CSRFKey            []byte   // 32 bytes
	Production         bool     // secure cookies, HTTPS-only CSRF
	TrustedOrigins     []string // extra origins accepted by the CSRF check
	RateLimitPerSecond int
	SlowRequest        time.Duration

	Images   images.Store
	ImageDir string // directory served under ImageURLPrefix
	Outbox   *orchestrators.OutboxProcessor
	Perf     *perf.Collector
	Palette  occupancy.Palette

	Now        func() time.Time
	GenerateID func() string
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	stores   Stores
	sessions *middleware.SessionStore
	images   images.Store
	imageDir string
	outbox   *orchestrators.OutboxProcessor
	perf     *perf.Collector
	palette  occupancy.Palette
	now      func() time.Time
	genID    func() string
	opts     Options
}

// NewServer creates a Server. Missing clock, ID generator and palette fall back to defaults.
func NewServer(s Stores, opts Options) *Server {
	srv := &Server{
		stores:   s,
		sessions: middleware.NewSessionStore(),
		images:   opts.Images,
		imageDir: opts.ImageDir,
		outbox:   opts.Outbox,
		perf:     opts.Perf,
		palette:  opts.Palette,
		now:      opts.Now,
		genID:    opts.GenerateID,
		opts:     opts,
	}
	if srv.now == nil {
		srv.now = time.Now
	}
	if srv.genID == nil {
		srv.genID = generateID
	}
	if srv.palette == nil {
		srv.palette = occupancy.DefaultPalette
	}
	return srv
}

// Sessions exposes the session store for login flows and tests.
func (s *Server) Sessions() *middleware.SessionStore {
	return s.sessions
}

// Handler wires routes and middleware.
// Order, outermost first: Timing, RateLimit, Auth, CSRF, SecurityHeaders, RequireAuth, routes.
func (s *Server) Handler() http.Handler {
	middleware.SecureCookies = s.opts.Production

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	rate := s.opts.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(rate, time.Second)

	return middleware.Chain(mux,
		middleware.RequireAuth(isPublicRoute),
		middleware.SecurityHeaders,
		middleware.CSRF(s.opts.CSRFKey, s.opts.Production, s.opts.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(s.perf, s.opts.SlowRequest),
	)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/reservations", s.handleReservationsPage)

	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/rooms/detail", s.handleRoomDetail)
	mux.HandleFunc("/api/rooms/images", s.handleRoomImages)
	mux.HandleFunc("/api/reservations", s.handleReservations)
	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/api/inquiries", s.handleInquiries)
	mux.HandleFunc("/api/inquiries/detail", s.handleInquiryDetail)
	mux.HandleFunc("/api/inquiries/reply", s.handleInquiryReply)
	mux.HandleFunc("/api/public/inquiries", s.handlePublicInquiry)
	mux.HandleFunc("/api/content", s.handleContent)
	mux.HandleFunc("/api/content/detail", s.handleContentDetail)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/stats/export", s.handleStatsExport)
	mux.HandleFunc("/api/account/password", s.handleAccountPassword)

	mux.Handle("/api/admin/", middleware.RequireRole("admin")(s.adminRoutes()))

	if s.imageDir != "" {
		mux.Handle(ImageURLPrefix, http.StripPrefix(ImageURLPrefix, http.FileServer(http.Dir(s.imageDir))))
	}
}

func (s *Server) adminRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/outbox", s.handleAdminOutbox)
	mux.HandleFunc("/api/admin/outbox/retry", s.handleAdminOutboxAction)
	mux.HandleFunc("/api/admin/outbox/abandon", s.handleAdminOutboxAction)
	mux.HandleFunc("/api/admin/perf", s.handleAdminPerf)
	mux.HandleFunc("/api/admin/accounts", s.handleAdminAccounts)
	mux.HandleFunc("/api/admin/audit", s.handleAdminAudit)
	return mux
}

// isPublicRoute lists what an anonymous visitor may reach.
func isPublicRoute(r *http.Request) bool {
	switch r.URL.Path {
	case "/login", "/healthz":
		return true
	case "/api/public/inquiries":
		return r.Method == http.MethodPost
	}
	return strings.HasPrefix(r.URL.Path, ImageURLPrefix)
}
