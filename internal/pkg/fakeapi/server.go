// Package fakeapi is an in-memory stand-in for the attendance backend, used
// by tests and by hrisctl serve-fake. It speaks the canonical envelope on
// every route and lets tests inject failures, stall requests and inspect
// what the client sent.
package fakeapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

// RecordedRequest is what the server saw of one request.
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
	ContentType   string
}

type account struct {
	profile      user.Profile
	passwordHash []byte
}

type injected struct {
	status  int
	message string
}

type Server struct {
	mu sync.Mutex

	accounts      map[string]*account // by email
	attendance    []attendance.Record
	leaves        []leave.Leave
	notifications map[string][]notification.Notification // by user id
	pushTokens    map[string]notification.RegisterPushTokenRequest
	resetTokens   map[string]string // token -> email
	stats         map[string]attendance.EmployeeStats
	uploads       map[string][]byte

	failures map[string][]injected
	stalls   map[string]bool
	arrivals chan string
	requests []RecordedRequest

	tokenAuth      *jwtauth.JWTAuth
	logger         *slog.Logger
	now            func() time.Time
	allowedOrigins []string
}

type Option func(*Server)

// WithLogger sends request logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins enables CORS for browser builds of the app.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		accounts:      make(map[string]*account),
		notifications: make(map[string][]notification.Notification),
		pushTokens:    make(map[string]notification.RegisterPushTokenRequest),
		resetTokens:   make(map[string]string),
		stats:         make(map[string]attendance.EmployeeStats),
		uploads:       make(map[string][]byte),
		failures:      make(map[string][]injected),
		stalls:        make(map[string]bool),
		arrivals:      make(chan string, 64),
		tokenAuth:     newTokenAuth("fakeapi-secret"),
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router serving every /service route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.record)
	r.Use(s.inject)

	r.Route("/service", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/restPassword", s.resetPassword)
			r.Post("/forget", s.forget)
			r.Get("/verify-email", s.verifyEmail)
			r.Post("/verifyOtp", s.verifyOtp)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(s.tokenAuth))
				r.Use(authRequired)
				r.Post("/changePassword", s.changePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(s.tokenAuth))
			r.Use(authRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/create", s.createAttendance)
				r.Get("/report", s.report)
				r.Get("/employeeStats", s.employeeStats)
				r.Get("/reportsByEmployId/{empDocId}", s.reportsByEmployee)

				r.Route("/leave-management", func(r chi.Router) {
					r.Post("/create", s.createLeave)
					r.Get("/getLeaves", s.listLeaves)
					r.Get("/getAllByUserId/{userId}", s.listLeavesByUser)
				})
			})

			r.Post("/user/uploadProfilePic", s.uploadProfilePic)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/user/{userId}", s.listNotifications)
				r.Patch("/{id}/read/{userId}", s.markNotificationRead)
				r.Get("/unread-count/{userId}", s.unreadCount)
				r.Delete("/{id}/user/{userId}", s.deleteNotification)
			})

			r.Post("/fcm-token", s.registerPushToken)
			r.Delete("/fcm-token", s.revokePushToken)
		})
	})

	return r
}

// AddUser registers an employee who can log in with password.
func (s *Server) AddUser(profile user.Profile, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[profile.OfficialEmail] = &account{profile: profile, passwordHash: hash}
}

// AddNotification stores a notification for userID and returns it.
func (s *Server) AddNotification(userID, title, message string) notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := notification.Notification{
		ID:                  newID(),
		UserID:              userID,
		Title:               title,
		NotificationMessage: message,
		CreatedAt:           s.now(),
	}
	s.notifications[userID] = append(s.notifications[userID], n)
	return n
}

// SetStats fixes the employeeStats response for empDocID.
func (s *Server) SetStats(empDocID string, stats attendance.EmployeeStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[empDocID] = stats
}

// FailNext makes the next request to method+path answer status with
// message instead of reaching its handler.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], injected{status: status, message: message})
}

// Stall makes requests to method+path hang until the client goes away.
// Each stalled arrival is announced on Arrivals.
func (s *Server) Stall(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalls[method+" "+path] = true
}

// Arrivals announces stalled requests as "METHOD /path".
func (s *Server) Arrivals() <-chan string {
	return s.arrivals
}

// Requests returns every request seen so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request to path.
func (s *Server) LastRequest(path string) (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].Path == path {
			return s.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// PushTokens returns the registered push tokens.
func (s *Server) PushTokens() map[string]notification.RegisterPushTokenRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]notification.RegisterPushTokenRequest, len(s.pushTokens))
	for k, v := range s.pushTokens {
		out[k] = v
	}
	return out
}

// Attendance returns every recorded check-in and check-out.
func (s *Server) Attendance() []attendance.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attendance.Record(nil), s.attendance...)
}

// Leaves returns every submitted leave request.
func (s *Server) Leaves() []leave.Leave {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]leave.Leave(nil), s.leaves...)
}

// ResetToken returns the token issued by /forget for email.
func (s *Server) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, e := range s.resetTokens {
		if e == email {
			return token
		}
	}
	return ""
}

// Upload returns the bytes stored under fileName.
func (s *Server) Upload(fileName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[fileName]
	return data, ok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			ContentType:   r.Header.Get("Content-Type"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		stalled := s.stalls[key]
		var failure *injected
		if queue := s.failures[key]; len(queue) > 0 {
			failure = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if stalled {
			select {
			case s.arrivals <- key:
			default:
			}
			<-r.Context().Done()
			return
		}
		if failure != nil {
			fail(w, failure.status, failure.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}
