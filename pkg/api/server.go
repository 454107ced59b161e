package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/middleware"
	"github.com/docmanhq/docman/pkg/observability"
	"github.com/docmanhq/docman/pkg/storage"
)

// NotFoundMessage is returned for any route outside the API surface
const NotFoundMessage = "this resource does not exist or has been previously deleted"

// Server is the document management API server
type Server struct {
	store   storage.Store
	issuer  *auth.TokenIssuer
	router  *mux.Router
	logger  *observability.Logger
	metrics *observability.Metrics
	authn   *middleware.Authenticator
	guard   *middleware.OwnershipGuard
	limiter *middleware.RateLimiter
}

// NewServer creates the API server and wires up all routes. The rate limiter
// may be nil, in which case the credential endpoints are not limited.
func NewServer(store storage.Store, issuer *auth.TokenIssuer, logger *observability.Logger, metrics *observability.Metrics, limiter *middleware.RateLimiter) *Server {
	s := &Server{
		store:   store,
		issuer:  issuer,
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: metrics,
		authn:   middleware.NewAuthenticator(issuer, store),
		guard:   middleware.NewOwnershipGuard(store),
		limiter: limiter,
	}

	s.setupRoutes()
	return s
}

// Router exposes the underlying router so callers can attach outer
// middleware (request IDs, logging, recovery, CORS, metrics).
func (s *Server) Router() *mux.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, NotFoundMessage)
	})

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("", s.welcome).Methods("GET")
	api.HandleFunc("/", s.welcome).Methods("GET")

	// Credential endpoints: unauthenticated, rate limited per client IP
	api.Handle("/users", s.limited(http.HandlerFunc(s.registerUser))).Methods("POST")
	api.Handle("/users/login", s.limited(http.HandlerFunc(s.loginUser))).Methods("POST")

	// User routes
	api.Handle("/users", s.authn.Handler(middleware.RequireAdmin(http.HandlerFunc(s.listUsers)))).Methods("GET")
	api.Handle("/users/{id}", s.authn.Handler(s.guard.RequireSelfOrAdmin(http.HandlerFunc(s.getUser)))).Methods("GET")
	api.Handle("/users/{id}", s.authn.Handler(s.guard.RequireSelf(http.HandlerFunc(s.updateUser)))).Methods("PUT")
	// Deletion orders its own checks: the bootstrap admin must 403 before
	// any lookup happens
	api.Handle("/users/{id}", s.authn.Handler(http.HandlerFunc(s.deleteUser))).Methods("DELETE")
	api.Handle("/users/{id}/documents", s.authn.Handler(s.guard.RequireSelfOrAdmin(http.HandlerFunc(s.getUserDocuments)))).Methods("GET")

	// Document routes
	api.Handle("/documents", s.authn.Handler(http.HandlerFunc(s.createDocument))).Methods("POST")
	api.Handle("/documents", s.authn.Handler(http.HandlerFunc(s.listDocuments))).Methods("GET")
	api.Handle("/documents/{id}", s.authn.Handler(http.HandlerFunc(s.getDocument))).Methods("GET")
	api.Handle("/documents/{id}", s.authn.Handler(http.HandlerFunc(s.updateDocument))).Methods("PUT")
	api.Handle("/documents/{id}", s.authn.Handler(http.HandlerFunc(s.deleteDocument))).Methods("DELETE")

	// Search routes
	api.Handle("/search/users", s.authn.Handler(http.HandlerFunc(s.searchUsers))).Methods("GET")
	api.Handle("/search/documents", s.authn.Handler(http.HandlerFunc(s.searchDocuments))).Methods("GET")
}

// limited applies the credential rate limiter when one is configured
func (s *Server) limited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Handler(next)
}

func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	httputil.WriteMessage(w, http.StatusOK, WelcomeMessage)
}

// internalError logs the storage failure with request context and hides it
// behind the generic message
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.FromContext(r.Context()).WithError(err).Error("request failed")
	httputil.WriteInternalError(w)
}
