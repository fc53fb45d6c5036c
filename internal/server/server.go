// Package server exposes the ledger over a JSON REST API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage"
)

// Server wires the services behind the HTTP routes.
type Server struct {
	router      *mux.Router
	cfg         *config.Config
	users       *service.UserService
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	balances    *service.BalanceService
}

// New creates a server with all routes registered.
func New(cfg *config.Config, store storage.Store) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		cfg:         cfg,
		users:       service.NewUserService(store),
		groups:      service.NewGroupService(store),
		expenses:    service.NewExpenseService(store),
		settlements: service.NewSettlementService(store),
		balances:    service.NewBalanceService(store),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", middleware.MetricsHandler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging, middleware.Metrics)

	// Users
	api.HandleFunc("/users/sync", s.handleSyncUser).Methods("POST")
	api.HandleFunc("/users/email/{email}", s.handleGetUserByEmail).Methods("GET")
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods("GET")

	// Groups
	api.HandleFunc("/groups", s.handleCreateGroup).Methods("POST")
	api.HandleFunc("/groups/user/{userId}", s.handleListGroups).Methods("GET")
	api.HandleFunc("/groups/{id}", s.handleGetGroup).Methods("GET")
	api.HandleFunc("/groups/{id}", s.handleUpdateGroup).Methods("PUT")
	api.HandleFunc("/groups/{id}", s.handleDeleteGroup).Methods("DELETE")
	api.HandleFunc("/groups/{id}/members", s.handleAddMember).Methods("POST")
	api.HandleFunc("/groups/{id}/members/{userId}", s.handleRemoveMember).Methods("DELETE")

	// Expenses
	api.HandleFunc("/expenses", s.handleCreateExpense).Methods("POST")
	api.HandleFunc("/expenses/group/{groupId}", s.handleListGroupExpenses).Methods("GET")
	api.HandleFunc("/expenses/user/{userId}", s.handleListUserExpenses).Methods("GET")
	api.HandleFunc("/expenses/{id}", s.handleGetExpense).Methods("GET")
	api.HandleFunc("/expenses/{id}", s.handleUpdateExpense).Methods("PUT")
	api.HandleFunc("/expenses/{id}", s.handleDeleteExpense).Methods("DELETE")

	// Settlements
	api.HandleFunc("/settlements", s.handleCreateSettlement).Methods("POST")
	api.HandleFunc("/settlements/group/{groupId}", s.handleListGroupSettlements).Methods("GET")
	api.HandleFunc("/settlements/user/{userId}", s.handleListUserSettlements).Methods("GET")
	api.HandleFunc("/settlements/{id}", s.handleGetSettlement).Methods("GET")
	api.HandleFunc("/settlements/{id}", s.handleDeleteSettlement).Methods("DELETE")

	// Balances
	api.HandleFunc("/balances/user/{userId}", s.handleUserBalances).Methods("GET")
	api.HandleFunc("/balances/group/{groupId}", s.handleGroupBalances).Methods("GET")
	api.HandleFunc("/balances/group/{groupId}/simplified", s.handleSimplify).Methods("GET")
	api.HandleFunc("/balances/group/{groupId}/cleanup", s.handleConsolidate).Methods("POST")
}

// Handler returns the full middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(s.router)
}

// Start runs the HTTP server on the configured address.
func (s *Server) Start() error {
	slog.Info("API server listening", "addr", s.cfg.Server.Addr)
	return http.ListenAndServe(s.cfg.Server.Addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
