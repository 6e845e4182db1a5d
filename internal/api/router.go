package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chirpygame/internal/api/handler"
	"github.com/mcoot/chirpygame/internal/api/middleware"
	"github.com/mcoot/chirpygame/internal/services/shell"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Shells *shell.Manager
	// SecureCookies marks the client id cookie as HTTPS-only
	SecureCookies bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	clientHandler := handler.NewClientHandler(cfg.SecureCookies)
	sessionHandler := handler.NewSessionHandler()
	economyHandler := handler.NewEconomyHandler()
	worldHandler := handler.NewWorldHandler()
	saveHandler := handler.NewSaveHandler()

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Routes without a client
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/clients", clientHandler.Issue).Methods(http.MethodPost)

	// Everything else acts on the calling client's session
	client := api.NewRoute().Subrouter()
	client.Use(middleware.Client(cfg.Shells))

	// Session
	client.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	client.HandleFunc("/session", sessionHandler.LogOut).Methods(http.MethodDelete)
	client.HandleFunc("/session/restore", sessionHandler.Restore).Methods(http.MethodPost)
	client.HandleFunc("/session/local/signup", sessionHandler.SignUpLocal).Methods(http.MethodPost)
	client.HandleFunc("/session/local/signin", sessionHandler.SignInLocal).Methods(http.MethodPost)
	client.HandleFunc("/session/github/claim", sessionHandler.ClaimGithub).Methods(http.MethodPost)
	client.HandleFunc("/session/github/profile", sessionHandler.CompleteGithubProfile).Methods(http.MethodPost)
	client.HandleFunc("/session/test/unlock", sessionHandler.UnlockTestPortal).Methods(http.MethodPost)

	// Account
	client.HandleFunc("/account", sessionHandler.GetAccount).Methods(http.MethodGet)
	client.HandleFunc("/account", sessionHandler.DeleteAccount).Methods(http.MethodDelete)
	client.HandleFunc("/account/password", sessionHandler.UpdatePassword).Methods(http.MethodPost)
	client.HandleFunc("/account/offline", worldHandler.ToggleOffline).Methods(http.MethodPost)
	client.HandleFunc("/account/plus", economyHandler.Subscribe).Methods(http.MethodPost)
	client.HandleFunc("/account/plus", economyHandler.Unsubscribe).Methods(http.MethodDelete)

	// Economy, shop and inventory
	client.HandleFunc("/economy/reward", economyHandler.ClaimReward).Methods(http.MethodPost)
	client.HandleFunc("/shop", economyHandler.Shop).Methods(http.MethodGet)
	client.HandleFunc("/shop/purchase", economyHandler.Purchase).Methods(http.MethodPost)
	client.HandleFunc("/inventory", economyHandler.Inventory).Methods(http.MethodGet)
	client.HandleFunc("/inventory/equip", economyHandler.Equip).Methods(http.MethodPost)

	// World, battles and friends
	client.HandleFunc("/map", worldHandler.Map).Methods(http.MethodGet)
	client.HandleFunc("/map/move", worldHandler.Move).Methods(http.MethodPost)
	client.HandleFunc("/battle", worldHandler.Battle).Methods(http.MethodGet)
	client.HandleFunc("/battle/{action}", worldHandler.BattleAction).Methods(http.MethodPost)
	client.HandleFunc("/friends", worldHandler.Friends).Methods(http.MethodGet)
	client.HandleFunc("/friends/{name}/duel", worldHandler.Duel).Methods(http.MethodPost)

	// Save files
	client.HandleFunc("/save", saveHandler.Export).Methods(http.MethodGet)
	client.HandleFunc("/save", saveHandler.Load).Methods(http.MethodPost)
	client.HandleFunc("/save/transfer", saveHandler.Transfer).Methods(http.MethodPost)
	client.HandleFunc("/download", saveHandler.Download).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
