package handlers

import (
	"time"

	"github.com/DszGabriel04/attendance-nitgoa/config"
	"github.com/DszGabriel04/attendance-nitgoa/database"
	"github.com/DszGabriel04/attendance-nitgoa/guard"
	"github.com/DszGabriel04/attendance-nitgoa/sessions"
)

// Handler carries the server's collaborators into the route handlers. The
// registry is constructed once at startup and injected here rather than living
// as package state, which keeps its lock discipline visible and testable.
type Handler struct {
	store    *database.Store
	registry *sessions.Registry
	guard    *guard.ScanGuard
	cfg      config.Config
}

func New(store *database.Store, registry *sessions.Registry, g *guard.ScanGuard, cfg config.Config) *Handler {
	return &Handler{store: store, registry: registry, guard: g, cfg: cfg}
}

func today() string {
	return time.Now().Format("2006-01-02")
}
