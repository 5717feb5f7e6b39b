// Package v1 implements the catalog API route handlers.
package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/logger"
)

// RegistryRoutes holds the dependencies for the registry API handlers.
type RegistryRoutes struct {
	provider catalog.Provider
}

// RegistryRouter creates a new router for the registry API.
func RegistryRouter(provider catalog.Provider) http.Handler {
	routes := &RegistryRoutes{provider: provider}

	r := chi.NewRouter()
	r.Get("/", routes.getRegistryInfo)
	r.Route("/servers", func(r chi.Router) {
		r.Get("/", routes.listServers)
		r.Get("/{id}", routes.getServer)
	})
	return r
}

// RegistryDocumentRouter serves the full registry JSON document. This is
// the same-origin route the web catalog fetches.
func RegistryDocumentRouter(provider catalog.Provider) http.Handler {
	routes := &RegistryRoutes{provider: provider}

	r := chi.NewRouter()
	r.Get("/", routes.getRegistryDocument)
	return r
}

func (rr *RegistryRoutes) getRegistryDocument(w http.ResponseWriter, _ *http.Request) {
	reg, err := rr.provider.GetRegistry()
	if err != nil {
		logger.Errorf("Failed to get registry: %v", err)
		http.Error(w, "Failed to get registry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, reg)
}

func (rr *RegistryRoutes) getRegistryInfo(w http.ResponseWriter, _ *http.Request) {
	reg, err := rr.provider.GetRegistry()
	if err != nil {
		logger.Errorf("Failed to get registry: %v", err)
		http.Error(w, "Failed to get registry", http.StatusInternalServerError)
		return
	}

	writeJSON(w, registryInfoResponse{
		Version:     reg.Version,
		LastUpdated: reg.LastUpdated,
		ServerCount: len(reg.Servers),
	})
}

func (rr *RegistryRoutes) listServers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var servers []catalog.MCPServer
	var err error
	if query != "" {
		servers, err = rr.provider.SearchServers(query)
	} else {
		servers, err = rr.provider.ListServers()
	}
	if err != nil {
		logger.Errorf("Failed to list servers: %v", err)
		http.Error(w, "Failed to list servers", http.StatusInternalServerError)
		return
	}

	writeJSON(w, listServersResponse{Servers: servers, Total: len(servers)})
}

func (rr *RegistryRoutes) getServer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	server, err := rr.provider.GetServer(id)
	if err != nil {
		if errors.Is(err, catalog.ErrServerNotFound) {
			http.Error(w, "Server not found", http.StatusNotFound)
			return
		}
		logger.Errorf("Failed to get server %s: %v", id, err)
		http.Error(w, "Failed to get server", http.StatusInternalServerError)
		return
	}

	writeJSON(w, getServerResponse{Server: server})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Response type definitions.

// registryInfoResponse summarizes the registry document.
type registryInfoResponse struct {
	// Version of the registry schema
	Version string `json:"version"`
	// Last updated timestamp
	LastUpdated string `json:"last_updated"`
	// Number of servers in the registry
	ServerCount int `json:"server_count"`
}

// listServersResponse represents the response for listing servers
type listServersResponse struct {
	// List of servers in the registry
	Servers []catalog.MCPServer `json:"servers"`
	// Total number of servers returned
	Total int `json:"total"`
}

// getServerResponse represents the response for getting a server
type getServerResponse struct {
	// Server details
	Server *catalog.MCPServer `json:"server"`
}
