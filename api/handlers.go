package api

import (
	"time"

	"github.com/zero-void/site-backend/database"
	"github.com/zero-void/site-backend/localstore"
	"github.com/zero-void/site-backend/services"
	"github.com/zero-void/site-backend/store"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, autosaveInterval time.Duration, adminPassword string, tokenSecret []byte) *routeHandlers {
	return &routeHandlers{
		postHandler:  newPostHandler(deps.Store, deps.Snapshots, deps.Formatter),
		draftHandler: newDraftHandler(deps.Snapshots, autosaveInterval),
		siteHandler:  newSiteHandler(deps.DB, deps.Media),
		auth:         newAuthenticator(adminPassword, tokenSecret),
	}
}

// Dependencies carries the long-lived collaborators the server wires into
// its handlers.
type Dependencies struct {
	Config    map[string]string
	DB        *database.Database
	Store     *store.ContentStore
	Snapshots *localstore.Store
	Formatter *services.Formatter
	Media     *services.MediaStore
}
