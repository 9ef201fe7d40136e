package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public site surface and the authenticated admin
// surface.
func setupRoutes(r chi.Router, handlers *routeHandlers) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(RequestLogger)

		r.Post("/login", handlers.auth.login())

		r.Get("/posts", handlers.postHandler.getPublishedPosts())
		r.Get("/posts/featured", handlers.postHandler.getFeaturedPosts())
		r.Get("/post/{postID}", handlers.postHandler.getPost())
		r.Get("/post/{postID}/rendered", handlers.postHandler.getRenderedPost())
		r.Post("/post/{postID}/unlock", handlers.postHandler.unlockPost())

		r.Get("/experiences", handlers.siteHandler.getExperiences())
		r.Get("/gallery", handlers.siteHandler.getGallery())
		r.Get("/reading-log", handlers.siteHandler.getReadingLog())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(RequestLogger)
		r.Use(handlers.auth.authenticate)

		r.Get("/admin/posts", handlers.postHandler.getAllPosts())
		r.Post("/admin/post", handlers.postHandler.createPost())
		r.Put("/admin/post/{postID}", handlers.postHandler.updatePost())
		r.Delete("/admin/post/{postID}", handlers.postHandler.deletePost())
		r.Post("/admin/post/{postID}/publish", handlers.postHandler.togglePublish())
		r.Post("/admin/post/{postID}/feature", handlers.postHandler.toggleFeatured())
		r.Post("/admin/posts/refresh", handlers.postHandler.refreshPosts())
		r.Post("/admin/format", handlers.postHandler.formatContent())

		r.Post("/admin/editor/open", handlers.draftHandler.openSession())
		r.Put("/admin/editor/state", handlers.draftHandler.pushState())
		r.Post("/admin/editor/close", handlers.draftHandler.closeSession())
		r.Post("/admin/draft", handlers.draftHandler.saveDraft())
		r.Get("/admin/draft", handlers.draftHandler.checkRecovery())
		r.Delete("/admin/draft", handlers.draftHandler.discardDraft())

		r.Post("/admin/media", handlers.siteHandler.uploadMedia())
	})
}
