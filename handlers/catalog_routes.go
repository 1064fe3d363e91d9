// handlers/catalog_routes.go
package handlers

import (
	"media-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalog *services.CatalogService, recreation *services.RecreationService) {
	// Movies
	app.Get("/api/movies", catalog.GetMovies)
	app.Get("/api/movies/categories", catalog.GetCategories)
	app.Get("/api/movies/:id", catalog.GetMovie)
	app.Post("/api/movies", catalog.CreateMovie)
	app.Put("/api/movies/:id", catalog.UpdateMovie)
	app.Delete("/api/movies/:id", catalog.DeleteMovie)

	// Media library
	app.Get("/api/videos", catalog.GetMediaItems)
	app.Get("/api/videos/category", catalog.GetMediaByCategoryQuery)
	app.Get("/api/videos/category/:category", catalog.GetMediaByCategoryPath)
	app.Post("/api/videos/:id/watch", catalog.WatchVideo)
	app.Post("/api/songs/:id/listen", catalog.ListenSong)

	app.Get("/api/search", catalog.Search)

	// Recreation clips
	app.Get("/api/recreation/videos", recreation.GetVideos)
	app.Post("/api/recreation/videos", recreation.UploadVideo)
	app.Delete("/api/recreation/videos/:id", recreation.DeleteVideo)
}
