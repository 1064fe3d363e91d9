// handlers/game_routes.go
package handlers

import (
	"errors"
	"strconv"

	"media-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, procs *services.GameProcessService, results *services.GameResultService) {
	app.Get("/api/games", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"games": procs.Discover()})
	})

	app.Post("/api/launch-game/:game", func(c *fiber.Ctx) error {
		gameID := c.Params("game")
		pid, err := procs.Launch(gameID)
		if err != nil {
			if errors.Is(err, services.ErrGameNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{
			"message": "Game launched",
			"game":    gameID,
			"pid":     pid,
		})
	})

	// Terminating a game that isn't running is not an error; the client just
	// learns nothing was there to stop.
	app.Post("/api/terminate-game", func(c *fiber.Ctx) error {
		gameID := c.FormValue("game")
		pid, _ := strconv.Atoi(c.FormValue("pid"))
		killed, terminated := procs.Terminate(gameID, pid)
		resp := fiber.Map{"terminated": terminated}
		if terminated {
			resp["pid"] = killed
		}
		return c.JSON(resp)
	})

	app.Get("/api/game-result/:game", func(c *fiber.Ctx) error {
		return c.JSON(results.Poll(c.Params("game")))
	})

	// Child game processes report completion here when they can't write the
	// result file themselves.
	app.Post("/api/report-game-result", func(c *fiber.Ctx) error {
		var req struct {
			Game        string `json:"game" form:"game"`
			Score       int    `json:"score" form:"score"`
			CoinsEarned int    `json:"coins_earned" form:"coins_earned"`
		}
		if err := c.BodyParser(&req); err != nil || req.Game == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game is required"})
		}
		if err := results.Report(req.Game, req.Score, req.CoinsEarned); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record result"})
		}
		return c.JSON(fiber.Map{"message": "Result recorded", "game": req.Game})
	})
}
