// handlers/coin_routes.go
package handlers

import (
	"errors"
	"strconv"

	"media-rewards-system/models"
	"media-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCoinRoutes(app *fiber.App, ledger *services.LedgerService) {
	app.Get("/api/user/:id", func(c *fiber.Ctx) error {
		user, err := ledger.GetUser(c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(user)
	})

	app.Get("/api/user/:id/transactions", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		txns, err := ledger.GetTransactions(c.Params("id"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"transactions": txns})
	})

	app.Post("/api/user/:id/earn-coins", func(c *fiber.Ctx) error {
		userID := c.Params("id")
		source := c.FormValue("source")
		if source == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source is required"})
		}
		sourceID := c.FormValue("source_id")
		durationMinutes, _ := strconv.Atoi(c.FormValue("duration_minutes"))
		category := c.FormValue("category")

		amount := services.RewardCost(source, durationMinutes, category)

		// Streak is advanced before the earn txn is written, so the
		// once-per-day check looks at yesterday's check-in, not this one.
		streak := 0
		if source == models.SourceDaily {
			s, err := ledger.BumpStreak(userID)
			if err != nil && !errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
			}
			streak = s
		}

		description := c.FormValue("description")
		if description == "" {
			description = "Earned from " + source
		}

		txn, balance, err := ledger.Earn(userID, amount, source, sourceID, description)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to award coins"})
		}

		resp := fiber.Map{
			"message":     "Coins earned!",
			"transaction": txn,
			"new_balance": balance,
		}
		if source == models.SourceDaily {
			resp["streak_days"] = streak
		}
		return c.JSON(resp)
	})

	app.Get("/api/rewards", func(c *fiber.Ctx) error {
		rewards, err := ledger.GetRewards(c.Query("category"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"rewards": rewards})
	})

	app.Post("/api/user/:id/redeem-reward/:rid", func(c *fiber.Ctx) error {
		reward, balance, err := ledger.RedeemReward(c.Params("id"), c.Params("rid"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			case errors.Is(err, services.ErrRewardNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Reward not found or unavailable"})
			case errors.Is(err, services.ErrInsufficientFunds):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Insufficient coins"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Redemption failed"})
		}
		return c.JSON(fiber.Map{
			"message":     "Reward redeemed!",
			"reward":      reward,
			"new_balance": balance,
		})
	})

	app.Get("/api/user/:id/rewards", func(c *fiber.Ctx) error {
		userRewards, err := ledger.GetUserRewards(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(fiber.Map{"rewards": userRewards})
	})

	app.Get("/api/user/:id/achievements", func(c *fiber.Ctx) error {
		report, err := ledger.DeriveAchievements(c.Params("id"))
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		return c.JSON(report)
	})
}
