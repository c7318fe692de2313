package core

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Zane-/cryptobot/pkg/types"
)

func SetupFiberApp(app *App) *fiber.App {
	fApp := fiber.New(fiber.Config{
		AppName: "cryptobot",
	})

	fApp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	})

	fApp.Get("/balances", func(c *fiber.Ctx) error {
		balances, err := app.Gateway.NonzeroBalances(c.Context())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "data": balances})
	})

	fApp.Get("/portfolio", func(c *fiber.Ctx) error {
		usd, err := app.Gateway.PortfolioUSD(c.Context())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"usd": usd}})
	})

	fApp.Get("/orders/open", func(c *fiber.Ctx) error {
		pair, err := types.ParsePair(c.Query("pair"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		orders, err := app.Exchange.GetOpenOrders(c.Context(), pair)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "data": orders})
	})

	return fApp
}

func ShutdownFiberApp(app *fiber.App) {
	_ = app.Shutdown()
}
