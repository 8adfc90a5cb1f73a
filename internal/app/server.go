package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
)

// newStatusServer builds the HTTP status endpoints. Handlers only read the
// published snapshot, never the live simulation.
func (a *App) newStatusServer() *fiber.App {
	srv := fiber.New()

	srv.Get("/health", func(c fiber.Ctx) error {
		return c.SendString("OK")
	})

	srv.Get("/spells", func(c fiber.Ctx) error {
		return c.JSON(a.Status())
	})

	srv.Get("/spells/:actor", func(c fiber.Ctx) error {
		actor := c.Params("actor")
		if _, ok := a.world.Actor(actor); !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "actor not found"})
		}
		return c.JSON(fiber.Map{"actor": actor, "casts": a.Status().CastsBy(actor)})
	})

	return srv
}

// startStatusServer runs the status server in the background.
func (a *App) startStatusServer(ctx context.Context, port int) *fiber.App {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring status server.")

	srv := a.newStatusServer()
	addr := fmt.Sprintf(":%d", port)

	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/spells", addr))
		if err := srv.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
	return srv
}

func (a *App) stopStatusServer(ctx context.Context, srv *fiber.App) error {
	logger := ctxlog.FromContext(ctx)
	if srv == nil {
		logger.Debug("Status server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down status server...")
	if err := srv.ShutdownWithContext(ctx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Status server shut down gracefully.")
	return nil
}
