// Package server implements the kiosk sync endpoint: the remote side of
// the snapshot contract. GET returns the last pushed canonical document,
// POST replaces it, both guarded by an optional x-api-key header.
package server

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/kiosk/snapshot"
)

// New builds the Fiber app serving the sync contract.
func New(cfg *Config, repo SnapshotRepository) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	auth := APIKeyAuth(cfg.APIKey)
	app.Get("/", auth, getSnapshot(repo))
	app.Post("/", auth, putSnapshot(repo))

	return app
}

// Run wires the database and serves until an interrupt arrives.
func Run(cfg *Config) error {
	db, err := OpenDatabase(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	app := New(cfg, NewPostgresRepository(db))

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Starting kiosk sync endpoint on port %s", cfg.Port)
	return app.Listen(":" + cfg.Port)
}

// APIKeyAuth enforces the x-api-key header. An empty configured key
// disables the check, matching kiosks configured without one.
func APIKeyAuth(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		if c.Get(common.APIKeyHeaderName) != key {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid api key")
		}
		return c.Next()
	}
}

func getSnapshot(repo SnapshotRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := repo.Get(c.Context())
		if errors.Is(err, common.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no snapshot has been pushed yet")
		}
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}
}

func putSnapshot(repo SnapshotRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()

		// The payload must at least parse as a canonical document; the
		// conflict timestamp is stored alongside for inspection.
		lastUpdated, ok := snapshot.PeekLastUpdated(body)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "body is not a canonical snapshot document")
		}

		if err := repo.Put(c.Context(), body, lastUpdated); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"ok": true, "lastUpdated": lastUpdated})
	}
}

// errorHandler renders every error as a small JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
