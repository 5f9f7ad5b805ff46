package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"menuqr/internal/config"
	"menuqr/internal/http/handlers"
	applog "menuqr/internal/log"
	"menuqr/internal/repos"
	"menuqr/internal/services"
	"menuqr/internal/storage"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Artifact storage: local media dir served below at /media
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	files := &storage.LocalUploader{Dir: mediaDir, BaseURL: cfg.BaseURL}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message; never leak internals
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard (uploads are capped at 2 MiB each client-side)
	app.Server().MaxRequestBodySize = 4 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))

	// ---------- Static assets ----------
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc, files)
	owner := handlers.RequireOwner(authSvc, deps.StoreRepo)

	// Public pages
	app.Get("/", func(c *fiber.Ctx) error { return c.Render("landing", fiber.Map{}) })
	app.Get("/store/home/:store_name/:store_id/:table?", deps.MenuHandler.Home)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Store registration
	app.Get("/register/store", deps.StoreHandler.RegisterPage)
	app.Post("/register/store", deps.StoreHandler.Register)

	// Owner dashboard
	app.Get("/store/dashboard", owner, deps.StoreHandler.Dashboard)
	app.Get("/store/dashboard/data", owner, deps.StoreHandler.DashboardData)

	// Catalog
	app.Post("/store/categories", owner, deps.CategoryHandler.Create)
	app.Put("/store/categories/:id", owner, deps.CategoryHandler.Update)
	app.Delete("/store/categories/:id", owner, deps.CategoryHandler.Delete)

	app.Post("/store/meals", owner, deps.MealHandler.Create)
	app.Put("/store/meals/:id", owner, deps.MealHandler.Update)
	app.Delete("/store/meals/:id", owner, deps.MealHandler.Delete)

	// Tables & QR lifecycle
	app.Post("/store/tables", owner, deps.TableHandler.Create)
	app.Put("/store/tables/:id", owner, deps.TableHandler.Update)
	app.Post("/store/tables/:id/qr", owner, deps.TableHandler.RegenerateQR)
	app.Delete("/store/tables/:id", owner, deps.TableHandler.Delete)

	// Orders: creation is public (QR scanners and delivery customers),
	// status transitions belong to the owner
	app.Post("/store/create/order", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.order.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.OrderHandler.Create)
	app.Post("/store/order/:id/status", owner, deps.OrderHandler.UpdateStatus)
	app.Get("/store/order/:id", owner, deps.OrderHandler.View)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
