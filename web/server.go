// Package web wires the HTTP surface: the Fiber app, its middleware
// stack, and the route table mapping API paths onto the domain services.
package web

import (
	"log"

	"github.com/Patricemapiye-ctrl/navira-forge/assistant"
	"github.com/Patricemapiye-ctrl/navira-forge/auth"
	"github.com/Patricemapiye-ctrl/navira-forge/cart"
	"github.com/Patricemapiye-ctrl/navira-forge/config"
	"github.com/Patricemapiye-ctrl/navira-forge/inventory"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/realtime"
	"github.com/Patricemapiye-ctrl/navira-forge/returns"
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
	"github.com/Patricemapiye-ctrl/navira-forge/web/handlers"
	"github.com/Patricemapiye-ctrl/navira-forge/web/middleware"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server represents the web server.
type Server struct {
	app *fiber.App
}

// Deps carries the shared infrastructure the server builds its services
// from. Redis may be nil; cart and idempotency features then report
// unavailable instead of taking the whole API down.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Hub    *realtime.Hub
}

// NewServer creates a new Fiber server with all routes registered.
func NewServer(d Deps) *Server {
	app := fiber.New(fiber.Config{
		AppName: "navira-forge",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))

	setupRoutes(app, d)

	return &Server{app: app}
}

// Start starts the server.
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// setupRoutes configures all application routes.
func setupRoutes(app *fiber.App, d Deps) {
	tokens := auth.NewManager(d.Config.Auth.JWTSecret, d.Config.Auth.TokenTTL)

	items := inventory.NewService(d.DB, d.Hub)
	recorder := sales.NewRecorder(d.DB, d.Hub)
	fulfillment := sales.NewFulfillment(d.DB, d.Hub)
	processor := returns.NewProcessor(d.DB, d.Hub)

	var carts *cart.Store
	if d.Redis != nil {
		carts = cart.NewStore(d.Redis, d.Config.Redis.CartTTL)
	}

	authH := &handlers.Auth{DB: d.DB, Tokens: tokens}
	itemsH := &handlers.Items{Service: items}
	cartsH := &handlers.Carts{Store: carts, Items: items}
	salesH := &handlers.Sales{DB: d.DB, Recorder: recorder, Carts: carts}
	if d.Redis != nil {
		// Assigned only when connected so a nil *redis.Client never hides
		// inside a non-nil interface value.
		salesH.Redis = d.Redis
	}
	ordersH := &handlers.Orders{Fulfillment: fulfillment}
	returnsH := &handlers.Returns{DB: d.DB, Processor: processor}
	reportsH := &handlers.Reports{DB: d.DB}
	usersH := &handlers.Users{DB: d.DB}
	assistantH := &handlers.Assistant{
		Client: assistant.New(d.Config.Assistant),
		Items:  items,
	}
	eventsH := &handlers.Events{Hub: d.Hub}

	staff := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleEmployee))
	admin := middleware.RequireRole(string(models.RoleAdmin))

	// Operational endpoints
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Debug endpoint for SQL logs
	app.Get("/api/debug/sql", handlers.GetSQLLogs)
	app.Delete("/api/debug/sql", handlers.ClearSQLLogs)

	api := app.Group("/api")

	// Authentication
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authH.Register)
	authGroup.Post("/login", authH.Login)
	authGroup.Get("/me", middleware.Protected(tokens), authH.Me)

	// Catalog: public reads, staff/admin mutations
	itemsGroup := api.Group("/items")
	itemsGroup.Get("/", itemsH.List)
	itemsGroup.Get("/available", itemsH.Available)
	itemsGroup.Get("/low-stock", middleware.Protected(tokens), staff, itemsH.LowStock)
	itemsGroup.Get("/:id", itemsH.Get)
	itemsGroup.Post("/", middleware.Protected(tokens), admin, itemsH.Create)
	itemsGroup.Put("/:id", middleware.Protected(tokens), admin, itemsH.Update)
	itemsGroup.Post("/:id/stock", middleware.Protected(tokens), admin, itemsH.AddStock)
	itemsGroup.Delete("/:id", middleware.Protected(tokens), admin, itemsH.Delete)

	// Storefront carts and checkout (anonymous shoppers)
	if carts != nil {
		cartGroup := api.Group("/cart")
		cartGroup.Post("/", cartsH.Create)
		cartGroup.Get("/:id", cartsH.Get)
		cartGroup.Post("/:id/items", cartsH.AddItem)
		cartGroup.Put("/:id/items/:itemId", cartsH.UpdateItem)
		cartGroup.Delete("/:id/items/:itemId", cartsH.RemoveItem)

		api.Post("/checkout", salesH.Checkout)
	}

	// POS and sale history (staff)
	posGroup := api.Group("/pos", middleware.Protected(tokens), staff)
	posGroup.Post("/sales", salesH.CreatePOS)

	salesGroup := api.Group("/sales", middleware.Protected(tokens), staff)
	salesGroup.Get("/", salesH.List)
	salesGroup.Get("/:id", salesH.Get)

	// Fulfillment queue (staff)
	ordersGroup := api.Group("/orders", middleware.Protected(tokens), staff)
	ordersGroup.Get("/pending", ordersH.Pending)
	ordersGroup.Post("/:id/complete", ordersH.Complete)
	ordersGroup.Post("/:id/cancel", ordersH.Cancel)

	// Returns lifecycle (staff; filing is open so customers can request)
	api.Post("/returns", returnsH.Request)
	returnsGroup := api.Group("/returns", middleware.Protected(tokens), staff)
	returnsGroup.Get("/", returnsH.List)
	returnsGroup.Post("/:id/approve", returnsH.Approve)
	returnsGroup.Post("/:id/reject", returnsH.Reject)
	returnsGroup.Post("/:id/complete", returnsH.Complete)

	// Analytics (staff)
	reportsGroup := api.Group("/reports", middleware.Protected(tokens), staff)
	reportsGroup.Get("/overview", reportsH.Overview)
	reportsGroup.Get("/trend", reportsH.Trend)
	reportsGroup.Get("/top-items", reportsH.TopItems)
	reportsGroup.Get("/payments", reportsH.PaymentBreakdown)

	// User administration (admin only)
	usersGroup := api.Group("/users", middleware.Protected(tokens), admin)
	usersGroup.Get("/", usersH.List)
	usersGroup.Post("/roles", usersH.AssignRole)

	// Shopping assistant (public, rate limited upstream by the gateway)
	assistantGroup := api.Group("/assistant")
	assistantGroup.Post("/chat", assistantH.Chat)
	assistantGroup.Post("/identify", assistantH.Identify)

	// Realtime change feed
	api.Get("/events", eventsH.Stream)
}
