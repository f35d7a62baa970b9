package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"posadmin/internal/response"
	"posadmin/internal/service"
)

// HealthCheck reports readiness by pinging the database with a short
// timeout.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(response.Envelope[any]{
				IsSuccess: false,
				Message:   response.MsgFailed,
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 unconditionally.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay thin; use-case logic lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, userSvc service.UserService, saleSvc service.SaleService) {
	// OpenAPI spec and a static Swagger UI shell
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	users := api.Group("/users")
	users.Get("/", ListUsers(userSvc))
	users.Get("/select", ListSelectUsers(userSvc))
	users.Get("/:id", GetUser(userSvc))
	users.Post("/", RegisterUser(userSvc))
	users.Put("/:id", EditUser(userSvc))
	users.Delete("/:id", RemoveUser(userSvc))

	sales := api.Group("/sales")
	sales.Get("/", ListSales(saleSvc))
	sales.Get("/:id", GetSale(saleSvc))
	sales.Get("/:id/invoice", ExportSaleInvoice(saleSvc))
	sales.Post("/", RegisterSale(saleSvc))
	sales.Put("/:id/cancel", CancelSale(saleSvc))
}
