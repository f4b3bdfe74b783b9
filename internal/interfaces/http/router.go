package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-projections/internal/application/auth"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	ItemUC       *usecase.ItemUseCase
	PlanUC       *usecase.PlanUseCase
	ProjectionUC *usecase.ProjectionUseCase
	RuleUC       *usecase.RuleUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(entity.RoleAdmin, entity.RolePlanner)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", authHandler.Me)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	planHandler := NewPlanHandler(deps.PlanUC)
	projectionHandler := NewProjectionHandler(deps.ProjectionUC)
	items.Get("/", itemHandler.List)
	items.Post("/", write, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", write, itemHandler.Update)
	items.Delete("/:id", write, itemHandler.Delete)
	items.Get("/:id/inventory-plans", planHandler.ListInventoryPlans)
	items.Post("/:id/inventory-plans", write, planHandler.CreateInventoryPlan)
	items.Get("/:id/transfer-plans", planHandler.ListTransferPlans)
	items.Get("/:id/projections", projectionHandler.GetProjection)
	items.Get("/:id/projections/report.pdf", projectionHandler.Report)
	items.Get("/:id/violations", projectionHandler.ListViolations)

	// Plans
	protected.Put("/inventory-plans/:id", write, planHandler.UpdateInventoryPlan)
	protected.Delete("/inventory-plans/:id", write, planHandler.DeleteInventoryPlan)
	protected.Post("/transfer-plans", write, planHandler.CreateTransferPlan)
	protected.Delete("/transfer-plans/:id", write, planHandler.DeleteTransferPlan)

	// Rule (solo admin)
	ruleHandler := NewRuleHandler(deps.RuleUC)
	protected.Get("/rule", adminOnly, ruleHandler.Get)
	protected.Put("/rule", adminOnly, ruleHandler.Put)
}
