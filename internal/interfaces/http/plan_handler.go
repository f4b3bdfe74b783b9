package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
)

// PlanHandler planes de inventario y traslados (protegido).
type PlanHandler struct {
	uc *usecase.PlanUseCase
}

// NewPlanHandler construye el handler.
func NewPlanHandler(uc *usecase.PlanUseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// CreateInventoryPlan godoc
// @Summary      Crear plan de inventario
// @Tags         plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.InventoryPlanRequest  true  "Plan (end_date exclusivo)"
// @Success      201   {object}  dto.InventoryPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/inventory-plans [post]
func (h *PlanHandler) CreateInventoryPlan(c *fiber.Ctx) error {
	var in dto.InventoryPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateInventoryPlan(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListInventoryPlans godoc
// @Summary      Planes de inventario del ítem
// @Tags         plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.InventoryPlanResponse
// @Router       /api/items/{id}/inventory-plans [get]
func (h *PlanHandler) ListInventoryPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListInventoryPlans(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateInventoryPlan godoc
// @Summary      Actualizar plan de inventario
// @Tags         plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del plan"
// @Param        body  body  dto.InventoryPlanRequest  true  "Plan"
// @Success      200   {object}  dto.InventoryPlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-plans/{id} [put]
func (h *PlanHandler) UpdateInventoryPlan(c *fiber.Ctx) error {
	var in dto.InventoryPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateInventoryPlan(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "plan")
	}
	return c.JSON(out)
}

// DeleteInventoryPlan godoc
// @Summary      Eliminar plan de inventario
// @Tags         plans
// @Security     Bearer
// @Param        id   path  string  true  "ID del plan"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-plans/{id} [delete]
func (h *PlanHandler) DeleteInventoryPlan(c *fiber.Ctx) error {
	if err := h.uc.DeleteInventoryPlan(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTransferPlan godoc
// @Summary      Crear traslado
// @Tags         plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferPlanRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfer-plans [post]
func (h *PlanHandler) CreateTransferPlan(c *fiber.Ctx) error {
	var in dto.TransferPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.FromItemID == "" || in.ToItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from_item_id y to_item_id son requeridos"})
	}
	out, err := h.uc.CreateTransferPlan(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTransferPlans godoc
// @Summary      Traslados del ítem
// @Tags         plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.TransferPlanResponse
// @Router       /api/items/{id}/transfer-plans [get]
func (h *PlanHandler) ListTransferPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListTransferPlans(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteTransferPlan godoc
// @Summary      Eliminar traslado
// @Tags         plans
// @Security     Bearer
// @Param        id   path  string  true  "ID del traslado"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfer-plans/{id} [delete]
func (h *PlanHandler) DeleteTransferPlan(c *fiber.Ctx) error {
	if err := h.uc.DeleteTransferPlan(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
