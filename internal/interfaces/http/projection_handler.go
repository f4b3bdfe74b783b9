package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-projections/internal/application/dto"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
)

// ProjectionHandler lecturas de proyecciones, violaciones y reporte PDF (protegido).
type ProjectionHandler struct {
	uc *usecase.ProjectionUseCase
}

// NewProjectionHandler construye el handler.
func NewProjectionHandler(uc *usecase.ProjectionUseCase) *ProjectionHandler {
	return &ProjectionHandler{uc: uc}
}

// GetProjection godoc
// @Summary      Proyección del ítem
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ProjectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/projections [get]
func (h *ProjectionHandler) GetProjection(c *fiber.Ctx) error {
	out, err := h.uc.GetProjection(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "ítem")
	}
	return c.JSON(out)
}

// ListViolations godoc
// @Summary      Violaciones del ítem
// @Tags         projections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.ViolationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/violations [get]
func (h *ProjectionHandler) ListViolations(c *fiber.Ctx) error {
	out, err := h.uc.ListViolations(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de la proyección
// @Tags         projections
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/projections/report.pdf [get]
func (h *ProjectionHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Report(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="proyeccion-`+id+`.pdf"`)
	return c.Send(pdf)
}

// RuleHandler consulta y reemplazo de la regla de inventario mínimo (solo admin).
type RuleHandler struct {
	uc *usecase.RuleUseCase
}

// NewRuleHandler construye el handler.
func NewRuleHandler(uc *usecase.RuleUseCase) *RuleHandler {
	return &RuleHandler{uc: uc}
}

// Get godoc
// @Summary      Regla activa
// @Tags         rule
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RuleResponse
// @Router       /api/rule [get]
func (h *RuleHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Put godoc
// @Summary      Reemplazar regla
// @Description  Reemplaza la regla activa y encola el recálculo de todos los ítems.
// @Tags         rule
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RuleRequest  true  "Regla"
// @Success      200   {object}  dto.RuleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rule [put]
func (h *RuleHandler) Put(c *fiber.Ctx) error {
	var in dto.RuleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Put(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
