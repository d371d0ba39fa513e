package blood

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank/internal/platform/auth"
	"github.com/bloodbank/bloodbank/pkg/bloodtype"
	"github.com/bloodbank/bloodbank/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the facility inventory endpoints. The acting
// facility is always the authenticated account; admins pass the role check
// but still operate on their own inventory records.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/hospital/blood", auth.RequireRole("hospital", "lab"))

	g.GET("", h.ListUnits)
	g.GET("/inventory", h.InventorySummary)
	g.GET("/expired", h.ListExpired)
	g.GET("/:id", h.GetUnit)
	g.POST("", h.AddUnit)
	g.PUT("/:id", h.UpdateUnit)
	g.DELETE("/:id", h.DeleteUnit)
	g.PATCH("/:id/use", h.MarkUsed)
	g.POST("/sweep-expired", h.SweepExpired)
}

func (h *Handler) AddUnit(c echo.Context) error {
	var in AddInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	u, err := h.svc.Add(ctx, auth.AccountIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetUnit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	u, err := h.svc.Get(ctx, auth.AccountIDFromContext(ctx), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListUnits(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Status:    Status(c.QueryParam("status")),
		BloodType: bloodtype.BloodType(c.QueryParam("blood_type")),
	}
	ctx := c.Request().Context()
	units, total, err := h.svc.List(ctx, auth.AccountIDFromContext(ctx), f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if units == nil {
		units = []*Unit{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(units, total, pg))
}

func (h *Handler) UpdateUnit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	u, err := h.svc.Update(ctx, auth.AccountIDFromContext(ctx), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUnit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.Delete(ctx, auth.AccountIDFromContext(ctx), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

type markUsedRequest struct {
	UsedQuantity *int `json:"used_quantity,omitempty"`
}

func (h *Handler) MarkUsed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req markUsedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	u, err := h.svc.MarkUsed(ctx, auth.AccountIDFromContext(ctx), id, req.UsedQuantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) InventorySummary(c echo.Context) error {
	ctx := c.Request().Context()
	summary, err := h.svc.Summary(ctx, auth.AccountIDFromContext(ctx))
	if err != nil {
		return err
	}
	if summary == nil {
		summary = []TypeSummary{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"inventory": summary})
}

func (h *Handler) ListExpired(c echo.Context) error {
	ctx := c.Request().Context()
	units, err := h.svc.ListExpired(ctx, auth.AccountIDFromContext(ctx))
	if err != nil {
		return err
	}
	if units == nil {
		units = []*Unit{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"units": units, "count": len(units)})
}

func (h *Handler) SweepExpired(c echo.Context) error {
	ctx := c.Request().Context()
	swept, err := h.svc.SweepExpired(ctx, auth.AccountIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "swept": swept})
}
