package camp

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodbank/bloodbank/internal/platform/auth"
	"github.com/bloodbank/bloodbank/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/camps")

	g.GET("", h.ListCamps)
	g.GET("/my-camps", h.MyCamps, auth.RequireRole("hospital"))
	g.GET("/:id", h.GetCamp)
	g.GET("/:id/registrations", h.ListRegistrations, auth.RequireRole("hospital"))
	g.POST("", h.CreateCamp, auth.RequireRole("hospital"))
	g.PUT("/:id", h.UpdateCamp, auth.RequireRole("hospital"))
	g.DELETE("/:id", h.DeleteCamp, auth.RequireRole("hospital"))
	g.PATCH("/:id/status", h.ChangeStatus, auth.RequireRole("hospital"))
	g.POST("/:id/register", h.RegisterDonor, auth.RequireRole("donor"))
}

func (h *Handler) CreateCamp(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	camp, err := h.svc.Create(ctx, auth.AccountIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, camp)
}

func (h *Handler) GetCamp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	camp, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) ListCamps(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := Filter{
		Status: Status(c.QueryParam("status")),
		Search: c.QueryParam("search"),
	}
	sort := Sort{
		By:         c.QueryParam("sort"),
		Descending: c.QueryParam("order") == "desc",
	}
	camps, total, err := h.svc.List(c.Request().Context(), f, sort, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if camps == nil {
		camps = []*Camp{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(camps, total, pg))
}

func (h *Handler) MyCamps(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	f := Filter{
		HospitalID: auth.AccountIDFromContext(ctx),
		Status:     Status(c.QueryParam("status")),
	}
	camps, total, err := h.svc.List(ctx, f, Sort{By: "date"}, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if camps == nil {
		camps = []*Camp{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(camps, total, pg))
}

func (h *Handler) UpdateCamp(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	camp, err := h.svc.Update(ctx, auth.AccountIDFromContext(ctx), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) DeleteCamp(c echo.Context) error {
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

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) ChangeStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	camp, err := h.svc.ChangeStatus(ctx, auth.AccountIDFromContext(ctx), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, camp)
}

func (h *Handler) RegisterDonor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	reg, err := h.svc.RegisterDonor(ctx, id, auth.AccountIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reg)
}

func (h *Handler) ListRegistrations(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	regs, err := h.svc.Registrations(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if regs == nil {
		regs = []*Registration{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"registrations": regs, "count": len(regs)})
}
