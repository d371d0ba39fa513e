package request

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
	g := api.Group("/requests", auth.RequireRole("hospital", "lab"))

	g.POST("", h.CreateRequest, auth.RequireRole("hospital"))
	g.GET("", h.ListRequests)
	g.GET("/:id", h.GetRequest)
	g.PATCH("/:id/process", h.ProcessRequest, auth.RequireRole("lab"))
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	req, err := h.svc.Create(ctx, auth.AccountIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

func (h *Handler) GetRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	req, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	// Requests are visible only to the two facilities they link.
	actor := auth.AccountIDFromContext(ctx)
	if req.HospitalID != actor && req.LabID != actor && auth.RoleFromContext(ctx) != "admin" {
		return echo.NewHTTPError(http.StatusNotFound, "blood request not found")
	}
	return c.JSON(http.StatusOK, req)
}

// ListRequests returns the caller's side of the exchange: hospitals see
// the requests they created, labs the ones addressed to them.
func (h *Handler) ListRequests(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	actor := auth.AccountIDFromContext(ctx)

	f := Filter{Status: Status(c.QueryParam("status"))}
	if auth.RoleFromContext(ctx) == "lab" {
		f.LabID = actor
	} else {
		f.HospitalID = actor
	}

	reqs, total, err := h.svc.List(ctx, f, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if reqs == nil {
		reqs = []*Request{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(reqs, total, pg))
}

type processRequest struct {
	Action string `json:"action"`
}

func (h *Handler) ProcessRequest(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	processed, err := h.svc.Process(ctx, auth.AccountIDFromContext(ctx), id, req.Action)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, processed)
}
