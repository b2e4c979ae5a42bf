package admin

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formentry/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin"))
	g.GET("/global-properties/:name", h.GetGlobalProperty)
	g.PUT("/global-properties/:name", h.SaveGlobalProperty)
}

func (h *Handler) GetGlobalProperty(c echo.Context) error {
	gp, err := h.svc.GetProperty(c.Request().Context(), c.Param("name"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "global property not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, gp)
}

func (h *Handler) SaveGlobalProperty(c echo.Context) error {
	var gp GlobalProperty
	if err := c.Bind(&gp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gp.Property = c.Param("name")
	if err := h.svc.SaveGlobalProperty(c.Request().Context(), &gp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, gp)
}
