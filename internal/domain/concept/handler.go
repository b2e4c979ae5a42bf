package concept

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ehr/formentry/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the autocomplete source used by condition widgets.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("physician", "nurse"))
	g.GET("/conceptSearch.form", h.Search)
	g.GET("/concepts/:id", h.GetConcept)
}

// Search handles GET /conceptSearch.form?term=...&classes=Diagnosis,Finding
func (h *Handler) Search(c echo.Context) error {
	var classes []string
	for _, name := range strings.Split(c.QueryParam("classes"), ",") {
		if name = strings.TrimSpace(name); name != "" && name != "null" {
			classes = append(classes, name)
		}
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	hits, err := h.svc.Search(c.Request().Context(), c.QueryParam("term"), classes, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *Handler) GetConcept(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	concept, err := h.svc.GetConcept(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "concept not found")
	}
	return c.JSON(http.StatusOK, concept)
}
