package condition

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ehr/formentry/internal/platform/auth"
	"github.com/ehr/formentry/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, fhirGroup *echo.Group) {
	read := api.Group("", auth.RequireRole("physician", "nurse"))
	read.GET("/conditions", h.ListConditions)
	read.GET("/conditions/:id", h.GetCondition)

	fr := fhirGroup.Group("", auth.RequireRole("physician", "nurse"))
	fr.GET("/Condition/:id", h.GetConditionFHIR)
}

func (h *Handler) ListConditions(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetCondition(c echo.Context) error {
	cond, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cond)
}

func (h *Handler) GetConditionFHIR(c echo.Context) error {
	cond, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cond.ToFHIR())
}

func (h *Handler) load(c echo.Context) (*Condition, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cond, err := h.svc.GetCondition(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "condition not found")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return cond, nil
}
