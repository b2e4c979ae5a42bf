package htmlform

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/formentry/internal/domain/concept"
	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
	"github.com/ehr/formentry/internal/platform/auth"
	"github.com/ehr/formentry/internal/platform/i18n"
)

//go:embed templates/form.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

type pageData struct {
	Lang       string
	Title      string
	Action     string
	SearchBase string
	ReadOnly   bool
	Body       template.HTML
}

type Handler struct {
	proc       *Processor
	searchBase string
	logger     zerolog.Logger
}

// NewHandler serves form pages. searchBase is the URL prefix the page script
// prepends to the concept search endpoint, e.g. "/api/v1/".
func NewHandler(proc *Processor, searchBase string, logger zerolog.Logger) *Handler {
	return &Handler{proc: proc, searchBase: searchBase, logger: logger.With().Str("component", "htmlform").Logger()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("physician", "nurse"))
	g.GET("/forms/:id/enter", h.EnterForm)
	g.POST("/forms/:id/enter", h.SubmitEnter)
	g.GET("/encounters/:id/view", h.ViewEncounter)
	g.GET("/encounters/:id/edit", h.EditEncounter)
	g.POST("/encounters/:id/edit", h.SubmitEdit)
}

func (h *Handler) loadForm(c echo.Context) (*Target, error) {
	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form id")
	}
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	t, err := h.proc.LoadForm(c.Request().Context(), formID, patientID)
	if err != nil {
		return nil, h.httpError(c, err)
	}
	return t, nil
}

func (h *Handler) loadEncounter(c echo.Context) (*Target, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid encounter id")
	}
	t, err := h.proc.LoadEncounter(c.Request().Context(), id)
	if err != nil {
		return nil, h.httpError(c, err)
	}
	return t, nil
}

func (h *Handler) EnterForm(c echo.Context) error {
	t, err := h.loadForm(c)
	if err != nil {
		return err
	}
	return h.renderPage(c, ModeEnter, t, c.Request().URL.RequestURI())
}

func (h *Handler) SubmitEnter(c echo.Context) error {
	t, err := h.loadForm(c)
	if err != nil {
		return err
	}
	return h.submit(c, ModeEnter, t, http.StatusCreated)
}

func (h *Handler) ViewEncounter(c echo.Context) error {
	t, err := h.loadEncounter(c)
	if err != nil {
		return err
	}
	return h.renderPage(c, ModeView, t, "")
}

func (h *Handler) EditEncounter(c echo.Context) error {
	t, err := h.loadEncounter(c)
	if err != nil {
		return err
	}
	return h.renderPage(c, ModeEdit, t, c.Request().URL.RequestURI())
}

func (h *Handler) SubmitEdit(c echo.Context) error {
	t, err := h.loadEncounter(c)
	if err != nil {
		return err
	}
	return h.submit(c, ModeEdit, t, http.StatusOK)
}

func (h *Handler) renderPage(c echo.Context, mode Mode, t *Target, action string) error {
	ctx := c.Request().Context()
	body, err := h.proc.Render(ctx, mode, t)
	if err != nil {
		return h.httpError(c, err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Lang:       langOf(ctx),
		Title:      t.Form.Name,
		Action:     action,
		SearchBase: h.searchBase,
		ReadOnly:   mode == ModeView,
		Body:       template.HTML(body),
	})
	if err != nil {
		return h.httpError(c, err)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) submit(c echo.Context, mode Mode, t *Target, okStatus int) error {
	if err := c.Request().ParseForm(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	enc, errs, err := h.proc.Submit(c.Request().Context(), mode, t, c.Request())
	if err != nil {
		return h.httpError(c, err)
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": errs})
	}
	return c.JSON(okStatus, enc)
}

func (h *Handler) httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, form.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "form not found")
	case errors.Is(err, encounter.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "encounter not found")
	case errors.Is(err, concept.ErrNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrReadOnly):
		return echo.NewHTTPError(http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, ErrMissingFormPath):
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("stored encounter cannot be matched to its form")
		return echo.NewHTTPError(http.StatusInternalServerError, "encounter data is inconsistent with its form")
	}
	h.logger.Error().Err(err).Str("path", c.Path()).Msg("form request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func langOf(ctx context.Context) string {
	if tag, ok := i18n.LocaleFromContext(ctx); ok {
		return tag.String()
	}
	return "en"
}
