package htmlform

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(t *testing.T) (*Handler, *processorEnv, *echo.Echo) {
	env := newProcessorEnv(t)
	return NewHandler(env.proc, "/api/v1/", zerolog.Nop()), env, echo.New()
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Errorf("expected status %d, got %d", want, he.Code)
	}
}

func TestHandler_EnterForm(t *testing.T) {
	h, env, e := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/"+env.form.ID.String()+"/enter?patient_id="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(env.form.ID.String())

	if err := h.EnterForm(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<div class="htmlform">`,
		`id="my_condition_tag"`,
		`name="w1_hid"`,
		`setupAutocomplete(this, 'conceptSearch.form','null','Diagnosis','null')`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestHandler_EnterForm_BadParams(t *testing.T) {
	h, env, e := newTestHandler(t)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	assertHTTPStatus(t, h.EnterForm(c), http.StatusBadRequest)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(env.form.ID.String())
	assertHTTPStatus(t, h.EnterForm(c), http.StatusBadRequest)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?patient_id="+uuid.New().String(), nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	assertHTTPStatus(t, h.EnterForm(c), http.StatusNotFound)
}

func submitRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestHandler_SubmitEnter(t *testing.T) {
	h, env, e := newTestHandler(t)
	patient := uuid.New()
	req := submitRequest("/?patient_id="+patient.String(), url.Values{
		"w1_hid": {"1519"},
		"w3":     {"active"},
		"w5":     {"2024-01-02"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(env.form.ID.String())

	if err := h.SubmitEnter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var body struct {
		ID         uuid.UUID `json:"id"`
		PatientID  uuid.UUID `json:"patient_id"`
		Conditions []struct {
			FormNamespaceAndPath string `json:"form_namespace_and_path"`
		} `json:"conditions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID == uuid.Nil || body.PatientID != patient {
		t.Errorf("unexpected encounter %+v", body)
	}
	if len(body.Conditions) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(body.Conditions))
	}
}

func TestHandler_SubmitEnter_ValidationErrors(t *testing.T) {
	h, env, e := newTestHandler(t)
	req := submitRequest("/?patient_id="+uuid.New().String(), url.Values{
		"w1_hid": {"1519"},
		"w3":     {"inactive"},
		"w5":     {"2024-05-01"},
		"w7":     {"2024-01-01"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(env.form.ID.String())

	if err := h.SubmitEnter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Errors []FormSubmissionError `json:"errors"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Errors) != 1 || body.Errors[0].FieldName != "w8" {
		t.Errorf("expected end date error on w8, got %+v", body.Errors)
	}
	if env.encounters.saves != 0 {
		t.Error("expected nothing saved")
	}
}

func TestHandler_ViewEncounter(t *testing.T) {
	h, env, e := newTestHandler(t)
	enc, _ := existingEncounter("HtmlFormEntry^MyForm.1.0/my_condition_tag-0")
	enc.FormID = &env.form.ID
	env.encounters.store[enc.ID] = enc

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())

	if err := h.ViewEncounter(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Concept 1519") {
		t.Error("expected the stored condition to be shown")
	}
	if strings.Contains(body, `type="radio"`) {
		t.Error("view mode must not render inputs")
	}
}

func TestHandler_ViewEncounter_MissingFormPath(t *testing.T) {
	h, env, e := newTestHandler(t)
	enc, _ := existingEncounter("")
	enc.FormID = &env.form.ID
	env.encounters.store[enc.ID] = enc

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())
	assertHTTPStatus(t, h.ViewEncounter(c), http.StatusInternalServerError)
}

func TestHandler_ViewEncounter_NotFound(t *testing.T) {
	h, _, e := newTestHandler(t)
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())
	assertHTTPStatus(t, h.ViewEncounter(c), http.StatusNotFound)
}

func TestHandler_SubmitEdit(t *testing.T) {
	h, env, e := newTestHandler(t)
	enc, existing := existingEncounter("HtmlFormEntry^MyForm.1.0/my_condition_tag-0")
	enc.FormID = &env.form.ID
	env.encounters.store[enc.ID] = enc

	rec := httptest.NewRecorder()
	c := e.NewContext(submitRequest("/", url.Values{"w1_hid": {"1519"}, "w3": {"inactive"}}), rec)
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())

	if err := h.SubmitEdit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if existing.ClinicalStatus != "INACTIVE" {
		t.Errorf("expected existing condition to be updated, got %s", existing.ClinicalStatus)
	}
}

func TestHandler_SubmitEdit_UnknownConcept(t *testing.T) {
	h, env, e := newTestHandler(t)
	enc, _ := existingEncounter("HtmlFormEntry^MyForm.1.0/my_condition_tag-0")
	enc.FormID = &env.form.ID
	env.encounters.store[enc.ID] = enc

	c := e.NewContext(submitRequest("/", url.Values{"w1_hid": {"404"}}), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(enc.ID.String())
	assertHTTPStatus(t, h.SubmitEdit(c), http.StatusBadRequest)
}
