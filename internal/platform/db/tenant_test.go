package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newEchoContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestExtractTenantID_Precedence(t *testing.T) {
	c := newEchoContext("/?tenant_id=from_query")
	c.Request().Header.Set("X-Tenant-ID", "from_header")
	c.Set("jwt_tenant_id", "from_jwt")

	if got := extractTenantID(c, "default"); got != "from_jwt" {
		t.Errorf("expected from_jwt, got %s", got)
	}

	c.Set("jwt_tenant_id", "")
	if got := extractTenantID(c, "default"); got != "from_header" {
		t.Errorf("expected from_header, got %s", got)
	}

	c.Request().Header.Del("X-Tenant-ID")
	if got := extractTenantID(c, "default"); got != "from_query" {
		t.Errorf("expected from_query, got %s", got)
	}
}

func TestExtractTenantID_Default(t *testing.T) {
	c := newEchoContext("/")
	if got := extractTenantID(c, "default"); got != "default" {
		t.Errorf("expected default, got %s", got)
	}
}

func TestSchemaFor(t *testing.T) {
	if got := SchemaFor("clinic_a"); got != "tenant_clinic_a" {
		t.Errorf("expected tenant_clinic_a, got %s", got)
	}
}

func TestCreateTenantSchema_RejectsInvalidID(t *testing.T) {
	err := CreateTenantSchema(context.Background(), nil, "bad-tenant;drop", "")
	if err == nil {
		t.Fatal("expected error for invalid tenant id")
	}
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	if ConnFromContext(ctx) != nil {
		t.Error("expected nil connection")
	}
	if TxFromContext(ctx) != nil {
		t.Error("expected nil transaction")
	}
	if TenantFromContext(ctx) != "" {
		t.Error("expected empty tenant")
	}
}
