package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/formentry/internal/domain/admin"
	"github.com/ehr/formentry/internal/domain/concept"
	"github.com/ehr/formentry/internal/domain/encounter"
	"github.com/ehr/formentry/internal/domain/form"
	"github.com/ehr/formentry/internal/platform/i18n"
)

func findCommand(t *testing.T, root *cobra.Command, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := root.Find(args)
	if err != nil {
		t.Fatalf("find %v: %v", args, err)
	}
	return cmd
}

func TestMigrateCmd_Subcommands(t *testing.T) {
	root := migrateCmd()
	for _, name := range []string{"up", "status"} {
		cmd := findCommand(t, root, name)
		if cmd.Name() != name {
			t.Fatalf("expected %q subcommand, got %q", name, cmd.Name())
		}
		schema, err := cmd.Flags().GetString("schema")
		if err != nil || schema != "tenant_default" {
			t.Errorf("%s: expected default schema tenant_default, got %q (%v)", name, schema, err)
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir != "./migrations" {
			t.Errorf("%s: expected default dir ./migrations, got %q", name, dir)
		}
	}
}

func TestTenantCmd_RequiresName(t *testing.T) {
	root := tenantCmd()
	root.SetArgs([]string{"create"})
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err == nil || err.Error() != "--name is required" {
		t.Errorf("expected --name error, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		logger := newLogger(env)
		if e := logger.Debug(); e == nil || !e.Enabled() {
			t.Errorf("%s: expected debug events to be enabled", env)
		}
	}
}

func TestNewFormEngine(t *testing.T) {
	messages, err := i18n.NewMessageSource("en")
	if err != nil {
		t.Fatalf("NewMessageSource: %v", err)
	}
	h := newFormEngine(services{
		concepts:   concept.NewService(nil),
		encounters: encounter.NewService(nil, nil, nil, zerolog.Nop()),
		properties: admin.NewService(nil, nil, 0, zerolog.Nop()),
		forms:      form.NewService(nil),
		messages:   messages,
	}, "/api/v1/", zerolog.Nop())
	if h == nil {
		t.Fatal("expected handler")
	}
}
