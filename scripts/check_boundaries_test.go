package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, root string, rel string, imports ...string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src := "package x\n\nimport (\n"
	for _, imp := range imports {
		src += "\t_ \"" + imp + "\"\n"
	}
	src += ")\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCollectViolations(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "shop/orders/domain/order.go", "time", "example.com/app/contexts/shop/orders/domain/errors")
	writeSource(t, root, "shop/orders/application/create.go",
		"context",
		"example.com/app/contexts/shop/orders/ports",
		"example.com/app/contracts/gen/events/v1",
		"github.com/google/uuid",
	)
	writeSource(t, root, "shop/orders/ports/ports.go", "example.com/app/internal/platform/db")
	writeSource(t, root, "shop/orders/adapters/memory/store.go",
		"example.com/app/contexts/shop/billing/domain/entities",
		"github.com/sasha-s/go-deadlock",
	)
	writeSource(t, root, "shop/orders/domain/order_test.go", "github.com/stretchr/testify/require")

	got := map[string]string{}
	for _, v := range collectViolations(root, "example.com/app") {
		got[v.Import] = v.Rule
	}

	want := map[string]string{
		"github.com/google/uuid":                               "application import is outside explicit allowlist",
		"example.com/app/internal/platform/db":                 "ports must not import runtime infrastructure",
		"example.com/app/contexts/shop/billing/domain/entities": "cross-service imports are forbidden",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d violations, got %v", len(want), got)
	}
	for imp, rule := range want {
		if got[imp] != rule {
			t.Fatalf("import %s: expected rule %q, got %q", imp, rule, got[imp])
		}
	}
}

func TestReadModulePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.mod")
	if err := os.WriteFile(path, []byte("module example.com/app\n\ngo 1.23\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := readModulePath(path)
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	if got != "example.com/app" {
		t.Fatalf("expected example.com/app, got %q", got)
	}
}
