package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	want := []string{"run", "daemon", "report", "closeall", "serve", "stocks"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestStocksAndReport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "database:\n  driver: sqlite\n  dsn: " + filepath.Join(dir, "test.db") + "\nlogging:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) (string, error) {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := root.Execute()
		return out.String(), err
	}

	if _, err := run("stocks", "add", "9434", "ソフトバンク"); err != nil {
		t.Fatalf("stocks add: %v", err)
	}
	out, err := run("stocks", "list")
	if err != nil {
		t.Fatalf("stocks list: %v", err)
	}
	if !strings.Contains(out, "9434\tソフトバンク") {
		t.Errorf("unexpected list output %q", out)
	}

	if _, err := run("report"); err == nil || !strings.Contains(err.Error(), "no completed trades") {
		t.Errorf("expected no trades error, got %v", err)
	}

	out, err = run("closeall", "--dry-run")
	if err != nil {
		t.Fatalf("closeall: %v", err)
	}
	if !strings.Contains(out, "No open positions.") {
		t.Errorf("unexpected closeall output %q", out)
	}
}
