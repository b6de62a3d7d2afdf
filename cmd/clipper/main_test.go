package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	output, err := executeCommand(t)
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"run", "check", "history", "config"} {
		if !strings.Contains(output, name) {
			t.Errorf("help output missing %q:\n%s", name, output)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[render]") {
		t.Errorf("sample config lacks render section:\n%s", data)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Error("second init without --overwrite should fail")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Errorf("init with --overwrite failed: %v", err)
	}
}

func TestCheckFailsOnEmptyRoot(t *testing.T) {
	root := t.TempDir()
	output, err := executeCommand(t, "check", root)
	if err == nil {
		t.Fatalf("check should fail for a folder without inputs:\n%s", output)
	}
	if !strings.Contains(output, "Clip table") {
		t.Errorf("check output should name the missing table:\n%s", output)
	}
}

func TestRunDoesNotCreateMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	output, err := executeCommand(t, "run", root)
	if err == nil {
		t.Fatalf("run should fail for a nonexistent root:\n%s", output)
	}
	if _, statErr := os.Stat(root); !os.IsNotExist(statErr) {
		t.Error("a failed run must not create the root folder")
	}
}

func TestRunRejectsBadCropFlag(t *testing.T) {
	_, err := executeCommand(t, "run", t.TempDir(), "--cam", "not-a-rect")
	if err == nil || !strings.Contains(err.Error(), "--cam") {
		t.Errorf("expected crop parse error, got %v", err)
	}
}

func TestHistoryEmptyRoot(t *testing.T) {
	root := t.TempDir()
	output, err := executeCommand(t, "history", root)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(output, "No runs recorded yet.") {
		t.Errorf("unexpected history output:\n%s", output)
	}
}
