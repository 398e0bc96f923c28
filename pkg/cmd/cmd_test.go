package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v (output %q)", args, err, out.String())
	}

	return out.String()
}

func TestBackendList_MarksConfigured(t *testing.T) {
	for _, sub := range []string{"kv", "mq"} {
		out := run(t, sub, "ls")
		if !strings.Contains(out, " * memory") {
			t.Errorf("%s ls should mark memory as configured, got %q", sub, out)
		}
	}
}

func TestBackendPing_Memory(t *testing.T) {
	if out := run(t, "kv", "ping"); strings.TrimSpace(out) != "kv memory ok" {
		t.Errorf("kv ping output %q", out)
	}

	if out := run(t, "mq", "ping"); strings.TrimSpace(out) != "mq memory ok" {
		t.Errorf("mq ping output %q", out)
	}
}
