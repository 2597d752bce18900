package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/skidpad/tuning"
)

// execute runs the CLI in-process with an isolated home directory
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

// summaryValue reads the first number after label in the run summary
func summaryValue(t *testing.T, out, label string) float64 {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, label); ok {
			var v float64
			_, err := fmt.Sscan(strings.TrimSpace(rest), &v)
			require.NoError(t, err, line)
			return v
		}
	}
	t.Fatalf("summary has no %q line:\n%s", label, out)
	return 0
}

func TestDefaultsCommand(t *testing.T) {
	for _, format := range []tuning.Format{tuning.FormatTOML, tuning.FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			out, err := execute(t, "defaults", "--format", format.String())
			require.NoError(t, err)

			p, err := tuning.Parse([]byte(out), format)
			require.NoError(t, err)
			if diff := cmp.Diff(tuning.Default(), p); diff != "" {
				t.Errorf("printed defaults differ from the built-in set (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultsRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "defaults", "--format", "ini")
	assert.Error(t, err)
}

func TestCheckFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()

	var good bytes.Buffer
	require.NoError(t, tuning.Encode(&good, tuning.Default(), tuning.FormatTOML))
	require.NoError(t, afero.WriteFile(fsys, "/cfg/good.toml", good.Bytes(), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/cfg/bad.yaml", []byte("chassis:\n  mass: 1200\n"), 0o644))

	var out bytes.Buffer
	err := checkFiles(fsys, &out, []string{"/cfg/good.toml", "/cfg/bad.yaml", "/cfg/missing.toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")

	report := out.String()
	assert.Contains(t, report, "ok    /cfg/good.toml")
	assert.Contains(t, report, "FAIL  /cfg/bad.yaml")
	assert.Contains(t, report, "FAIL  /cfg/missing.toml")
	// every missing field of the partial file is listed on its own line
	assert.Greater(t, strings.Count(report, "\n"), 5)
}

func TestCheckCommandShippedConfigs(t *testing.T) {
	out, err := execute(t, "check", "../../configs/default.toml", "../../configs/rwd.yaml")
	require.NoError(t, err, out)
	assert.Equal(t, 2, strings.Count(out, "ok    "))
}

func TestCheckCommandRequiresFiles(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}

func TestRunFullThrottle(t *testing.T) {
	out, err := execute(t, "run", "--duration", "4s", "--throttle", "1", "--telemetry", "0", "--log-level", "error")
	require.NoError(t, err)

	if speed := summaryValue(t, out, "speed"); speed < 10 {
		t.Errorf("Expected the car to pull away under full throttle, got %.1f km/h", speed)
	}
	if x := summaryValue(t, out, "position"); x <= 0 {
		t.Errorf("Expected forward travel along +X, got %.2f m", x)
	}
	if n := summaryValue(t, out, "unstable"); n != 0 {
		t.Errorf("Expected no discarded steps, got %v", n)
	}
}

func TestRunAtRest(t *testing.T) {
	out, err := execute(t, "run", "--duration", "2s", "--telemetry", "0", "--log-level", "error")
	require.NoError(t, err)

	if speed := summaryValue(t, out, "speed"); math.Abs(speed) > 0.5 {
		t.Errorf("Expected the car to stay at rest without input, got %.2f km/h", speed)
	}
	if n := summaryValue(t, out, "skids"); n != 0 {
		t.Errorf("Expected no skidmarks at rest, got %v", n)
	}
}

func TestRunRejectsInvalidStep(t *testing.T) {
	_, err := execute(t, "run", "--dt", "0s", "--log-level", "error")
	assert.Error(t, err)
}

func TestEnvironmentOverridesFlagDefault(t *testing.T) {
	// applied before the logger is built, so a bad level fails the run
	t.Setenv("SKIDPAD_LOG_LEVEL", "loud")
	_, err := execute(t, "run", "--duration", "100ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")

	// an explicit flag wins over the environment
	_, err = execute(t, "run", "--duration", "100ms", "--telemetry", "0", "--log-level", "error")
	assert.NoError(t, err)
}

func TestConfigFileSetsFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skidpad.yml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\n"), 0o644))

	out, err := execute(t, "--config", path, "defaults")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "chassis:"), "expected YAML output, got:\n%s", out)
}

func TestLoadKeyTable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/keys.toml", []byte("[runes]\nk = \"throttle\"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/bad.toml", []byte("[runes]\nk = \"warp\"\n"), 0o644))

	table, err := loadKeyTable(fsys, "/keys.toml")
	require.NoError(t, err)
	_, ok := table.Runes['k']
	assert.True(t, ok)

	_, err = loadKeyTable(fsys, "/bad.toml")
	assert.Error(t, err)
	_, err = loadKeyTable(fsys, "/absent.toml")
	assert.Error(t, err)

	table, err = loadKeyTable(fsys, "")
	require.NoError(t, err)
	assert.NotEmpty(t, table.Runes)

	table, err = loadKeyTable(afero.NewOsFs(), "../../configs/keys.toml")
	require.NoError(t, err)
	_, ok = table.Runes['j']
	assert.True(t, ok)
	_, ok = table.Runes['w']
	assert.True(t, ok, "defaults survive the sample keymap")
}
