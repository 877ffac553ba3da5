package main

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/trycatch"
	"github.com/deepnoodle-ai/trycatch/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDemo(t *testing.T) {
	stdout, stderr, err := runCLI(t, "demo", "--no-color")
	require.NoError(t, err)
	require.NotContains(t, stdout, "NOK")
	for _, name := range []string{"catch", "propagate outward", "nest to capacity", "io error", "fault"} {
		require.Contains(t, stdout, name+": OK")
	}
	require.Contains(t, stdout, "kind: invalid arguments")
	require.Contains(t, stderr, "unhandled exception")
}

func TestDemoWithoutFaultBridge(t *testing.T) {
	stdout, _, err := runCLI(t, "demo", "--no-color", "--fault-bridge=false")
	require.NoError(t, err)
	require.NotContains(t, stdout, "fault:")
}

func TestNewEngineFaultBridge(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		a := &app{
			cfg: &config.Config{
				Capacity:    trycatch.DefaultCapacity,
				LogLevel:    zerolog.Disabled,
				FaultBridge: enabled,
				NoColor:     true,
			},
			stdout: io.Discard,
			stderr: io.Discard,
		}
		e, restore, err := a.newEngine()
		require.NoError(t, err)
		fault := func() {
			e.Try(func() {
				var p *int
				*p = 1
			}).Catch(trycatch.Fault, func(trycatch.ID) {}).End()
		}
		if enabled {
			require.NotPanics(t, fault)
			require.Equal(t, trycatch.Fault, e.Pending())
		} else {
			require.Panics(t, fault)
		}
		require.Equal(t, 0, e.Depth())
		restore()
	}
}

func TestDemoLargerCapacity(t *testing.T) {
	stdout, _, err := runCLI(t, "demo", "--no-color", "--capacity", "6")
	require.NoError(t, err)
	require.Contains(t, stdout, "nest to capacity: OK")
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "trycatch dev"))
}

func TestInvalidCapacity(t *testing.T) {
	_, _, err := runCLI(t, "demo", "--capacity", "0")
	require.Error(t, err)
}

func TestDemoOverflowExits(t *testing.T) {
	if os.Getenv("TRYCATCH_DEMO_OVERFLOW") == "1" {
		os.Args = []string{"trycatch", "demo", "--no-color", "--overflow"}
		main()
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestDemoOverflowExits$")
	cmd.Env = append(os.Environ(), "TRYCATCH_DEMO_OVERFLOW=1", "HOME="+t.TempDir())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, stderr.String(), "region nesting overflow (capacity 3)")
}
