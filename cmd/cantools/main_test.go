package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStdin temporarily replaces os.Stdin with a pipe fed by content,
// runs fn, and restores the original os.Stdin afterward.
func withStdin(t *testing.T, content string, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = origStdin }()

	go func() {
		_, _ = io.WriteString(w, content)
		w.Close()
	}()
	fn()
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	fn()
	w.Close()
	return <-done
}

func TestRunDecodeSocialledgeScenario(t *testing.T) {
	input := "  vcan0  0C8   [8]  F0 00 00 00 00 00 00 00\n" +
		"  vcan0  064   [8]  F0 01 FF FF FF FF FF FF\n"

	var code int
	var out string
	withStdin(t, input, func() {
		out = captureStdout(t, func() {
			code = run([]string{"decode", "../../candb/testdata/socialledge.dbc"})
		})
	})

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "SENSOR_SONARS(")
	assert.Contains(t, out, "DRIVER_HEARTBEAT_cmd: 240")
}

func TestRunMissingDbFileArgumentUsage(t *testing.T) {
	code := run([]string{"decode"})
	assert.Equal(t, 2, code)
}

func TestRunUnknownSubcommandUsage(t *testing.T) {
	code := run([]string{"encode"})
	assert.Equal(t, 2, code)
}

func TestRunNonexistentDbFileFails(t *testing.T) {
	code := run([]string{"decode", "/no/such/file.dbc"})
	assert.Equal(t, 1, code)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.yaml"
	require.NoError(t, os.WriteFile(path, []byte("verbose: true\ndescribe: true\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Describe)
}

func TestLoadConfigEmptyPathReturnsZeroValue(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Describe)
}

func TestRunWithDescribeFlagSucceeds(t *testing.T) {
	withStdin(t, "", func() {
		_ = captureStdout(t, func() {
			code := run([]string{"--describe", "decode", "../../candb/testdata/motohawk.dbc"})
			assert.Equal(t, 0, code)
		})
	})
}
