package main

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureRun runs run() with the stdout/stderr fds replaced by pipes it
// drains itself, and returns the captured text alongside the exit code.
func captureRun(t *testing.T, args []string) (stdout, stderr string, code int) {
	t.Helper()

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)

	outCh := make(chan string, 1)
	errCh := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(outR)
		outCh <- string(b)
	}()
	go func() {
		b, _ := io.ReadAll(errR)
		errCh <- string(b)
	}()

	code = run(args, outW, errW)

	outW.Close()
	errW.Close()
	stdout = <-outCh
	stderr = <-errCh
	return
}

// TestRun_InvalidPrefixCharacterExitsNonZero exercises spec's scenario
// where a prefix contains a character outside the Base58 alphabet (the
// spec's "InvalidChar!" example): no candidate range compiles and the
// process must exit 1 with an explanatory message on stderr.
func TestRun_InvalidPrefixCharacterExitsNonZero(t *testing.T) {
	_, stderr, code := captureRun(t, []string{"--no-progress", "InvalidChar!"})
	assert.Equal(t, 1, code)
	assert.Contains(t, strings.ToLower(stderr), "invalid prefix")
}

func TestRun_MissingPrefixArgumentExitsNonZero(t *testing.T) {
	_, _, code := captureRun(t, []string{})
	assert.Equal(t, 1, code)
}

func TestRun_HelpFlagExitsZero(t *testing.T) {
	_, stderr, code := captureRun(t, []string{"--help"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "svanity [options] PREFIX")
}

func TestRun_VersionFlagExitsZero(t *testing.T) {
	_, stderr, code := captureRun(t, []string{"--version"})
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, version)
}

// TestRun_SimpleOutputEmitsHexAndAddress exercises a real end-to-end
// search with a one-character prefix and --simple-output, checking the
// output wire format is exactly "<HEX_KEY> <ADDRESS>".
func TestRun_SimpleOutputEmitsHexAndAddress(t *testing.T) {
	done := make(chan struct{})
	var stdout string
	var code int
	go func() {
		stdout, _, code = captureRun(t, []string{"-l", "1", "-t", "4", "--no-progress", "--simple-output", "a"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("search did not terminate within 10s for a 1-character prefix")
	}

	assert.Equal(t, 0, code)
	line := strings.TrimSpace(stdout)
	fields := strings.Fields(line)
	require.Len(t, fields, 2)
	assert.True(t, strings.HasPrefix(fields[1], "a"))
	assert.Len(t, fields[0], 64) // 32 bytes, hex-encoded
}
