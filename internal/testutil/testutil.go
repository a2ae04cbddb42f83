// Package testutil provides shared test helpers and capture fixtures.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// HistogramCapture is a short forward/reverse capture in the extended
// grammar, mixing triplet and histogram rows.
const HistogramCapture = `# captured with the resistor ladder firmware
#[1N4148 sweep]
FORWARD
0 2 2
26 104 [0 0 33 961 6 0 0] 77 [0 0 13 782 205 0 0]
52 208 [0 1000 0] 150 [0 1000 0]

REVERSE
26 104 [0 0 0 1000 0 0 0] 100 [0 0 0 1000 0 0 0]
`

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteFixture writes content to name inside a per-test temporary directory
// and returns the full path.
func WriteFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
