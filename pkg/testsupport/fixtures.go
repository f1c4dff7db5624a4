package testsupport

import (
	"os"
	"testing"
)

// Fixture reads a test fixture, failing tb when it cannot be read.
func Fixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
