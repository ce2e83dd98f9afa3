package utils

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestGuard(t *testing.T) {
	calls := 0
	func() {
		guard := NewGuard(func() { calls++ })
		defer guard.OnFail()
	}()
	test.That(t, calls, test.ShouldEqual, 1)

	func() {
		guard := NewGuard(func() { calls++ })
		defer guard.OnFail()
		guard.Success()
	}()
	test.That(t, calls, test.ShouldEqual, 1)
}

func TestRemoveFileNoError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.bin")
	test.That(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600), test.ShouldBeNil)
	RemoveFileNoError(path)
	_, err := os.Stat(path)
	test.That(t, os.IsNotExist(err), test.ShouldBeTrue)

	// missing files are ignored
	RemoveFileNoError(path)
}
