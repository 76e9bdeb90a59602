//go:build windows

package stderr

// Capture is a no-op on Windows.
func Capture(func(string)) (restore func(), err error) {
	return func() {}, nil
}
