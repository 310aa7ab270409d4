//go:build !windows

package inject

// New returns ErrUnsupported on this platform.
func New() (Injector, error) {
	return nil, ErrUnsupported
}
