//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package terminal

// NotifyResize is a no-op where SIGWINCH is unavailable; hosts should
// post ResizeMsg events themselves.
func NotifyResize(s *Session, fn func(width, height int)) (stop func()) {
	return func() {}
}
