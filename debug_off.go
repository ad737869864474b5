//go:build !taskslab_debug

package taskslab

// debugAssert is a no-op in release builds: callers are expected to have
// upheld the invariant, and paying for the check on every hot path is
// not. Build with -tags taskslab_debug to enable the checks (see
// debug_on.go).
func debugAssert(cond bool, msg string) {}
