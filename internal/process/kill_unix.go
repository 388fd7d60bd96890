//go:build !windows

package process

import "syscall"

// Terminate kills the process group led by pid. Chrome renderers inherit the
// group, so they go down with the browser. pid <= 0 is ignored.
func Terminate(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill() follows as a fallback, so the error does not matter
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
