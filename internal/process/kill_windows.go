//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// Terminate kills pid and its child tree with taskkill. pid <= 0 is ignored.
func Terminate(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
