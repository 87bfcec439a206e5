//go:build unix

package service

import (
	"os/exec"
	"syscall"
)

// detach starts the child in its own session so it survives the
// terminal closing.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
