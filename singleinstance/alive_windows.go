//go:build windows

package singleinstance

import "syscall"

const processQueryLimitedInformation = 0x1000

// processAlive checks whether a process handle can still be opened for
// the PID. Exited processes fail the open.
func processAlive(pid int) bool {
	h, err := syscall.OpenProcess(processQueryLimitedInformation, false, uint32(pid))
	if err != nil {
		return false
	}
	syscall.CloseHandle(h)
	return true
}
