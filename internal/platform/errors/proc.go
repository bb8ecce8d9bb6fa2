package errors

// Subprocess and pipe helpers: classify what a codec process or its pipes told us

import (
	stderrs "errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

// IsBrokenPipe reports whether err means the reading end of a pipe went away
// EPIPE from write(2), a closed *os.File and io.ErrClosedPipe all count
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeBrokenPipe) {
		return true
	}
	return stderrs.Is(err, syscall.EPIPE) ||
		stderrs.Is(err, io.ErrClosedPipe) ||
		stderrs.Is(err, os.ErrClosed) ||
		stderrs.Is(err, fs.ErrClosed)
}

// ExitStatus returns the exit status carried by an *exec.ExitError
// ok is false when err is not an exit error; status is -1 when the process died from a signal
func ExitStatus(err error) (status int, ok bool) {
	var ee *exec.ExitError
	if !stderrs.As(err, &ee) {
		return 0, false
	}
	return ee.ExitCode(), true
}

// KilledBy reports whether err is an exit error for a process terminated by sig
func KilledBy(err error, sig syscall.Signal) bool {
	var ee *exec.ExitError
	if !stderrs.As(err, &ee) {
		return false
	}
	ws, ok := ee.Sys().(syscall.WaitStatus)
	if !ok {
		return false
	}
	return ws.Signaled() && ws.Signal() == sig
}
