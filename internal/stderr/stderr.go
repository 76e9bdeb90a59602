//go:build !windows

// Package stderr diverts writes to file descriptor 2 while the viewer owns
// the terminal. Anything that prints there directly, bypassing the logger,
// would otherwise tear the alternate screen.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into a pipe and hands every non-empty line to
// sink until the returned restore function is called. If the redirect
// cannot be set up, stderr is left alone and restore is a no-op.
func Capture(sink func(line string)) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return func() {}, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return func() {}, err
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return func() {}, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				sink(line)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.Dup2(orig, fd)
			_ = unix.Close(orig)
			// fd 2 no longer refers to the pipe; closing w ends the reader.
			w.Close()
			wg.Wait()
			r.Close()
		})
	}, nil
}
