// Package fileio wraps blocking file I/O as Tasks dispatched onto an
// Executor, a motivating example of anchoring ordinary blocking work
// (as opposed to Reactor-driven socket I/O) onto the coroutine runtime:
// the blocking syscall runs on a worker goroutine while the Task's frame
// suspends, and is resumed once the worker finishes.
package fileio

import (
	"os"

	"github.com/driftloop/async/executor"
	"github.com/driftloop/async/task"
)

// ReadFile returns a Task that reads the full contents of path on one of
// ex's worker goroutines.
func ReadFile(ex *executor.Executor, path string) *task.Task[[]byte] {
	return task.New(func(c *task.Ctx) ([]byte, error) {
		var data []byte
		var ferr error
		c.Park(func(wake func()) {
			ex.Submit(func() {
				data, ferr = os.ReadFile(path)
				wake()
			})
		})
		return data, ferr
	})
}

// AppendFile returns a Task that appends data to path (creating it if
// necessary) on one of ex's worker goroutines.
func AppendFile(ex *executor.Executor, path string, data []byte) *task.Task[task.Unit] {
	return task.New(func(c *task.Ctx) (task.Unit, error) {
		var ferr error
		c.Park(func(wake func()) {
			ex.Submit(func() {
				defer wake()
				f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					ferr = err
					return
				}
				defer f.Close()
				_, ferr = f.Write(data)
			})
		})
		return task.Unit{}, ferr
	})
}
