package action

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/values"
)

// Run executes every spec in specs against e, in order, matching the
// source's "for r in &ev.run { r.run(...) }" (spec §4.H). A detached spec
// is launched in its own goroutine and Run does not wait for it; errors
// from detached children are dropped the same way the source discards its
// detached thread's result. Run returns the first inline error encountered,
// after still attempting the remaining specs.
func Run(specs []config.ActionSpec, e mievent.Event, remap *values.Remapper, float bool) error {
	var first error

	for _, spec := range specs {
		if err := runOne(spec, e, remap, float); err != nil && first == nil {
			first = err
		}
	}

	return first
}

func runOne(spec config.ActionSpec, e mievent.Event, remap *values.Remapper, float bool) error {
	env := BuildEnv(e, remap, float, spec.EnvKeys)

	if spec.Detach {
		go func() {
			_ = execute(spec, env)
		}()

		return nil
	}

	return execute(spec, env)
}

func execute(spec config.ActionSpec, env []string) error {
	cmd := exec.Command(spec.Args[0], spec.Args[1:]...) //nolint:gosec
	cmd.Env = append(os.Environ(), env...)

	if !spec.Pty {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		return cmd.Run()
	}

	f, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("action: pty start %v: %w", spec.Args, err)
	}
	defer f.Close()

	_, _ = pty.InheritSize(os.Stdin, f)

	done := make(chan struct{})

	go func() {
		_, _ = io.Copy(os.Stdout, f)
		close(done)
	}()

	err = cmd.Wait()
	<-done

	return err
}
