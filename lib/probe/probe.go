// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/carryall-dev/carryall/lib/clock"
)

// DefaultTimeout bounds a single probe: long enough for process
// startup on a slow machine, short enough not to stall diagnostics.
const DefaultTimeout = 5 * time.Second

// VersionFlag is passed to every probed executable.
const VersionFlag = "--version"

// Options configures a Prober. Every field has a usable zero value.
type Options struct {
	// Timeout bounds each probe. Zero means DefaultTimeout.
	Timeout time.Duration

	// Clock supplies the timeout timer. Nil means clock.Real().
	Clock clock.Clock

	// Logger receives probe diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of one probe.
type Result struct {
	// Live is true when the executable exited zero within the timeout.
	Live bool `json:"live" cbor:"live"`

	// ExitCode is the process exit status, or -1 when the process did
	// not exit on its own (spawn failure, timeout, cancellation).
	ExitCode int `json:"exit_code" cbor:"exit_code"`

	// TimedOut is set when the probe was killed at the timeout.
	TimedOut bool `json:"timed_out,omitempty" cbor:"timed_out,omitempty"`

	// Detail explains a failed probe.
	Detail string `json:"detail,omitempty" cbor:"detail,omitempty"`
}

// Prober runs liveness probes. It holds no per-probe state and is safe
// for concurrent use.
type Prober struct {
	timeout time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a Prober.
func New(options Options) *Prober {
	prober := &Prober{
		timeout: options.Timeout,
		clock:   options.Clock,
		logger:  options.Logger,
	}
	if prober.timeout <= 0 {
		prober.timeout = DefaultTimeout
	}
	if prober.clock == nil {
		prober.clock = clock.Real()
	}
	if prober.logger == nil {
		prober.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return prober
}

// Timeout returns the per-probe bound.
func (p *Prober) Timeout() time.Duration { return p.timeout }

// Alive reports whether executable runs "--version" successfully.
func (p *Prober) Alive(ctx context.Context, executable string) bool {
	return p.Check(ctx, executable).Live
}

// Check spawns executable with VersionFlag and classifies the outcome.
// executable may be an absolute path or a bare command resolved via
// PATH. Cancelling ctx terminates the probe early and classifies it as
// not live.
func (p *Prober) Check(ctx context.Context, executable string) Result {
	if executable == "" {
		return Result{ExitCode: -1, Detail: "no executable to probe"}
	}

	command := exec.Command(executable, VersionFlag)
	// Nil Stdout/Stderr connect to the null device, so Wait has no
	// output-copying goroutines to drain.
	command.Stdin = nil
	command.Stdout = nil
	command.Stderr = nil
	isolateProcessGroup(command)

	if err := command.Start(); err != nil {
		p.logger.Debug("probe spawn failed", "executable", executable, "error", err)
		return Result{ExitCode: -1, Detail: fmt.Sprintf("spawn: %v", err)}
	}

	reaper := &reaper{process: command.Process, logger: p.logger}
	exited := make(chan error, 1)
	go func() {
		exited <- command.Wait()
	}()

	timer := p.clock.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case err := <-exited:
		return classify(executable, err, p.logger)

	case <-timer.C:
		// The process may have exited in the same instant; prefer its
		// real status over a timeout verdict.
		select {
		case err := <-exited:
			return classify(executable, err, p.logger)
		default:
		}
		reaper.terminate()
		<-exited
		p.logger.Debug("probe timed out", "executable", executable, "timeout", p.timeout)
		return Result{ExitCode: -1, TimedOut: true, Detail: fmt.Sprintf("timed out after %s", p.timeout)}

	case <-ctx.Done():
		reaper.terminate()
		<-exited
		return Result{ExitCode: -1, Detail: fmt.Sprintf("cancelled: %v", ctx.Err())}
	}
}

// classify turns the error from Wait into a Result.
func classify(executable string, err error, logger *slog.Logger) Result {
	if err == nil {
		logger.Debug("probe succeeded", "executable", executable)
		return Result{Live: true, ExitCode: 0}
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		logger.Debug("probe exited non-zero", "executable", executable, "exit_code", exitError.ExitCode())
		return Result{ExitCode: exitError.ExitCode(), Detail: fmt.Sprintf("exited with status %d", exitError.ExitCode())}
	}
	return Result{ExitCode: -1, Detail: err.Error()}
}

// reaper kills a probe's process tree at most once.
type reaper struct {
	once    sync.Once
	process *os.Process
	logger  *slog.Logger
}

func (r *reaper) terminate() {
	r.once.Do(func() {
		if err := killProcessTree(r.process); err != nil {
			r.logger.Warn("terminating probe process", "pid", r.process.Pid, "error", err)
		}
	})
}
