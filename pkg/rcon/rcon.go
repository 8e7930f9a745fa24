// Package rcon saves and stops a running server over RCON.
package rcon

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorcon/rcon"
)

const dialTimeout = 5 * time.Second

// Conn is an authenticated RCON session. *rcon.Conn satisfies it.
type Conn interface {
	Execute(command string) (string, error)
	Close() error
}

// Dial opens an RCON session to the server described by s. The dial is
// bounded by the context deadline when it is sooner than the default.
func Dial(ctx context.Context, s Settings) (Conn, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "dial cancelled")
	}

	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}

	conn, err := rcon.Dial(s.Address(), s.Password, rcon.SetDialTimeout(timeout))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to RCON at %s", s.Address())
	}

	return conn, nil
}

// StopOptions controls the broadcast that precedes a stop.
type StopOptions struct {
	// Warnings are broadcast with "say" in order.
	Warnings []string
	// Interval separates consecutive warnings.
	Interval time.Duration
}

// Stop broadcasts the warnings, flushes the world to disk and stops the
// server. Nothing after a failed command is sent.
func Stop(ctx context.Context, conn Conn, opts StopOptions) error {
	for i, warning := range opts.Warnings {
		if i > 0 {
			if err := sleep(ctx, opts.Interval); err != nil {
				return err
			}
		}

		if err := execute(ctx, conn, "say "+warning); err != nil {
			return errors.Wrap(err, "failed to send warning")
		}
	}

	// save-all flush returns only once every chunk is written.
	if err := execute(ctx, conn, "save-all flush"); err != nil {
		return errors.Wrap(err, "failed to save world")
	}

	if err := execute(ctx, conn, "stop"); err != nil {
		return errors.Wrap(err, "failed to stop server")
	}

	return nil
}

func execute(ctx context.Context, conn Conn, command string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "stop cancelled")
	}

	response, err := conn.Execute(command)
	if err != nil {
		return errors.Wrapf(err, "command %q failed", command)
	}

	slog.DebugContext(ctx, "RCON command sent", "command", command, "response", response)

	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "stop cancelled")
	case <-timer.C:
		return nil
	}
}
