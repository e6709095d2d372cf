// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmpty is emitted by operators that require at least one item
	// from a source that completed without any.
	ErrEmpty = errors.New("stream: source completed without items")

	// ErrAlreadyConnected is returned by Connectable.Connect after the
	// first call.
	ErrAlreadyConnected = errors.New("stream: connectable already connected")
)

// ProductionError is a panic recovered from a production routine.
type ProductionError struct {
	Err error
}

func (e *ProductionError) Error() string { return "production failed: " + e.Err.Error() }
func (e *ProductionError) Unwrap() error { return e.Err }

// OperatorError is a failure of an operator callback, e.g. the function
// given to Map or the predicate of Filter.
type OperatorError struct {
	Op  string
	Err error
}

func (e *OperatorError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *OperatorError) Unwrap() error { return e.Err }

// UserHandlerError is a panic recovered from an observer callback.
type UserHandlerError struct {
	Err error
}

func (e *UserHandlerError) Error() string { return "observer failed: " + e.Err.Error() }
func (e *UserHandlerError) Unwrap() error { return e.Err }

// catch runs 'f' and converts a panic into an error carrying a stack trace.
func catch(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = errors.WithStack(rerr)
			} else {
				err = errors.Errorf("panic: %v", r)
			}
		}
	}()
	f()
	return nil
}

var (
	hooksMu      sync.RWMutex
	errorHandler func(error)
	logger       logrus.FieldLogger = logrus.StandardLogger()
)

// SetErrorHandler installs the handler for undeliverable errors: errors
// raised after a subscription terminated or was cancelled, panics in
// OnError or OnComplete, and errors for observers without an error
// callback. Without a handler these are logged. Returns a function that
// restores the previous handler.
func SetErrorHandler(h func(error)) (restore func()) {
	hooksMu.Lock()
	prev := errorHandler
	errorHandler = h
	hooksMu.Unlock()
	return func() {
		hooksMu.Lock()
		errorHandler = prev
		hooksMu.Unlock()
	}
}

// SetLogger sets the logger used for undeliverable errors.
func SetLogger(l logrus.FieldLogger) {
	hooksMu.Lock()
	logger = l
	hooksMu.Unlock()
}

func reportUndeliverable(err error) {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	hooksMu.RLock()
	h, l := errorHandler, logger
	hooksMu.RUnlock()
	if h != nil {
		h(err)
		return
	}
	l.WithError(err).WithField("kind", errorKind(err)).Error("Undeliverable stream error")
}

func errorKind(err error) string {
	var (
		perr *ProductionError
		oerr *OperatorError
		uerr *UserHandlerError
	)
	switch {
	case errors.As(err, &uerr):
		return "handler"
	case errors.As(err, &oerr):
		return "operator"
	case errors.As(err, &perr):
		return "production"
	default:
		return "source"
	}
}
