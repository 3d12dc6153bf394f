// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package system

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Code classifies the outcome of a route operation.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalid
	CodeAlreadyExists
	CodeNotFound
	CodePermissionDenied
	CodeInvalidTarget
	CodeTimeout
)

// String returns the string representation of a Code.
func (c Code) String() string {
	switch c {
	case CodeInvalid:
		return "invalid"
	case CodeAlreadyExists:
		return "already exists"
	case CodeNotFound:
		return "not found"
	case CodePermissionDenied:
		return "permission denied"
	case CodeInvalidTarget:
		return "invalid target"
	case CodeTimeout:
		return "timeout"
	default:
		return "internal error"
	}
}

// RouteError is a classified failure of a kernel route operation.
type RouteError struct {
	Op   string // "add", "replace" or "delete"
	Code Code
	Err  error
}

func (e *RouteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("route %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("route %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the classification from an error, or CodeInternal if
// the error is not a RouteError.
func CodeOf(err error) Code {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeInternal
}

// classify maps a netlink/syscall error onto the agent's failure taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.EEXIST:
			return &RouteError{Op: op, Code: CodeAlreadyExists, Err: err}
		case unix.ESRCH, unix.ENOENT:
			return &RouteError{Op: op, Code: CodeNotFound, Err: err}
		case unix.EPERM, unix.EACCES:
			return &RouteError{Op: op, Code: CodePermissionDenied, Err: err}
		case unix.ENETUNREACH, unix.EHOSTUNREACH, unix.ENODEV:
			return &RouteError{Op: op, Code: CodeInvalidTarget, Err: err}
		}
	}

	return &RouteError{Op: op, Code: CodeInternal, Err: err}
}
