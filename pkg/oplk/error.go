// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package oplk

import (
	"errors"
	"fmt"
)

// Error is a status code returned by the stack.
type Error uint32

const (
	ErrorOk               Error = 0x0000
	ErrorNoFreeInstance   Error = 0x0003
	ErrorInvalidOperation Error = 0x0005
	ErrorNoResource       Error = 0x0008
	ErrorShutdown         Error = 0x0009
	ErrorGeneralError     Error = 0x000D
)

var errorNames = map[Error]string{
	ErrorOk:               "ok",
	ErrorNoFreeInstance:   "no free instance",
	ErrorInvalidOperation: "invalid operation",
	ErrorNoResource:       "no resource",
	ErrorShutdown:         "stack is shut down",
	ErrorGeneralError:     "general error",
}

func (e Error) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return "unknown error"
}

func (e Error) Error() string {
	return fmt.Sprintf("openPOWERLINK error 0x%X (%s)", uint32(e), e.String())
}

// Code returns the stack status code carried by err. A nil error maps to
// ErrorOk, an error without a stack code to ErrorGeneralError.
func Code(err error) Error {
	if err == nil {
		return ErrorOk
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	return ErrorGeneralError
}

// ToError turns a raw status code into an error, nil for ErrorOk.
func ToError(code uint32) error {
	if Error(code) == ErrorOk {
		return nil
	}
	return Error(code)
}
