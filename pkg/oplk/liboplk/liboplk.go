// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

//go:build oplk

// Package liboplk binds the openPOWERLINK user library of the PCIe interface
// card. Build with -tags oplk and point CGO_CFLAGS/CGO_LDFLAGS at the stack
// installation.
package liboplk

/*
#cgo LDFLAGS: -loplkmnapp-kernelpcie
#include <stdlib.h>
#include <oplk/oplk.h>
*/
import "C"

import (
	"unsafe"

	"github.com/foundriesio/fwupdate/pkg/oplk"
)

// Available reports whether the binding was compiled in.
const Available = true

type stack struct{}

var _ oplk.Stack = stack{}

// New returns the stack implemented by the openPOWERLINK library.
func New() (oplk.Stack, error) {
	return stack{}, nil
}

func (stack) VersionString() string {
	return C.GoString(C.oplk_getVersionString())
}

func (stack) Initialize() error {
	return oplk.ToError(uint32(C.oplk_initialize()))
}

func (stack) Exit() error {
	C.oplk_exit()
	return nil
}

func (stack) StackInfo() (oplk.StackInfo, error) {
	var info C.tOplkApiStackInfo
	if err := oplk.ToError(uint32(C.oplk_getStackInfo(&info))); err != nil {
		return oplk.StackInfo{}, err
	}
	return oplk.StackInfo{
		UserVersion:   uint32(info.userVersion),
		UserFeature:   uint32(info.userFeature),
		KernelVersion: uint32(info.kernelVersion),
		KernelFeature: uint32(info.kernelFeature),
	}, nil
}

func (stack) FileChunkSize() uint32 {
	return uint32(C.oplk_serviceGetFileChunkSize())
}

func (stack) WriteFileChunk(desc oplk.FileChunkDesc, data []byte) error {
	if len(data) == 0 {
		return oplk.ErrorInvalidOperation
	}
	var cDesc C.tOplkApiFileChunkDesc
	cDesc.fFirst = cBool(desc.First)
	cDesc.fLast = cBool(desc.Last)
	cDesc.offset = C.UINT32(desc.Offset)
	cDesc.length = C.UINT32(desc.Length)
	ret := C.oplk_serviceWriteFileChunk(&cDesc, (*C.UINT8)(unsafe.Pointer(&data[0])))
	return oplk.ToError(uint32(ret))
}

func (stack) ExecFirmwareReconfig(factory bool) error {
	return oplk.ToError(uint32(C.oplk_serviceExecFirmwareReconfig(cBool(factory))))
}

func cBool(b bool) C.BOOL {
	if b {
		return C.BOOL(1)
	}
	return C.BOOL(0)
}
