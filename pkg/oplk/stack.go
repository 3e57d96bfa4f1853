// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package oplk describes the part of the openPOWERLINK user API the firmware
// update tool consumes. The transfer into the kernel stack and the firmware
// reconfiguration on the interface card are implemented by a Stack backend.
package oplk

type (
	// StackInfo holds the version and feature words of the user and kernel stack.
	StackInfo struct {
		UserVersion   uint32 `json:"user_version"`
		UserFeature   uint32 `json:"user_feature"`
		KernelVersion uint32 `json:"kernel_version"`
		KernelFeature uint32 `json:"kernel_feature"`
	}

	// FileChunkDesc describes one segment of a chunked file transfer.
	FileChunkDesc struct {
		First  bool
		Last   bool
		Offset uint32
		Length uint32
	}

	// Stack is the openPOWERLINK service interface used to stage firmware
	// images and to trigger a firmware reconfiguration.
	Stack interface {
		VersionString() string
		Initialize() error
		Exit() error
		StackInfo() (StackInfo, error)
		// FileChunkSize returns the maximum segment length accepted by
		// WriteFileChunk, 0 if the stack has no file chunk transfer support.
		FileChunkSize() uint32
		WriteFileChunk(desc FileChunkDesc, data []byte) error
		// ExecFirmwareReconfig reboots the card into the factory image if
		// factory is set, into the update image otherwise.
		ExecFirmwareReconfig(factory bool) error
	}
)

// FirmwareHeaderSize is the length of the image header the interface card
// validates before booting an update image.
const FirmwareHeaderSize = 32
