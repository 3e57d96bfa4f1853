// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package transfer streams firmware images through the file chunk service of
// the stack.
package transfer

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type (
	// ProgressFunc receives the completed percentage after each chunk.
	ProgressFunc func(percent int)

	ChunkError struct {
		Offset uint32
		Length uint32
		Err    error
	}
)

var (
	ErrNoChunkSupport = errors.Wrap(oplk.ErrorNoResource, "no file chunk transfer support available")
	ErrEmptyImage     = errors.Wrap(oplk.ErrorNoResource, "image is empty")
)

func (e *ChunkError) Error() string {
	return fmt.Sprintf("writing file chunk at offset %d (%d bytes) failed: %s", e.Offset, e.Length, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// WriteImage splits image into chunks of at most the stack's chunk size and
// writes them in order. The first chunk is flagged first, the final one last.
// The transfer stops at the first chunk the stack rejects.
func WriteImage(stack oplk.Stack, image []byte, progress ProgressFunc) error {
	chunkSize := stack.FileChunkSize()
	if chunkSize == 0 {
		return ErrNoChunkSupport
	}
	if len(image) == 0 {
		return ErrEmptyImage
	}
	if uint64(len(image)) > math.MaxUint32 {
		return errors.Wrapf(oplk.ErrorNoResource, "image of %d bytes exceeds the transfer limit", len(image))
	}
	total := uint32(len(image))
	log.Debug().Uint32("bytes", total).Uint32("chunk_size", chunkSize).Msg("writing image to stack")

	desc := oplk.FileChunkDesc{First: true}
	for desc.Offset < total {
		remaining := total - desc.Offset
		desc.Length = chunkSize
		if remaining <= chunkSize {
			desc.Length = remaining
			desc.Last = true
		}
		chunk := image[desc.Offset : desc.Offset+desc.Length]
		if err := stack.WriteFileChunk(desc, chunk); err != nil {
			return &ChunkError{Offset: desc.Offset, Length: desc.Length, Err: err}
		}
		desc.Offset += desc.Length
		desc.First = false
		if progress != nil {
			progress(Percent(desc.Offset, total))
		}
	}
	return nil
}

// InvalidateImage overwrites the header of the staged update image so the
// card does not boot it anymore.
func InvalidateImage(stack oplk.Stack, progress ProgressFunc) error {
	header := bytes.Repeat([]byte{0xFF}, oplk.FirmwareHeaderSize)
	return WriteImage(stack, header, progress)
}

// LoadImage reads the whole firmware file into memory.
func LoadImage(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Err(err).Msg("failed to open image")
		return nil, errors.Wrapf(oplk.ErrorNoResource, "unable to open file %s", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Err(closeErr).Msgf("failed to close %s", path)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(oplk.ErrorNoResource, "unable to get size of file %s", path)
	}
	if info.Size() == 0 {
		return nil, errors.Wrapf(oplk.ErrorNoResource, "file %s is empty", path)
	}
	image := make([]byte, info.Size())
	if _, err := io.ReadFull(f, image); err != nil {
		log.Err(err).Msg("failed to read image")
		return nil, errors.Wrapf(oplk.ErrorNoResource, "unable to read file %s", path)
	}
	return image, nil
}

// Percent returns the completed share of total in whole percent, rounded down.
func Percent(done, total uint32) int {
	if total == 0 {
		return 100
	}
	return int(uint64(done) * 100 / uint64(total))
}
