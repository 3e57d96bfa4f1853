// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

// Package emu provides an emulated interface card that keeps its update
// partition in a local directory.
package emu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	UpdateImageFile = "update.bin"
	StateFile       = "device.json"
	LockFile        = ".lock"

	DefaultChunkSize = 1024

	BootFactory = "factory"
	BootUpdate  = "update"

	version     = "V2.7.0-emu"
	versionWord = 0x02070000
	featureWord = 0x00000040
)

type (
	// State is the persistent state of the emulated card.
	State struct {
		BootImage        string `json:"boot_image"`
		UpdateValid      bool   `json:"update_valid"`
		UpdateSize       int    `json:"update_size"`
		Reconfigurations int    `json:"reconfigurations"`
		LastReconfig     string `json:"last_reconfig,omitempty"`
	}

	// Device is an oplk.Stack backed by the local filesystem.
	Device struct {
		storage   string
		chunkSize uint32

		lock      *os.File
		state     State
		staging   []byte
		receiving bool
	}

	Option func(*Device)
)

var _ oplk.Stack = &Device{}

// WithChunkSize sets the file chunk size reported by the card. Zero models a
// stack built without file chunk transfer support.
func WithChunkSize(size uint32) Option {
	return func(d *Device) {
		d.chunkSize = size
	}
}

// New creates an emulated card using storage as its flash.
func New(storage string, options ...Option) (*Device, error) {
	if err := os.MkdirAll(storage, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create device storage dir %q: %w", storage, err)
	}
	dStat, err := os.Stat(storage)
	if err != nil {
		return nil, fmt.Errorf("unable to stat device storage dir %q: %w", storage, err)
	}
	if !dStat.Mode().IsDir() {
		return nil, fmt.Errorf("device storage %q is not a directory", storage)
	}
	d := &Device{
		storage:   storage,
		chunkSize: DefaultChunkSize,
		state:     State{BootImage: BootFactory},
	}
	for _, o := range options {
		o(d)
	}
	return d, nil
}

func (d *Device) VersionString() string {
	return version
}

func (d *Device) Initialize() error {
	if d.lock != nil {
		return errors.Wrap(oplk.ErrorInvalidOperation, "stack already initialized")
	}
	lockPath := filepath.Join(d.storage, LockFile)
	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		log.Err(err).Str("lock_file", lockPath).Msg("failed to open lock file")
		return oplk.ErrorNoResource
	}
	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = lock.Close()
		return errors.Wrapf(oplk.ErrorNoFreeInstance, "device %s is in use", d.storage)
	}
	d.lock = lock
	if err := d.loadState(); err != nil {
		d.unlock()
		log.Err(err).Msg("failed to load device state")
		return oplk.ErrorNoResource
	}
	log.Debug().Str("storage", d.storage).Uint32("chunk_size", d.chunkSize).Msg("emulated stack initialized")
	return nil
}

func (d *Device) Exit() error {
	if d.lock == nil {
		return oplk.ErrorShutdown
	}
	if d.receiving {
		log.Debug().Int("bytes", len(d.staging)).Msg("discarding incomplete file transfer")
	}
	d.staging = nil
	d.receiving = false
	d.unlock()
	log.Debug().Msg("emulated stack shut down")
	return nil
}

func (d *Device) StackInfo() (oplk.StackInfo, error) {
	if d.lock == nil {
		return oplk.StackInfo{}, oplk.ErrorShutdown
	}
	return oplk.StackInfo{
		UserVersion:   versionWord,
		UserFeature:   featureWord,
		KernelVersion: versionWord,
		KernelFeature: featureWord,
	}, nil
}

func (d *Device) FileChunkSize() uint32 {
	if d.lock == nil {
		return 0
	}
	return d.chunkSize
}

func (d *Device) WriteFileChunk(desc oplk.FileChunkDesc, data []byte) error {
	if d.lock == nil {
		return oplk.ErrorShutdown
	}
	if err := d.checkChunk(desc, data); err != nil {
		d.staging = nil
		d.receiving = false
		return err
	}
	if desc.First {
		d.staging = d.staging[:0]
		d.receiving = true
	}
	d.staging = append(d.staging, data...)
	if !desc.Last {
		return nil
	}

	d.receiving = false
	if err := d.commit(d.staging); err != nil {
		d.staging = nil
		log.Err(err).Msg("failed to commit update image")
		return oplk.ErrorNoResource
	}
	log.Debug().Int("bytes", len(d.staging)).Bool("valid", d.state.UpdateValid).Msg("update image committed")
	d.staging = nil
	return nil
}

func (d *Device) ExecFirmwareReconfig(factory bool) error {
	if d.lock == nil {
		return oplk.ErrorShutdown
	}
	if d.receiving {
		return errors.Wrap(oplk.ErrorInvalidOperation, "file transfer in progress")
	}
	boot := BootFactory
	if !factory {
		if !d.state.UpdateValid {
			return errors.Wrap(oplk.ErrorInvalidOperation, "no valid update image")
		}
		boot = BootUpdate
	}
	d.state.BootImage = boot
	d.state.Reconfigurations++
	d.state.LastReconfig = time.Now().Format(time.RFC3339)
	if err := d.saveState(); err != nil {
		log.Err(err).Msg("failed to save device state")
		return oplk.ErrorNoResource
	}
	log.Debug().Str("boot_image", boot).Msg("firmware reconfiguration executed")
	return nil
}

// State returns the last persisted state of the card.
func (d *Device) State() (State, error) {
	if d.lock == nil {
		if err := d.loadState(); err != nil {
			return State{}, err
		}
	}
	return d.state, nil
}

// UpdateImage returns the content of the update partition.
func (d *Device) UpdateImage() ([]byte, error) {
	return os.ReadFile(filepath.Join(d.storage, UpdateImageFile))
}

func (d *Device) checkChunk(desc oplk.FileChunkDesc, data []byte) error {
	switch {
	case desc.Length == 0 || int(desc.Length) != len(data):
		return errors.Wrapf(oplk.ErrorInvalidOperation, "chunk length %d does not match %d data bytes", desc.Length, len(data))
	case desc.Length > d.chunkSize:
		return errors.Wrapf(oplk.ErrorInvalidOperation, "chunk length %d exceeds chunk size %d", desc.Length, d.chunkSize)
	case desc.First && desc.Offset != 0:
		return errors.Wrapf(oplk.ErrorInvalidOperation, "first chunk at offset %d", desc.Offset)
	case !desc.First && !d.receiving:
		return errors.Wrap(oplk.ErrorInvalidOperation, "no file transfer in progress")
	case !desc.First && int(desc.Offset) != len(d.staging):
		return errors.Wrapf(oplk.ErrorInvalidOperation, "chunk offset %d, expected %d", desc.Offset, len(d.staging))
	}
	return nil
}

func (d *Device) commit(image []byte) error {
	path := filepath.Join(d.storage, UpdateImageFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, image, 0o644); err != nil {
		return fmt.Errorf("failed to write update image to %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move update image to %q: %w", path, err)
	}
	d.state.UpdateValid = validHeader(image)
	d.state.UpdateSize = len(image)
	return d.saveState()
}

func (d *Device) unlock() {
	if d.lock == nil {
		return
	}
	if err := syscall.Flock(int(d.lock.Fd()), syscall.LOCK_UN); err != nil {
		log.Err(err).Msg("failed to unlock device")
	}
	if err := d.lock.Close(); err != nil {
		log.Err(err).Msg("failed to close lock file")
	}
	d.lock = nil
}

func (d *Device) loadState() error {
	b, err := os.ReadFile(filepath.Join(d.storage, StateFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, &d.state)
}

func (d *Device) saveState() error {
	b, err := json.MarshalIndent(d.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.storage, StateFile), b, 0o644)
}

// validHeader reports whether image starts with a header that was not erased.
func validHeader(image []byte) bool {
	if len(image) < oplk.FirmwareHeaderSize {
		return false
	}
	return !bytes.Equal(image[:oplk.FirmwareHeaderSize], bytes.Repeat([]byte{0xFF}, oplk.FirmwareHeaderSize))
}
