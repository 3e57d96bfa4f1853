// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package hostinfo

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	ini "gopkg.in/ini.v1"
)

const (
	OS_NAME        = "NAME"
	OS_PRETTY_NAME = "PRETTY_NAME"
	OS_VERSION_ID  = "VERSION_ID"
)

type HostInfo struct {
	Hostname string `json:"hostname,omitempty"`
	OS       string `json:"os,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Get describes the host the tool runs on. Missing or unparsable os-release
// data leaves the OS fields empty.
func Get(osRelease string) HostInfo {
	var info HostInfo
	if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}
	if _, err := os.Stat(osRelease); err != nil {
		return info
	}
	cfg, err := ini.Load(osRelease)
	if err != nil {
		log.Warn().Msgf("Can't parse file %s", osRelease)
		return info
	}
	section := cfg.Section("")
	info.OS = unquote(section.Key(OS_PRETTY_NAME).String())
	if info.OS == "" {
		info.OS = unquote(section.Key(OS_NAME).String())
	}
	info.Version = unquote(section.Key(OS_VERSION_ID).String())
	return info
}

func unquote(value string) string {
	return strings.ReplaceAll(value, "\"", "")
}
