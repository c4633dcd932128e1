// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads carryall's YAML configuration.
//
// Configuration comes from a single file named by the --config flag
// (via [LoadFile]) or the CARRYALL_CONFIG environment variable (via
// [Load]). There is no file discovery. When neither is given, [Load]
// returns the built-in development defaults, because the host
// application must always be able to start.
//
// The file may contain development, staging, and production sections
// that override base values when [Config].Environment matches. Builds
// are packaged by default in staging and production and unpackaged in
// development; an explicit packaged key wins over both.
//
// Path fields are expanded after loading: ${HOME}, ${CARRYALL_RESOURCES},
// and ${VAR:-default} patterns. No other environment variable overrides
// config values.
package config
