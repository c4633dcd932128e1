// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command-line framework for carryall.
//
// The central type is [Command]: a named command with optional nested
// [Command.Subcommands], flags, and a Run function. [Command.Execute]
// parses flags, routes to subcommands, and prints help with examples.
// A command that has both flags and subcommands parses its flags
// before dispatch, which is how the root command takes --config.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. Embedding [Output] adds --json and --cbor.
//
// Unknown commands and flags get a "did you mean" suggestion when a
// known name is within Levenshtein distance 3.
package cli
