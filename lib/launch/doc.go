// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package launch assembles the options handed to the agent SDK when
// it spawns a child process: which runtime executable to use, and the
// environment the child runs in.
//
// The executable is the first runtime in preference order whose
// resolution is available. When none is, Executable is empty and the
// SDK keeps its own default. The environment is the inherited one with
// PATH replaced by the resolver's search path, plus environment hints
// for resolved dependencies and, last, an optional env file.
//
// Build never fails. Every problem degrades to "no override".
package launch
