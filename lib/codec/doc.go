// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is carryall's CBOR configuration.
//
// Human-facing output is JSON. CBOR is the compact form for tools
// that consume doctor reports and launch options programmatically; it
// uses Core Deterministic Encoding so the same report always produces
// the same bytes and can be compared or hashed directly.
//
// Structs tagged only for JSON encode with their JSON names.
package codec
