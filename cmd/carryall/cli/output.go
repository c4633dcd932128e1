// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"

	"github.com/carryall-dev/carryall/lib/codec"
)

// Output is embedded in parameter structs to add --json and --cbor.
//
//	type resolveParams struct {
//	    cli.Output
//	}
//
//	if done, err := params.Emit(stdout, executables); done {
//	    return err
//	}
//	// ... text formatting ...
type Output struct {
	OutputJSON bool `flag:"json" desc:"output as JSON"`
	OutputCBOR bool `flag:"cbor" desc:"output as deterministic CBOR"`
}

// Validate rejects --json together with --cbor.
func (o *Output) Validate() error {
	if o.OutputJSON && o.OutputCBOR {
		return errors.New("--json and --cbor are mutually exclusive")
	}
	return nil
}

// Structured reports whether a machine-readable format was requested.
func (o *Output) Structured() bool {
	return o.OutputJSON || o.OutputCBOR
}

// Emit writes result in the requested machine format. It returns
// (false, nil) when neither flag is set and the caller should print
// text. Nil slices are written as empty arrays.
func (o *Output) Emit(w io.Writer, result any) (bool, error) {
	if err := o.Validate(); err != nil {
		return true, err
	}
	switch {
	case o.OutputJSON:
		return true, WriteJSON(w, normalizeNilSlice(result))
	case o.OutputCBOR:
		return true, codec.NewEncoder(w).Encode(normalizeNilSlice(result))
	default:
		return false, nil
	}
}

// WriteJSON writes value as indented JSON.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
