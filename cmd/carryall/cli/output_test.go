// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/carryall-dev/carryall/lib/codec"
)

type sample struct {
	Name  string `json:"name" cbor:"name"`
	Live  bool   `json:"live" cbor:"live"`
	Items []int  `json:"items" cbor:"items"`
}

func TestEmitText(t *testing.T) {
	var buffer bytes.Buffer
	var output Output
	done, err := output.Emit(&buffer, sample{Name: "bun"})
	if done || err != nil {
		t.Errorf("Emit() = %v, %v; want false, nil", done, err)
	}
	if buffer.Len() != 0 {
		t.Errorf("text mode wrote %q", buffer.String())
	}
}

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	output := Output{OutputJSON: true}
	done, err := output.Emit(&buffer, sample{Name: "bun", Live: true})
	if !done || err != nil {
		t.Fatalf("Emit() = %v, %v", done, err)
	}
	var decoded sample
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", buffer.String(), err)
	}
	if decoded.Name != "bun" || !decoded.Live {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestEmitJSONNilSlice(t *testing.T) {
	var buffer bytes.Buffer
	output := Output{OutputJSON: true}
	var none []sample
	if _, err := output.Emit(&buffer, none); err != nil {
		t.Fatal(err)
	}
	if got := bytes.TrimSpace(buffer.Bytes()); string(got) != "[]" {
		t.Errorf("nil slice = %s, want []", got)
	}
}

func TestEmitCBOR(t *testing.T) {
	var buffer bytes.Buffer
	output := Output{OutputCBOR: true}
	if _, err := output.Emit(&buffer, sample{Name: "uv", Items: []int{1, 2}}); err != nil {
		t.Fatal(err)
	}
	var decoded sample
	if err := codec.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Name != "uv" || len(decoded.Items) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestEmitConflictingFormats(t *testing.T) {
	output := Output{OutputJSON: true, OutputCBOR: true}
	done, err := output.Emit(&bytes.Buffer{}, sample{})
	if !done || err == nil {
		t.Errorf("Emit() = %v, %v; want an error", done, err)
	}
}
