// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sampleRow struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Available bool   `json:"available"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRow{Name: "bun", Path: "/app/vendor/bun-linux-x64/bun", Available: true}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleRow
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministicMaps(t *testing.T) {
	hints := map[string]string{"UV_PYTHON_PREFERENCE": "system", "A": "1", "Z": "26"}
	first, err := Marshal(hints)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := Marshal(map[string]string{"Z": "26", "UV_PYTHON_PREFERENCE": "system", "A": "1"})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("map encoding not deterministic: %x != %x", first, again)
		}
	}
}

func TestJSONTagNamesAndOmitempty(t *testing.T) {
	data, err := Marshal(sampleRow{Name: "uv"})
	if err != nil {
		t.Fatal(err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diagnostic, `"name": "uv"`) || !strings.Contains(diagnostic, `"available": false`) {
		t.Errorf("diagnostic = %s, want JSON tag names", diagnostic)
	}
	if strings.Contains(diagnostic, "path") {
		t.Errorf("diagnostic = %s, empty omitempty field encoded", diagnostic)
	}
}

func TestEncoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, row := range []sampleRow{{Name: "bun"}, {Name: "uv"}} {
		if err := encoder.Encode(row); err != nil {
			t.Fatal(err)
		}
	}
	first, err := Marshal(sampleRow{Name: "bun"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buffer.Bytes(), first) {
		t.Error("stream encoding differs from Marshal")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var row sampleRow
	if err := Unmarshal([]byte{0xff, 0x00}, &row); err == nil {
		t.Error("Unmarshal accepted invalid CBOR")
	}
}
