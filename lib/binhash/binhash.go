// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// vendorDomainKey separates vendor binary digests from any other
// BLAKE3 use. Changing it invalidates every recorded manifest digest.
var vendorDomainKey = [32]byte{
	'c', 'a', 'r', 'r', 'y', 'a', 'l', 'l', '.', 'v', 'e', 'n', 'd', 'o', 'r', '.',
	'b', 'i', 'n', 'a', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashReader streams reader through the keyed hash and returns the
// digest.
func HashReader(reader io.Reader) (Digest, error) {
	hasher, err := blake3.NewKeyed(vendorDomainKey[:])
	if err != nil {
		return Digest{}, fmt.Errorf("creating keyed hasher: %w", err)
	}
	if _, err := io.Copy(hasher, reader); err != nil {
		return Digest{}, err
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// HashFile computes the digest of the file at path. The file is
// streamed in chunks so memory use does not grow with file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := HashReader(file)
	if err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// FormatDigest returns the hex-encoded form of digest. This is the
// canonical format used in manifests and log output.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// String implements fmt.Stringer with the canonical hex form.
func (d Digest) String() string {
	return FormatDigest(d)
}

// ParseDigest parses a hex-encoded digest. Returns an error if the
// string is not a valid 64-character hex encoding of 32 bytes.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
