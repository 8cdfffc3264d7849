// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for every Slateworks
// on-disk record: scene files, groom palette files, and publish sidecar
// metadata. Encoding is deterministic (RFC 8949 Core Deterministic
// Encoding), so the same scene content always serializes to identical
// bytes — a requirement for content hashing published files.
package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Node attribute tables decode into map[string]any targets.
		// Slateworks never writes non-string map keys, so force the
		// concrete type that the rest of the code (and encoding/json,
		// for tracking-service payloads) expects.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored for
// forward compatibility with newer scene files.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder returns a stream encoder writing deterministic CBOR to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder reading from r with the standard
// Slateworks decoding configuration.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
