package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// fingerprintNamespace is the UUIDv5 namespace of IR fingerprints.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/erraggy/connectorgen/ir"))

// MarshalCanonical renders v as compact JSON with object keys sorted and
// every string in Unicode normalization form C. Equal values always
// produce identical bytes.
func MarshalCanonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("ir: marshal: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("ir: canonicalize: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(nfc(generic)); err != nil {
		return nil, fmt.Errorf("ir: marshal: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// nfc normalizes every string of a decoded JSON value, map keys included.
func nfc(v any) any {
	switch t := v.(type) {
	case string:
		return norm.NFC.String(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[norm.NFC.String(k)] = nfc(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = nfc(e)
		}
		return t
	}
	return v
}

// fingerprint hashes the canonical form of r with the fingerprint unset.
func fingerprint(r *IR) (uuid.UUID, error) {
	c := *r
	c.Fingerprint = uuid.Nil
	data, err := MarshalCanonical(&c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(fingerprintNamespace, data), nil
}

// Verify reports whether the fingerprint of r matches its content.
func (r *IR) Verify() (bool, error) {
	fp, err := fingerprint(r)
	if err != nil {
		return false, err
	}
	return fp == r.Fingerprint, nil
}
