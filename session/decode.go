package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedIdentity is returned when an identity payload cannot be decoded.
var ErrMalformedIdentity = errors.New("malformed identity payload")

// DecodeIdentity parses the JSON body of the identity endpoint.
//
// The payload must be a JSON object. id, name and email must be strings or
// null when present, and at least one of name or email must be non-empty.
// All other members are kept verbatim in Attributes.
func DecodeIdentity(data []byte) (Identity, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return Identity{}, fmt.Errorf("%w: not a json object", ErrMalformedIdentity)
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrMalformedIdentity, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Identity{}, fmt.Errorf("%w: trailing data", ErrMalformedIdentity)
	}
	if raw == nil {
		return Identity{}, fmt.Errorf("%w: not a json object", ErrMalformedIdentity)
	}

	var (
		identity Identity
		err      error
	)
	if identity.ID, err = stringMember(raw, "id"); err != nil {
		return Identity{}, err
	}
	if identity.Name, err = stringMember(raw, "name"); err != nil {
		return Identity{}, err
	}
	if identity.Email, err = stringMember(raw, "email"); err != nil {
		return Identity{}, err
	}
	identity.Name = strings.TrimSpace(identity.Name)
	identity.Email = strings.TrimSpace(identity.Email)
	if identity.Name == "" && identity.Email == "" {
		return Identity{}, fmt.Errorf("%w: neither name nor email present", ErrMalformedIdentity)
	}

	delete(raw, "id")
	delete(raw, "name")
	delete(raw, "email")
	if len(raw) > 0 {
		identity.Attributes = raw
	}

	return identity, nil
}

func stringMember(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformedIdentity, key)
	}
	return s, nil
}
