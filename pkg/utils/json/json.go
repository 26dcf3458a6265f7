// Package json routes encoding through sonic with encoding/json compatible semantics.
package json

import (
	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

func MarshalString(v interface{}) (string, error) {
	return api.MarshalToString(v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return api.Valid(data)
}
