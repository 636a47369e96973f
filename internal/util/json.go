package util

import (
	"bytes"
	"errors"
	"reflect"

	"github.com/goccy/go-json"
)

// ErrEmptyBody is returned by DeserializeJSONBody for a blank body.
var ErrEmptyBody = errors.New("request body is empty")

// SerializeToJSONString serializes the given struct to a JSON string.
func SerializeToJSONString(v interface{}) (string, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

// DeserializeJSONBody decodes a request body into v, which must be a
// pointer. Unknown fields are ignored.
func DeserializeJSONBody(body []byte, v interface{}) error {
	// Check if v is a pointer
	if reflect.ValueOf(v).Kind() != reflect.Ptr {
		return errors.New("input must be a pointer")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}
