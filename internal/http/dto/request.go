package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BodyError is a malformed request body. Message is shown to the client.
type BodyError struct {
	Message string
}

func (e *BodyError) Error() string {
	return e.Message
}

const notAnObject = "Request body must be a JSON object."

// Body is a request body decoded as a JSON object, kept raw so that key
// presence can be checked before typed decoding.
type Body map[string]json.RawMessage

// ParseBody decodes data as a JSON object.
func ParseBody(data []byte) (Body, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, &BodyError{Message: notAnObject}
	}
	var body Body
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &BodyError{Message: notAnObject}
	}
	return body, nil
}

// MissingKeys returns the required keys absent from input, in the order they
// were declared. A key present with a null value is not missing.
func MissingKeys(input map[string]json.RawMessage, required []string) []string {
	missing := make([]string, 0, len(required))
	for _, key := range required {
		if _, ok := input[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// MissingKeysMessage is the client message for a non-empty MissingKeys result.
func MissingKeysMessage(missing []string) string {
	return fmt.Sprintf("Request body is missing the following required properties: %s.", strings.Join(missing, ", "))
}

// MissingFieldMessage reports a single missing field, as the auth endpoints do.
func MissingFieldMessage(field string) string {
	return fmt.Sprintf("Field `%s` is required.", field)
}

// Decode unmarshals the body into dst. Type mismatches name the offending
// property.
func (b Body) Decode(dst interface{}) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &BodyError{Message: fmt.Sprintf("Property `%s` has an invalid value.", typeErr.Field)}
		}
		return &BodyError{Message: "Request body is not valid JSON."}
	}
	return nil
}
