package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Create and update bodies share one shape: an object of optional strings.
// Presence and value checks happen in the todos service.
const bodySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "title":       {"type": ["string", "null"]},
    "description": {"type": ["string", "null"]},
    "day":         {"type": ["string", "null"]},
    "priority":    {"type": ["string", "null"]}
  }
}`

var todoBody = jsonschema.MustCompileString("todo-body.json", bodySchema)

// CreateBody is the decoded body of a create request.
type CreateBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Day         string `json:"day"`
	Priority    string `json:"priority"`
}

// UpdateBody is the decoded body of an update request. Nil means not supplied.
type UpdateBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Day         *string `json:"day"`
	Priority    *string `json:"priority"`
}

// BodyError reports a request body that is not JSON or does not fit its schema.
type BodyError struct {
	Detail string
}

func (e *BodyError) Error() string {
	return e.Detail
}

// DecodeCreateBody parses and shape-checks a create request body.
// An empty body decodes to an empty CreateBody.
func DecodeCreateBody(data []byte) (*CreateBody, error) {
	var body CreateBody
	if err := decodeBody(data, todoBody, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// DecodeUpdateBody parses and shape-checks an update request body.
func DecodeUpdateBody(data []byte) (*UpdateBody, error) {
	var body UpdateBody
	if err := decodeBody(data, todoBody, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

func decodeBody(data []byte, s *jsonschema.Schema, dst any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &BodyError{Detail: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if err := s.Validate(raw); err != nil {
		return &BodyError{Detail: schemaDetail(err)}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return &BodyError{Detail: fmt.Sprintf("invalid body: %v", err)}
	}
	return nil
}

// schemaDetail flattens a validation error to its first leaf message.
func schemaDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := strings.TrimPrefix(ve.InstanceLocation, "/")
	if loc == "" {
		return ve.Message
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
