package tui

import (
	"encoding/json"
	"io"

	"github.com/mrz1836/relock/internal/errors"
)

// JSONOutput provides structured JSON output for scripts and non-TTY use.
// Every call writes one JSON document.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

// jsonMessage is the structured format for Success/Warning/Info messages.
type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// jsonError is the structured format for Error messages.
type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs {"type": "success", "message": "..."}.
func (o *JSONOutput) Success(msg string) {
	o.message("success", msg)
}

// Error outputs {"type": "error", "message": "...", "details": "...", "suggestion": "..."}.
// Details carries the raw error text when it differs from the user message.
func (o *JSONOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	out := jsonError{
		Type:       "error",
		Message:    msg,
		Suggestion: action,
	}
	if raw := err.Error(); raw != msg {
		out.Details = raw
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(out)
}

// Warning outputs {"type": "warning", "message": "..."}.
func (o *JSONOutput) Warning(msg string) {
	o.message("warning", msg)
}

// Info outputs {"type": "info", "message": "..."}.
func (o *JSONOutput) Info(msg string) {
	o.message("info", msg)
}

// Fields outputs an object mapping each key to its value.
func (o *JSONOutput) Fields(fields []Field) {
	obj := make(map[string]string, len(fields))
	for _, f := range fields {
		obj[f.Key] = f.Value
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(obj)
}

// Table outputs an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(result)
}

// JSON outputs an arbitrary value as JSON.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}

func (o *JSONOutput) message(kind, msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: kind, Message: msg})
}
