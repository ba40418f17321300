// Package analysis holds the X handle analysis domain shared by the gateway and the
// conformance harness: the inbound request, the provider payload, and the result document.
package analysis

import (
	"errors"
	"strings"
)

var ErrMissingParameters = errors.New("missing required parameters")

// Request is one analysis ask: a handle and an inclusive date range (YYYY-MM-DD).
type Request struct {
	Handle   string
	FromDate string
	ToDate   string
}

// Validate reports ErrMissingParameters when any field is empty. A handle made only of
// "@" characters counts as empty.
func (r Request) Validate() error {
	if NormalizeHandle(r.Handle) == "" || strings.TrimSpace(r.FromDate) == "" || strings.TrimSpace(r.ToDate) == "" {
		return ErrMissingParameters
	}
	return nil
}

// Normalized returns a copy with the handle normalized and dates trimmed.
func (r Request) Normalized() Request {
	return Request{
		Handle:   NormalizeHandle(r.Handle),
		FromDate: strings.TrimSpace(r.FromDate),
		ToDate:   strings.TrimSpace(r.ToDate),
	}
}

// NormalizeHandle strips surrounding whitespace and every leading "@".
func NormalizeHandle(handle string) string {
	return strings.TrimLeft(strings.TrimSpace(handle), "@")
}
