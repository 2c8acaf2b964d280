// wxnote - WeChat to Notion note relay
// License: MIT
//
// Copyright (c) 2026 wxnote contributors

package relay

import "fmt"

// ErrorKind classifies which stage of a content request failed. It is logged
// for operators and never shown to the user.
type ErrorKind string

const (
	KindMalformedInbound ErrorKind = "malformed_inbound"
	KindEnrichment       ErrorKind = "enrichment_failure"
	KindPersistence      ErrorKind = "persistence_failure"
)

// StageError is the single error type the handler logs for a failed request.
// Kind names the failing stage; Err keeps the underlying cause.
type StageError struct {
	Kind ErrorKind
	Err  error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
