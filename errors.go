package main

import "fmt"

// AuthError means credentials or OAuth configuration are wrong. It is fatal:
// the run aborts, since retrying with the same credentials cannot succeed.
type AuthError struct {
	Service string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Service, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError covers transient network/API failures. During reconciliation
// it is isolated to the current assignment; during fetch it aborts the run.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError is returned by calendar operations addressing an event or
// calendar that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// DataError marks a malformed record coming out of Pronote. The record is
// skipped with a warning; the run continues.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string { return e.Reason }
