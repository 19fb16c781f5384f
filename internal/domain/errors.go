package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrWrongArity  = errors.New("wrong field count")
	ErrBadNumber   = errors.New("unparsable number")
	ErrUnknownKind = errors.New("unknown record kind")
)

// RecordError reports a malformed topology or stream record. It is fatal to
// the load phase that encountered it.
type RecordError struct {
	Index  int
	Record []string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d [%s]: %v", e.Index, strings.Join(e.Record, ","), e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// UnknownNodeError reports a stream that references an undeclared node
type UnknownNodeError struct {
	Stream string
	Node   string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("stream %s: unknown node %q", e.Stream, e.Node)
}

// ValidationError reports an out-of-range stream attribute
type ValidationError struct {
	Stream string
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stream %s: %s %v %s", e.Stream, e.Field, e.Value, e.Reason)
}
