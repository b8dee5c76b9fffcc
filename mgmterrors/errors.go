// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package mgmterrors

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxCauseDepth bounds the number of causes a Status carries. Causes beyond
// this depth are dropped when wrapping and when decoding from the wire.
const MaxCauseDepth = 8

// Newf returns a new Status.
//
// The Code should never be CodeOK, if it is, this will return nil.
func Newf(code Code, format string, args ...interface{}) *Status {
	if code == CodeOK {
		return nil
	}
	return &Status{
		code:    code,
		message: sprintf(format, args...),
	}
}

// Wrapf returns a new Status with the given code that carries cause as the
// first entry of its cause chain.
//
// The chain is truncated to MaxCauseDepth entries.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Status {
	st := Newf(code, format, args...)
	if st == nil {
		return nil
	}
	st.cause = truncate(cause, MaxCauseDepth)
	return st
}

// FromWire rebuilds a Status received from a peer. Causes are only
// available as messages on the receiving side.
func FromWire(code Code, name, message string, causes []string) *Status {
	if code == CodeOK {
		return nil
	}
	if _, ok := _codeToString[code]; !ok {
		code = CodeUnknown
	}
	if len(causes) > MaxCauseDepth {
		causes = causes[:MaxCauseDepth]
	}
	var cause error
	for i := len(causes) - 1; i >= 0; i-- {
		cause = &causeError{msg: causes[i], next: cause}
	}
	return &Status{
		code:    code,
		name:    name,
		message: message,
		cause:   cause,
	}
}

type mgmtError interface {
	MgmtError() *Status
}

// FromError returns the Status for the provided error.
//
// If the error:
//   - is nil, return nil
//   - is a 'Status', return the outermost 'Status'
//   - has a 'MgmtError() *Status' method, returns the 'Status'
//
// Otherwise, return a Status with code 'CodeUnknown' wrapping the error.
func FromError(err error) *Status {
	if err == nil {
		return nil
	}
	if st, ok := fromError(err); ok {
		return st
	}
	return &Status{
		code:    CodeUnknown,
		message: err.Error(),
		cause:   truncate(errors.Unwrap(err), MaxCauseDepth),
	}
}

func fromError(err error) (st *Status, ok bool) {
	if errors.As(err, &st) {
		return st, true
	}
	var merr mgmtError
	if errors.As(err, &merr) {
		return merr.MgmtError(), true
	}
	return nil, false
}

// IsStatus returns whether the provided error is a management error, or has
// a MgmtError() function to represent it as one. This includes wrapped
// errors.
//
// This is false if the error is nil.
func IsStatus(err error) bool {
	_, ok := fromError(err)
	return ok
}

// CodeOf returns FromError(err).Code().
func CodeOf(err error) Code {
	return FromError(err).Code()
}

// Status represents a management error.
type Status struct {
	code    Code
	name    string
	message string
	cause   error
	details []byte
}

// WithName returns a new Status with the given name.
//
// The name identifies an application-specific failure inside one of the
// declared codes.
func (s *Status) WithName(name string) *Status {
	if s == nil {
		return nil
	}
	return &Status{
		code:    s.code,
		name:    name,
		message: s.message,
		cause:   s.cause,
		details: s.details,
	}
}

// WithDetails returns a new status with the given details bytes.
func (s *Status) WithDetails(details []byte) *Status {
	if s == nil {
		return nil
	}
	if len(details) == 0 {
		details = nil
	}
	return &Status{
		code:    s.code,
		name:    s.name,
		message: s.message,
		cause:   s.cause,
		details: details,
	}
}

// Code returns the error code for this Status.
func (s *Status) Code() Code {
	if s == nil {
		return CodeOK
	}
	return s.code
}

// Name returns the name of the error for this Status.
func (s *Status) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Message returns the error message for this Status.
func (s *Status) Message() string {
	if s == nil {
		return ""
	}
	return s.message
}

// Details returns the error details for this Status.
func (s *Status) Details() []byte {
	if s == nil {
		return nil
	}
	return s.details
}

// Cause returns the immediate cause of this Status, or nil.
func (s *Status) Cause() error {
	if s == nil {
		return nil
	}
	return s.cause
}

// Causes returns the messages of the cause chain, outermost first.
func (s *Status) Causes() []string {
	if s == nil {
		return nil
	}
	var out []string
	for err := s.cause; err != nil && len(out) < MaxCauseDepth; err = errors.Unwrap(err) {
		out = append(out, err.Error())
	}
	return out
}

// Unwrap supports errors.Unwrap.
func (s *Status) Unwrap() error {
	if s == nil {
		return nil
	}
	return s.cause
}

// Error implements the error interface.
func (s *Status) Error() string {
	buffer := bytes.NewBuffer(nil)
	_, _ = buffer.WriteString(`code:`)
	_, _ = buffer.WriteString(s.code.String())
	if s.name != "" {
		_, _ = buffer.WriteString(` name:`)
		_, _ = buffer.WriteString(s.name)
	}
	if s.message != "" {
		_, _ = buffer.WriteString(` message:`)
		_, _ = buffer.WriteString(s.message)
	}
	return buffer.String()
}

// causeError is a cause that only survives as a message, either because it
// crossed the wire or because its chain had to be cut.
type causeError struct {
	msg  string
	next error
}

func (e *causeError) Error() string { return e.msg }

func (e *causeError) Unwrap() error { return e.next }

// truncate returns err unchanged when its chain fits in depth entries.
// Longer chains are rebuilt: Status entries keep their code and name, other
// entries keep only their message.
func truncate(err error, depth int) error {
	if err == nil {
		return nil
	}
	chain := make([]error, 0, depth)
	for e := err; e != nil; e = errors.Unwrap(e) {
		if len(chain) == depth {
			return rebuild(chain)
		}
		chain = append(chain, e)
	}
	return err
}

func rebuild(chain []error) error {
	var next error
	for i := len(chain) - 1; i >= 0; i-- {
		if st, ok := chain[i].(*Status); ok && st != nil {
			next = &Status{code: st.code, name: st.name, message: st.message, cause: next, details: st.details}
			continue
		}
		next = &causeError{msg: chain[i].Error(), next: next}
	}
	return next
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// UnknownErrorf returns a new Status with code CodeUnknown
// by calling Newf(CodeUnknown, format, args...).
func UnknownErrorf(format string, args ...interface{}) error {
	return Newf(CodeUnknown, format, args...)
}

// NotFoundErrorf returns a new Status with code CodeNotFound
// by calling Newf(CodeNotFound, format, args...).
func NotFoundErrorf(format string, args ...interface{}) error {
	return Newf(CodeNotFound, format, args...)
}

// AlreadyExistsErrorf returns a new Status with code CodeAlreadyExists
// by calling Newf(CodeAlreadyExists, format, args...).
func AlreadyExistsErrorf(format string, args ...interface{}) error {
	return Newf(CodeAlreadyExists, format, args...)
}

// RegistrationFailedErrorf returns a new Status with code CodeRegistrationFailed
// by calling Newf(CodeRegistrationFailed, format, args...).
func RegistrationFailedErrorf(format string, args ...interface{}) error {
	return Newf(CodeRegistrationFailed, format, args...)
}

// InvocationFailedErrorf returns a new Status with code CodeInvocationFailed
// by calling Newf(CodeInvocationFailed, format, args...).
func InvocationFailedErrorf(format string, args ...interface{}) error {
	return Newf(CodeInvocationFailed, format, args...)
}

// NotCompliantErrorf returns a new Status with code CodeNotCompliant
// by calling Newf(CodeNotCompliant, format, args...).
func NotCompliantErrorf(format string, args ...interface{}) error {
	return Newf(CodeNotCompliant, format, args...)
}

// ReflectionFailedErrorf returns a new Status with code CodeReflectionFailed
// by calling Newf(CodeReflectionFailed, format, args...).
func ReflectionFailedErrorf(format string, args ...interface{}) error {
	return Newf(CodeReflectionFailed, format, args...)
}

// AttributeNotFoundErrorf returns a new Status with code CodeAttributeNotFound
// by calling Newf(CodeAttributeNotFound, format, args...).
func AttributeNotFoundErrorf(format string, args ...interface{}) error {
	return Newf(CodeAttributeNotFound, format, args...)
}

// InvalidValueErrorf returns a new Status with code CodeInvalidValue
// by calling Newf(CodeInvalidValue, format, args...).
func InvalidValueErrorf(format string, args ...interface{}) error {
	return Newf(CodeInvalidValue, format, args...)
}

// ListenerNotFoundErrorf returns a new Status with code CodeListenerNotFound
// by calling Newf(CodeListenerNotFound, format, args...).
func ListenerNotFoundErrorf(format string, args ...interface{}) error {
	return Newf(CodeListenerNotFound, format, args...)
}

// SecurityErrorf returns a new Status with code CodeSecurity
// by calling Newf(CodeSecurity, format, args...).
func SecurityErrorf(format string, args ...interface{}) error {
	return Newf(CodeSecurity, format, args...)
}

// CommunicationErrorf returns a new Status with code CodeCommunication
// by calling Newf(CodeCommunication, format, args...).
func CommunicationErrorf(format string, args ...interface{}) error {
	return Newf(CodeCommunication, format, args...)
}

// NoSuchObjectErrorf returns a new Status with code CodeNoSuchObject
// by calling Newf(CodeNoSuchObject, format, args...).
func NoSuchObjectErrorf(format string, args ...interface{}) error {
	return Newf(CodeNoSuchObject, format, args...)
}

// ServerFatalErrorf returns a new Status with code CodeServerFatal
// by calling Newf(CodeServerFatal, format, args...).
func ServerFatalErrorf(format string, args ...interface{}) error {
	return Newf(CodeServerFatal, format, args...)
}

// IllegalStateErrorf returns a new Status with code CodeIllegalState
// by calling Newf(CodeIllegalState, format, args...).
func IllegalStateErrorf(format string, args ...interface{}) error {
	return Newf(CodeIllegalState, format, args...)
}

// MalformedInputErrorf returns a new Status with code CodeMalformedInput
// by calling Newf(CodeMalformedInput, format, args...).
func MalformedInputErrorf(format string, args ...interface{}) error {
	return Newf(CodeMalformedInput, format, args...)
}

// ClosedErrorf returns a new Status with code CodeClosed
// by calling Newf(CodeClosed, format, args...).
func ClosedErrorf(format string, args ...interface{}) error {
	return Newf(CodeClosed, format, args...)
}

// RefusedErrorf returns a new Status with code CodeRefused
// by calling Newf(CodeRefused, format, args...).
func RefusedErrorf(format string, args ...interface{}) error {
	return Newf(CodeRefused, format, args...)
}

// IsUnknown returns true if FromError(err).Code() == CodeUnknown.
func IsUnknown(err error) bool {
	return FromError(err).Code() == CodeUnknown
}

// IsNotFound returns true if FromError(err).Code() == CodeNotFound.
func IsNotFound(err error) bool {
	return FromError(err).Code() == CodeNotFound
}

// IsAlreadyExists returns true if FromError(err).Code() == CodeAlreadyExists.
func IsAlreadyExists(err error) bool {
	return FromError(err).Code() == CodeAlreadyExists
}

// IsRegistrationFailed returns true if FromError(err).Code() == CodeRegistrationFailed.
func IsRegistrationFailed(err error) bool {
	return FromError(err).Code() == CodeRegistrationFailed
}

// IsInvocationFailed returns true if FromError(err).Code() == CodeInvocationFailed.
func IsInvocationFailed(err error) bool {
	return FromError(err).Code() == CodeInvocationFailed
}

// IsNotCompliant returns true if FromError(err).Code() == CodeNotCompliant.
func IsNotCompliant(err error) bool {
	return FromError(err).Code() == CodeNotCompliant
}

// IsReflectionFailed returns true if FromError(err).Code() == CodeReflectionFailed.
func IsReflectionFailed(err error) bool {
	return FromError(err).Code() == CodeReflectionFailed
}

// IsAttributeNotFound returns true if FromError(err).Code() == CodeAttributeNotFound.
func IsAttributeNotFound(err error) bool {
	return FromError(err).Code() == CodeAttributeNotFound
}

// IsInvalidValue returns true if FromError(err).Code() == CodeInvalidValue.
func IsInvalidValue(err error) bool {
	return FromError(err).Code() == CodeInvalidValue
}

// IsListenerNotFound returns true if FromError(err).Code() == CodeListenerNotFound.
func IsListenerNotFound(err error) bool {
	return FromError(err).Code() == CodeListenerNotFound
}

// IsSecurity returns true if FromError(err).Code() == CodeSecurity.
func IsSecurity(err error) bool {
	return FromError(err).Code() == CodeSecurity
}

// IsCommunication returns true if the error is a transport-level failure:
// CodeCommunication or its subtype CodeNoSuchObject.
func IsCommunication(err error) bool {
	switch FromError(err).Code() {
	case CodeCommunication, CodeNoSuchObject:
		return true
	}
	return false
}

// IsNoSuchObject returns true if FromError(err).Code() == CodeNoSuchObject.
func IsNoSuchObject(err error) bool {
	return FromError(err).Code() == CodeNoSuchObject
}

// IsServerFatal returns true if FromError(err).Code() == CodeServerFatal.
func IsServerFatal(err error) bool {
	return FromError(err).Code() == CodeServerFatal
}

// IsIllegalState returns true if FromError(err).Code() == CodeIllegalState.
func IsIllegalState(err error) bool {
	return FromError(err).Code() == CodeIllegalState
}

// IsMalformedInput returns true if FromError(err).Code() == CodeMalformedInput.
func IsMalformedInput(err error) bool {
	return FromError(err).Code() == CodeMalformedInput
}

// IsClosed returns true if FromError(err).Code() == CodeClosed.
func IsClosed(err error) bool {
	return FromError(err).Code() == CodeClosed
}

// IsRefused returns true if FromError(err).Code() == CodeRefused.
func IsRefused(err error) bool {
	return FromError(err).Code() == CodeRefused
}

// IsDeclared returns true if the error's code is one a management operation
// may raise on its own account. See Code.Declared.
func IsDeclared(err error) bool {
	return FromError(err).Code().Declared()
}
