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
	"fmt"
	"strconv"
	"strings"
)

const (
	// CodeOK means no error; returned on success
	CodeOK Code = 0

	// CodeUnknown means an error that carries no further classification.
	// Errors decoded from a peer that speaks a newer code table are mapped
	// to this code.
	CodeUnknown Code = 1

	// CodeNotFound means the target resource is not registered with the
	// management backend.
	CodeNotFound Code = 2

	// CodeAlreadyExists means a resource with the requested name is already
	// registered, or a directory name is already bound.
	CodeAlreadyExists Code = 3

	// CodeRegistrationFailed means the backend refused to register or
	// unregister a resource.
	CodeRegistrationFailed Code = 4

	// CodeInvocationFailed means the resource itself raised an error while
	// executing an attribute access or an operation.
	CodeInvocationFailed Code = 5

	// CodeNotCompliant means the object offered as a resource does not
	// satisfy the backend's resource contract.
	CodeNotCompliant Code = 6

	// CodeReflectionFailed means the backend could not locate or call the
	// requested class, constructor or operation.
	CodeReflectionFailed Code = 7

	// CodeAttributeNotFound means the resource has no attribute with the
	// requested name.
	CodeAttributeNotFound Code = 8

	// CodeInvalidValue means a value offered for an attribute was rejected.
	CodeInvalidValue Code = 9

	// CodeListenerNotFound means no notification listener matched a removal
	// request.
	CodeListenerNotFound Code = 10

	// CodeSecurity means authentication failed, the caller is not allowed to
	// perform the operation, or identity delegation was requested on an
	// unauthenticated connection.
	CodeSecurity Code = 11

	// CodeCommunication means the call could not be completed because of a
	// transport failure, or the server failed in a way that is not part of
	// the operation's declared errors.
	CodeCommunication Code = 12

	// CodeNoSuchObject means the remote object addressed by a call is no
	// longer exported. Clients treat this as a reason to reconnect.
	CodeNoSuchObject Code = 13

	// CodeServerFatal means the backend crashed with an unrecoverable
	// failure while executing the call.
	CodeServerFatal Code = 14

	// CodeIllegalState means the operation was invoked before the required
	// setup, or after a permanent shutdown.
	CodeIllegalState Code = 15

	// CodeMalformedInput means an argument was missing or invalid.
	CodeMalformedInput Code = 16

	// CodeClosed means the connection or session has been closed.
	CodeClosed Code = 17

	// CodeRefused means the server accepted and then rejected the
	// connection before it was handed to the client.
	CodeRefused Code = 18
)

var (
	_codeToString = map[Code]string{
		CodeOK:                 "ok",
		CodeUnknown:            "unknown",
		CodeNotFound:           "not-found",
		CodeAlreadyExists:      "already-exists",
		CodeRegistrationFailed: "registration-failed",
		CodeInvocationFailed:   "invocation-failed",
		CodeNotCompliant:       "not-compliant",
		CodeReflectionFailed:   "reflection-failed",
		CodeAttributeNotFound:  "attribute-not-found",
		CodeInvalidValue:       "invalid-value",
		CodeListenerNotFound:   "listener-not-found",
		CodeSecurity:           "security",
		CodeCommunication:      "communication",
		CodeNoSuchObject:       "no-such-object",
		CodeServerFatal:        "server-fatal",
		CodeIllegalState:       "illegal-state",
		CodeMalformedInput:     "malformed-input",
		CodeClosed:             "closed",
		CodeRefused:            "refused",
	}
	_stringToCode = map[string]Code{
		"ok":                  CodeOK,
		"unknown":             CodeUnknown,
		"not-found":           CodeNotFound,
		"already-exists":      CodeAlreadyExists,
		"registration-failed": CodeRegistrationFailed,
		"invocation-failed":   CodeInvocationFailed,
		"not-compliant":       CodeNotCompliant,
		"reflection-failed":   CodeReflectionFailed,
		"attribute-not-found": CodeAttributeNotFound,
		"invalid-value":       CodeInvalidValue,
		"listener-not-found":  CodeListenerNotFound,
		"security":            CodeSecurity,
		"communication":       CodeCommunication,
		"no-such-object":      CodeNoSuchObject,
		"server-fatal":        CodeServerFatal,
		"illegal-state":       CodeIllegalState,
		"malformed-input":     CodeMalformedInput,
		"closed":              CodeClosed,
		"refused":             CodeRefused,
	}
)

// Code represents the type of error for a management call.
type Code int

// String returns the the string representation of the Code.
func (c Code) String() string {
	s, ok := _codeToString[c]
	if ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// Declared reports whether errors with this code belong to the set a
// management operation may raise on its own account. Declared errors pass
// through the connector untouched; everything else is reported as a
// communication failure.
func (c Code) Declared() bool {
	switch c {
	case CodeNotFound,
		CodeAlreadyExists,
		CodeRegistrationFailed,
		CodeInvocationFailed,
		CodeNotCompliant,
		CodeReflectionFailed,
		CodeAttributeNotFound,
		CodeInvalidValue,
		CodeListenerNotFound,
		CodeSecurity,
		CodeMalformedInput:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	s, ok := _codeToString[c]
	if ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown code: %d", int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	i, ok := _stringToCode[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("unknown code string: %s", string(text))
	}
	*c = i
	return nil
}
