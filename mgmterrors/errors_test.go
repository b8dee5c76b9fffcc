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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_codeToErrorConstructor = map[Code]func(string, ...interface{}) error{
		CodeUnknown:            UnknownErrorf,
		CodeNotFound:           NotFoundErrorf,
		CodeAlreadyExists:      AlreadyExistsErrorf,
		CodeRegistrationFailed: RegistrationFailedErrorf,
		CodeInvocationFailed:   InvocationFailedErrorf,
		CodeNotCompliant:       NotCompliantErrorf,
		CodeReflectionFailed:   ReflectionFailedErrorf,
		CodeAttributeNotFound:  AttributeNotFoundErrorf,
		CodeInvalidValue:       InvalidValueErrorf,
		CodeListenerNotFound:   ListenerNotFoundErrorf,
		CodeSecurity:           SecurityErrorf,
		CodeCommunication:      CommunicationErrorf,
		CodeNoSuchObject:       NoSuchObjectErrorf,
		CodeServerFatal:        ServerFatalErrorf,
		CodeIllegalState:       IllegalStateErrorf,
		CodeMalformedInput:     MalformedInputErrorf,
		CodeClosed:             ClosedErrorf,
		CodeRefused:            RefusedErrorf,
	}
	_codeToIsErrorWithCode = map[Code]func(error) bool{
		CodeUnknown:            IsUnknown,
		CodeNotFound:           IsNotFound,
		CodeAlreadyExists:      IsAlreadyExists,
		CodeRegistrationFailed: IsRegistrationFailed,
		CodeInvocationFailed:   IsInvocationFailed,
		CodeNotCompliant:       IsNotCompliant,
		CodeReflectionFailed:   IsReflectionFailed,
		CodeAttributeNotFound:  IsAttributeNotFound,
		CodeInvalidValue:       IsInvalidValue,
		CodeListenerNotFound:   IsListenerNotFound,
		CodeSecurity:           IsSecurity,
		CodeCommunication:      IsCommunication,
		CodeNoSuchObject:       IsNoSuchObject,
		CodeServerFatal:        IsServerFatal,
		CodeIllegalState:       IsIllegalState,
		CodeMalformedInput:     IsMalformedInput,
		CodeClosed:             IsClosed,
		CodeRefused:            IsRefused,
	}
)

func TestErrorsString(t *testing.T) {
	for code, errorConstructor := range _codeToErrorConstructor {
		t.Run(code.String(), func(t *testing.T) {
			status, ok := errorConstructor("hello %d", 1).(*Status)
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("code:%s message:hello 1", code.String()), status.Error())
			assert.Equal(t, code, status.Code())
			assert.Equal(t, "hello 1", status.Message())
		})
	}
}

func TestIsErrorWithCode(t *testing.T) {
	for code, errorConstructor := range _codeToErrorConstructor {
		t.Run(code.String(), func(t *testing.T) {
			err := errorConstructor("hello")
			assert.True(t, _codeToIsErrorWithCode[code](err))
			assert.True(t, _codeToIsErrorWithCode[code](fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestIsCommunicationIncludesNoSuchObject(t *testing.T) {
	assert.True(t, IsCommunication(NoSuchObjectErrorf("gone")))
	assert.False(t, IsNoSuchObject(CommunicationErrorf("broken pipe")))
	assert.False(t, IsCommunication(NotFoundErrorf("missing")))
	assert.False(t, IsCommunication(nil))
}

func TestNewfOK(t *testing.T) {
	assert.Nil(t, Newf(CodeOK, "hello"))
	assert.Nil(t, Wrapf(CodeOK, errors.New("cause"), "hello"))
	assert.Nil(t, FromWire(CodeOK, "", "hello", nil))
}

func TestFromError(t *testing.T) {
	tests := []struct {
		desc      string
		give      error
		wantCode  Code
		wantMsg   string
		wantCause string
	}{
		{
			desc:     "nil",
			wantCode: CodeOK,
		},
		{
			desc:     "status",
			give:     NotFoundErrorf("foo"),
			wantCode: CodeNotFound,
			wantMsg:  "foo",
		},
		{
			desc:     "wrapped status",
			give:     fmt.Errorf("outer: %w", InvalidValueErrorf("bad value")),
			wantCode: CodeInvalidValue,
			wantMsg:  "bad value",
		},
		{
			desc:     "plain error",
			give:     errors.New("boom"),
			wantCode: CodeUnknown,
			wantMsg:  "boom",
		},
		{
			desc:      "plain error with cause",
			give:      fmt.Errorf("outer: %w", errors.New("inner")),
			wantCode:  CodeUnknown,
			wantMsg:   "outer: inner",
			wantCause: "inner",
		},
		{
			desc:     "mgmt error",
			give:     customError{},
			wantCode: CodeSecurity,
			wantMsg:  "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			st := FromError(tt.give)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
			if tt.wantCause != "" {
				assert.Equal(t, []string{tt.wantCause}, st.Causes())
			}
		})
	}
}

type customError struct{}

func (customError) Error() string { return "custom" }

func (customError) MgmtError() *Status { return Newf(CodeSecurity, "custom") }

func TestIsStatus(t *testing.T) {
	assert.False(t, IsStatus(nil))
	assert.False(t, IsStatus(errors.New("foo")))
	assert.True(t, IsStatus(ClosedErrorf("closed")))
	assert.True(t, IsStatus(customError{}))
}

func TestWrapfKeepsCause(t *testing.T) {
	cause := AttributeNotFoundErrorf("no attribute Foo")
	err := Wrapf(CodeCommunication, cause, "call failed")

	assert.True(t, IsCommunication(err))
	assert.True(t, errors.Is(err, cause))

	var inner *Status
	require.True(t, errors.As(err.Cause(), &inner))
	assert.Equal(t, CodeAttributeNotFound, inner.Code())
	assert.Equal(t, []string{"code:attribute-not-found message:no attribute Foo"}, err.Causes())
}

func TestWrapfTruncatesCauseChain(t *testing.T) {
	var cause error = errors.New("root")
	for i := 0; i < 2*MaxCauseDepth; i++ {
		if i%2 == 0 {
			cause = Wrapf(CodeInvocationFailed, cause, "level %d", i)
		} else {
			cause = fmt.Errorf("level %d: %w", i, cause)
		}
	}

	err := Wrapf(CodeCommunication, cause, "top")
	causes := err.Causes()
	require.Len(t, causes, MaxCauseDepth)

	depth := 0
	for e := err.Unwrap(); e != nil; e = errors.Unwrap(e) {
		depth++
	}
	assert.Equal(t, MaxCauseDepth, depth)

	var st *Status
	require.True(t, errors.As(err.Unwrap(), &st), "Status entries survive truncation")
	assert.Equal(t, CodeInvocationFailed, st.Code())
}

func TestFromWire(t *testing.T) {
	causes := make([]string, MaxCauseDepth+3)
	for i := range causes {
		causes[i] = fmt.Sprintf("cause %d", i)
	}

	st := FromWire(CodeInvocationFailed, "app.Error", "failed", causes)
	assert.Equal(t, CodeInvocationFailed, st.Code())
	assert.Equal(t, "app.Error", st.Name())
	assert.Equal(t, causes[:MaxCauseDepth], st.Causes())

	st = FromWire(Code(1000), "", "from the future", nil)
	assert.Equal(t, CodeUnknown, st.Code())
}

func TestWithNameAndDetails(t *testing.T) {
	st := Newf(CodeInvalidValue, "bad").WithName("range").WithDetails([]byte("x"))
	assert.Equal(t, "code:invalid-value name:range message:bad", st.Error())
	assert.Equal(t, []byte("x"), st.Details())
	assert.Nil(t, st.WithDetails(nil).Details())

	var nilStatus *Status
	assert.Nil(t, nilStatus.WithName("foo"))
	assert.Nil(t, nilStatus.WithDetails([]byte("foo")))
	assert.Equal(t, CodeOK, nilStatus.Code())
	assert.Equal(t, "", nilStatus.Message())
	assert.Nil(t, nilStatus.Causes())
}

func TestDeclared(t *testing.T) {
	declared := []Code{
		CodeNotFound, CodeAlreadyExists, CodeRegistrationFailed, CodeInvocationFailed,
		CodeNotCompliant, CodeReflectionFailed, CodeAttributeNotFound, CodeInvalidValue,
		CodeListenerNotFound, CodeSecurity, CodeMalformedInput,
	}
	for _, code := range declared {
		assert.True(t, code.Declared(), code.String())
	}
	for _, code := range []Code{CodeOK, CodeUnknown, CodeCommunication, CodeNoSuchObject, CodeServerFatal, CodeClosed, CodeRefused, CodeIllegalState} {
		assert.False(t, code.Declared(), code.String())
	}
	assert.True(t, IsDeclared(fmt.Errorf("wrapped: %w", NotFoundErrorf("x"))))
	assert.False(t, IsDeclared(Wrapf(CodeCommunication, NotFoundErrorf("x"), "y")))
}
