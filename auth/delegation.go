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

package auth

import (
	"context"
	"os"
	"strings"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/mgmterrors"
	"gopkg.in/yaml.v2"
)

var _ auth.AccessController = (*DelegationFile)(nil)

// DelegationFile is an AccessController configured by a YAML map from a
// principal to the principals it may act as:
//
//	user:alice:
//	  - user:bob
//	  - role:*
//	role:admin:
//	  - "*"
//
// A "kind:*" entry allows every principal of that kind and "*" allows every
// principal. A delegated subject is allowed when each of its principals is
// held by, or delegatable from, the authenticated subject.
type DelegationFile struct {
	rules map[string][]string
}

// NewDelegationFile loads the delegation file at path.
func NewDelegationFile(path string) (*DelegationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeIllegalState, err, "cannot read delegation file %q", path)
	}
	return ParseDelegationFile(data)
}

// ParseDelegationFile builds a DelegationFile from its contents.
func ParseDelegationFile(data []byte) (*DelegationFile, error) {
	rules := make(map[string][]string)
	if err := yaml.UnmarshalStrict(data, &rules); err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid delegation file")
	}
	for from := range rules {
		if !strings.Contains(from, ":") {
			return nil, mgmterrors.MalformedInputErrorf("delegation file principal %q must have the form kind:name", from)
		}
	}
	return &DelegationFile{rules: rules}, nil
}

// CheckDelegation implements auth.AccessController.
func (d *DelegationFile) CheckDelegation(ctx context.Context, authenticated, delegated *auth.Subject) error {
	if authenticated == nil {
		return mgmterrors.SecurityErrorf("delegation requires an authenticated subject")
	}
	if delegated == nil {
		return nil
	}
	for _, p := range delegated.Principals {
		if !d.allowed(authenticated, p) {
			return mgmterrors.SecurityErrorf("subject %v may not act as %v", authenticated, p)
		}
	}
	return nil
}

func (d *DelegationFile) allowed(authenticated *auth.Subject, p auth.Principal) bool {
	if authenticated.Has(p) {
		return true
	}
	for _, from := range authenticated.Principals {
		for _, to := range d.rules[from.String()] {
			if to == "*" || to == p.String() || to == p.Kind+":*" {
				return true
			}
		}
	}
	return false
}
