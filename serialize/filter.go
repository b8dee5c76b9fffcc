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

package serialize

import (
	"strconv"
	"strings"

	"go.uber.org/mgmtrpc/mgmterrors"
)

const _maxDepthKey = "maxdepth="

// Filter decides which value types may be decoded. It is configured from a
// pattern list such as
//
//	maxdepth=8;string;int*;mgmt.*;!*
//
// Patterns are separated by ';'. A pattern starting with '!' rejects the
// types it matches, otherwise it allows them. A trailing '*' matches any
// type name with that prefix. The first matching pattern decides; a type no
// pattern matches is allowed. "maxdepth=N" bounds the nesting of maps and
// lists.
//
// A nil *Filter allows everything.
type Filter struct {
	rules    []filterRule
	maxDepth int
	patterns string
}

type filterRule struct {
	pattern string
	prefix  bool
	reject  bool
}

func (r filterRule) matches(typeName string) bool {
	if r.prefix {
		return strings.HasPrefix(typeName, r.pattern)
	}
	return typeName == r.pattern
}

// ParseFilter parses a filter pattern list. An empty list returns a nil
// Filter.
func ParseFilter(patterns string) (*Filter, error) {
	patterns = strings.TrimSpace(patterns)
	if patterns == "" {
		return nil, nil
	}

	f := &Filter{patterns: patterns}
	for _, part := range strings.Split(patterns, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, _maxDepthKey) {
			n, err := strconv.Atoi(strings.TrimPrefix(part, _maxDepthKey))
			if err != nil || n < 0 {
				return nil, mgmterrors.MalformedInputErrorf("invalid serial filter limit %q", part)
			}
			f.maxDepth = n
			continue
		}

		var r filterRule
		if strings.HasPrefix(part, "!") {
			r.reject = true
			part = part[1:]
		}
		if strings.HasSuffix(part, "*") {
			r.prefix = true
			part = strings.TrimSuffix(part, "*")
		}
		if part == "" && !r.prefix {
			return nil, mgmterrors.MalformedInputErrorf("empty serial filter pattern in %q", patterns)
		}
		r.pattern = part
		f.rules = append(f.rules, r)
	}
	return f, nil
}

// Allowed reports whether values of the named type may be decoded.
func (f *Filter) Allowed(typeName string) bool {
	if f == nil {
		return true
	}
	for _, r := range f.rules {
		if r.matches(typeName) {
			return !r.reject
		}
	}
	return true
}

// MaxDepth returns the nesting limit, or 0 if there is none.
func (f *Filter) MaxDepth() int {
	if f == nil {
		return 0
	}
	return f.maxDepth
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.patterns
}
