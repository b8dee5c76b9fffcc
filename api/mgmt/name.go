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

package mgmt

import (
	"path"
	"sort"
	"strings"

	"go.uber.org/mgmtrpc/mgmterrors"
)

// Name identifies a managed resource. Its canonical form is
//
//	domain:key1=value1,key2=value2
//
// with keys in lexical order. A Name is a pattern when its domain or one of
// its values contains the glob characters '*' or '?', or when its key list
// ends with ",*" (or is just "*"), meaning additional keys are allowed.
//
// Names are comparable and can be used as map keys.
type Name string

const (
	_wildcardKeys = "*"
	_globChars    = "*?"
)

// ParseName validates s and returns its canonical Name.
func ParseName(s string) (Name, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", mgmterrors.MalformedInputErrorf("resource name %q has no domain separator", s)
	}
	domain, rest := s[:idx], s[idx+1:]
	if strings.ContainsAny(domain, "=,\n") {
		return "", mgmterrors.MalformedInputErrorf("resource name %q has an invalid domain", s)
	}
	if rest == "" {
		return "", mgmterrors.MalformedInputErrorf("resource name %q has no key properties", s)
	}

	var (
		keys     []string
		values   = make(map[string]string)
		wildcard bool
	)
	for _, part := range strings.Split(rest, ",") {
		if part == _wildcardKeys {
			if wildcard {
				return "", mgmterrors.MalformedInputErrorf("resource name %q repeats the key wildcard", s)
			}
			wildcard = true
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq <= 0 || eq == len(part)-1 {
			return "", mgmterrors.MalformedInputErrorf("resource name %q has a malformed key property %q", s, part)
		}
		k, v := part[:eq], part[eq+1:]
		if strings.ContainsAny(k, ":=*?") {
			return "", mgmterrors.MalformedInputErrorf("resource name %q has an invalid key %q", s, k)
		}
		if _, dup := values[k]; dup {
			return "", mgmterrors.MalformedInputErrorf("resource name %q repeats key %q", s, k)
		}
		keys = append(keys, k)
		values[k] = v
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(domain)
	b.WriteByte(':')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(values[k])
	}
	if wildcard {
		if len(keys) > 0 {
			b.WriteByte(',')
		}
		b.WriteString(_wildcardKeys)
	}
	return Name(b.String()), nil
}

// MustParseName is like ParseName but panics on malformed input. It is meant
// for names fixed at compile time.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the canonical form of the name.
func (n Name) String() string { return string(n) }

// Domain returns the part of the name before the first ':'.
func (n Name) Domain() string {
	if idx := strings.IndexByte(string(n), ':'); idx >= 0 {
		return string(n)[:idx]
	}
	return ""
}

// Properties returns the key properties of the name, without the wildcard.
func (n Name) Properties() map[string]string {
	props, _ := n.split()
	return props
}

// Property returns the value of the given key property.
func (n Name) Property(key string) (string, bool) {
	v, ok := n.Properties()[key]
	return v, ok
}

// IsPattern reports whether the name matches more than itself.
func (n Name) IsPattern() bool {
	return n.IsDomainPattern() || n.IsPropertyListPattern() || n.IsPropertyValuePattern()
}

// IsDomainPattern reports whether the domain is a glob.
func (n Name) IsDomainPattern() bool {
	return strings.ContainsAny(n.Domain(), _globChars)
}

// IsPropertyListPattern reports whether the name allows keys beyond its own.
func (n Name) IsPropertyListPattern() bool {
	_, wildcard := n.split()
	return wildcard
}

// IsPropertyValuePattern reports whether any value is a glob.
func (n Name) IsPropertyValuePattern() bool {
	props, _ := n.split()
	for _, v := range props {
		if strings.ContainsAny(v, _globChars) {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete name other is selected by n. An
// empty pattern matches everything.
func (n Name) Matches(other Name) bool {
	if n == "" {
		return true
	}
	if !n.IsPattern() {
		return n == other
	}
	if ok, err := path.Match(n.Domain(), other.Domain()); err != nil || !ok {
		return false
	}

	want, wildcard := n.split()
	have, _ := other.split()
	if !wildcard && len(want) != len(have) {
		return false
	}
	for k, v := range want {
		got, ok := have[k]
		if !ok {
			return false
		}
		if !strings.ContainsAny(v, _globChars) {
			if got != v {
				return false
			}
			continue
		}
		if ok, err := path.Match(v, got); err != nil || !ok {
			return false
		}
	}
	return true
}

func (n Name) split() (props map[string]string, wildcard bool) {
	idx := strings.IndexByte(string(n), ':')
	if idx < 0 {
		return nil, false
	}
	props = make(map[string]string)
	for _, part := range strings.Split(string(n)[idx+1:], ",") {
		if part == _wildcardKeys {
			wildcard = true
			continue
		}
		if eq := strings.IndexByte(part, '='); eq > 0 {
			props[part[:eq]] = part[eq+1:]
		}
	}
	return props, wildcard
}
