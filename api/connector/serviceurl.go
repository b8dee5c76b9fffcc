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

package connector

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/mgmtrpc/mgmterrors"
)

const (
	_serviceScheme = "service:mgmt:"
	_stubPrefix    = "/stub/"
	_dirPrefix     = "/directory/"

	// EndpointPath is the HTTP path a websocket inbound accepts
	// connections on.
	EndpointPath = "/mgmtrpc"
)

// AddressForm says how a ServiceURL locates its handle.
type AddressForm int

const (
	// DirectForm addresses the handle exported under HandleObjectID at
	// the URL's host.
	DirectForm AddressForm = iota + 1
	// StubForm carries an encoded Reference in the path.
	StubForm
	// DirectoryForm names a directory binding to look the Reference up in.
	DirectoryForm
)

// ServiceURL is the address of a connector server:
//
//	service:mgmt:ws://host:port
//	service:mgmt:ws://host:port/stub/<base64 reference>
//	service:mgmt:ws:///directory/<name>
type ServiceURL struct {
	Protocol string
	Host     string
	Form     AddressForm
	// Value is the encoded reference for StubForm and the binding name for
	// DirectoryForm.
	Value string
}

// ParseServiceURL parses a service URL.
func ParseServiceURL(s string) (*ServiceURL, error) {
	if !strings.HasPrefix(s, _serviceScheme) {
		return nil, mgmterrors.MalformedInputErrorf("service URL %q must start with %q", s, _serviceScheme)
	}
	u, err := url.Parse(strings.TrimPrefix(s, _serviceScheme))
	if err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid service URL %q", s)
	}
	if u.Scheme == "" {
		return nil, mgmterrors.MalformedInputErrorf("service URL %q has no protocol", s)
	}

	su := &ServiceURL{Protocol: u.Scheme, Host: u.Host}
	switch p := u.Path; {
	case p == "" || p == "/":
		if su.Host == "" {
			return nil, mgmterrors.MalformedInputErrorf("service URL %q has no host", s)
		}
		su.Form = DirectForm
	case strings.HasPrefix(p, _stubPrefix):
		su.Form = StubForm
		su.Value = strings.TrimPrefix(p, _stubPrefix)
	case strings.HasPrefix(p, _dirPrefix):
		su.Form = DirectoryForm
		su.Value = strings.TrimPrefix(p, _dirPrefix)
	default:
		return nil, mgmterrors.MalformedInputErrorf("service URL %q has an unsupported path %q", s, p)
	}
	if su.Form != DirectForm && su.Value == "" {
		return nil, mgmterrors.MalformedInputErrorf("service URL %q has an empty %s", s, strings.Trim(pathPrefix(su.Form), "/"))
	}
	return su, nil
}

// HandleAddress returns the transport address of the handle for DirectForm
// URLs.
func (u *ServiceURL) HandleAddress() string {
	return u.Protocol + "://" + u.Host + EndpointPath
}

func (u *ServiceURL) String() string {
	return fmt.Sprintf("%s%s://%s%s%s", _serviceScheme, u.Protocol, u.Host, pathPrefix(u.Form), u.Value)
}

// StubURL returns the service URL that embeds ref.
func StubURL(protocol, host string, ref Reference) string {
	return (&ServiceURL{Protocol: protocol, Host: host, Form: StubForm, Value: ref.Encode()}).String()
}

func pathPrefix(f AddressForm) string {
	switch f {
	case StubForm:
		return _stubPrefix
	case DirectoryForm:
		return _dirPrefix
	}
	return ""
}
