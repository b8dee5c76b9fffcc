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

package client

import (
	"context"
	"net/url"

	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/directory/redis"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/zap"
)

// resolve returns the handle to open sessions through: the one the
// Connector was built with, or the one the service URL locates.
func (c *Connector) resolve(ctx context.Context, cfg Config) (connector.RemoteHandle, error) {
	if c.handle != nil {
		if cfg.CheckStub {
			k, ok := c.handle.(connector.Kinded)
			if !ok || k.Kind() != c.expectKind {
				return nil, mgmterrors.SecurityErrorf("handle %T is not a %q handle", c.handle, c.expectKind)
			}
		}
		return c.handle, nil
	}

	u, err := connector.ParseServiceURL(c.url)
	if err != nil {
		return nil, err
	}

	var ref connector.Reference
	switch u.Form {
	case connector.DirectForm:
		ref = connector.Reference{
			Kind:    connector.HandleKind,
			Address: u.HandleAddress(),
			Object:  connector.HandleObjectID,
		}
	case connector.StubForm:
		if ref, err = connector.DecodeReference(u.Value); err != nil {
			return nil, err
		}
	case connector.DirectoryForm:
		if ref, err = c.lookup(ctx, cfg, u.Value); err != nil {
			return nil, err
		}
	}

	if cfg.CheckStub {
		if err := checkReference(ref, u.Protocol, c.expectKind); err != nil {
			return nil, err
		}
	}

	out, err := c.outboundFor(ref.Address)
	if err != nil {
		return nil, err
	}
	return newHandleStub(ref, out, c.registry.WithFilter(cfg.filter)), nil
}

func (c *Connector) lookup(ctx context.Context, cfg Config, name string) (connector.Reference, error) {
	dir := c.dir
	if dir == nil {
		if len(cfg.DirectoryProperties) == 0 {
			return connector.Reference{}, mgmterrors.IllegalStateErrorf("looking up %q requires a directory or %s", name, AttrDirectoryProperties)
		}
		rd, err := redis.NewFromProperties(ctx, cfg.DirectoryProperties)
		if err != nil {
			return connector.Reference{}, err
		}
		defer rd.Close()
		dir = rd
	}
	encoded, err := dir.Lookup(ctx, name)
	if err != nil {
		return connector.Reference{}, err
	}
	return connector.DecodeReference(encoded)
}

// checkReference verifies that ref names a handle of the expected kind
// reachable over protocol.
func checkReference(ref connector.Reference, protocol, kind string) error {
	if ref.Kind != kind {
		return mgmterrors.SecurityErrorf("reference is a %q, not a %q", ref.Kind, kind)
	}
	u, err := url.Parse(ref.Address)
	if err != nil {
		return mgmterrors.Wrapf(mgmterrors.CodeSecurity, err, "reference address %q is invalid", ref.Address)
	}
	if u.Scheme != protocol {
		return mgmterrors.SecurityErrorf("reference address %q does not use %q", ref.Address, protocol)
	}
	return nil
}

// outboundFor returns an outbound to address, replacing the current one if
// it dials elsewhere.
func (c *Connector) outboundFor(address string) (transport.Outbound, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid handle address %q", address)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, mgmterrors.MalformedInputErrorf("unsupported protocol %q", u.Scheme)
	}

	c.outMu.Lock()
	defer c.outMu.Unlock()
	if c.outbound != nil {
		if c.outbound.Address() == address {
			return c.outbound, nil
		}
		if err := c.outbound.Stop(); err != nil {
			c.logger.Warn("failed to stop outbound", zap.String("address", c.outbound.Address()), zap.Error(err))
		}
		c.outbound = nil
	}
	out := c.transport.NewOutbound(address)
	if err := out.Start(); err != nil {
		return nil, err
	}
	c.outbound = out
	return out, nil
}
