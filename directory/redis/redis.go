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

// Package redis provides a directory stored in Redis.
package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/mgmtrpc/api/directory"
	"go.uber.org/mgmtrpc/mgmterrors"
)

const (
	_defaultAddr   = "localhost:6379"
	_defaultPrefix = "mgmtrpc:directory:"
)

// Property names read by NewFromProperties.
const (
	AddrProperty     = "redis.addr"
	PasswordProperty = "redis.password"
	DBProperty       = "redis.db"
	PrefixProperty   = "redis.prefix"
)

var _ directory.Directory = (*Directory)(nil)

// Config configures a Redis directory.
type Config struct {
	// Addr like "localhost:6379".
	Addr     string
	Password string
	DB       int
	// KeyPrefix is prepended to every bound name.
	KeyPrefix string
}

// Directory is a directory.Directory storing each binding as a Redis
// string key.
type Directory struct {
	client    *redis.Client
	keyPrefix string
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Directory, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = _defaultAddr
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = _defaultPrefix
	}
	cl := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "cannot reach redis at %q", addr)
	}
	return &Directory{client: cl, keyPrefix: prefix}, nil
}

// NewFromProperties builds a Directory from directory properties, as found
// in the "directory.properties" attribute.
func NewFromProperties(ctx context.Context, props map[string]string) (*Directory, error) {
	cfg := Config{
		Addr:      props[AddrProperty],
		Password:  props[PasswordProperty],
		KeyPrefix: props[PrefixProperty],
	}
	if db, ok := props[DBProperty]; ok {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid %s %q", DBProperty, db)
		}
		cfg.DB = n
	}
	return New(ctx, cfg)
}

// Close closes the Redis client.
func (d *Directory) Close() error { return d.client.Close() }

func (d *Directory) key(name string) string { return d.keyPrefix + name }

// Bind implements directory.Directory.
func (d *Directory) Bind(ctx context.Context, name string, ref string, rebind bool) error {
	if name == "" {
		return mgmterrors.MalformedInputErrorf("cannot bind an empty name")
	}
	if rebind {
		if err := d.client.Set(ctx, d.key(name), ref, 0).Err(); err != nil {
			return wrapError(err, "bind", name)
		}
		return nil
	}
	ok, err := d.client.SetNX(ctx, d.key(name), ref, 0).Result()
	if err != nil {
		return wrapError(err, "bind", name)
	}
	if !ok {
		return mgmterrors.AlreadyExistsErrorf("name %q is already bound", name)
	}
	return nil
}

// Lookup implements directory.Directory.
func (d *Directory) Lookup(ctx context.Context, name string) (string, error) {
	ref, err := d.client.Get(ctx, d.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", mgmterrors.NotFoundErrorf("name %q is not bound", name)
	}
	if err != nil {
		return "", wrapError(err, "lookup", name)
	}
	return ref, nil
}

// Unbind implements directory.Directory.
func (d *Directory) Unbind(ctx context.Context, name string) error {
	n, err := d.client.Del(ctx, d.key(name)).Result()
	if err != nil {
		return wrapError(err, "unbind", name)
	}
	if n == 0 {
		return mgmterrors.NotFoundErrorf("name %q is not bound", name)
	}
	return nil
}

func wrapError(err error, op, name string) error {
	return mgmterrors.Wrapf(mgmterrors.CodeCommunication, err, "redis %s of %q failed", op, name)
}
