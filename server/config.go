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

package server

import (
	"time"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/internal/config"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/notify"
	"go.uber.org/mgmtrpc/serialize"
	"go.uber.org/multierr"
)

// Attribute keys recognized by a Server.
const (
	AttrConnectionTimeout   = "server.connection.timeout"
	AttrBufferSize          = "notification.buffer.size"
	AttrCredentialTypes     = "credential.types"
	AttrSerialFilter        = "serial.filter"
	AttrDirectoryName       = "directory.name"
	AttrDirectoryRebind     = "directory.rebind"
	AttrDirectoryProperties = "directory.properties"
	AttrPasswordFile        = "password.file"
	AttrLoginConfig         = "login.config"
	AttrProtocol            = "protocol"
)

// DefaultConnectionTimeout is how long a session may stay idle before the
// server closes it.
const DefaultConnectionTimeout = 2 * time.Minute

// Config is the decoded form of the attributes a Server is built with.
type Config struct {
	// ConnectionTimeout closes sessions idle for longer. Zero disables it.
	ConnectionTimeout time.Duration `config:"server.connection.timeout"`
	BufferSize        int           `config:"notification.buffer.size"`
	// CredentialTypes lists the credential types NewClient accepts.
	CredentialTypes     []string          `config:"credential.types"`
	SerialFilter        string            `config:"serial.filter"`
	DirectoryName       string            `config:"directory.name"`
	DirectoryRebind     bool              `config:"directory.rebind"`
	DirectoryProperties map[string]string `config:"directory.properties"`
	PasswordFile        string            `config:"password.file"`
	LoginConfig         string            `config:"login.config"`
	Protocol            string            `config:"protocol"`

	filter *serialize.Filter
}

func defaultConfig() Config {
	return Config{
		ConnectionTimeout: DefaultConnectionTimeout,
		BufferSize:        notify.DefaultBufferSize,
		Protocol:          "ws",
	}
}

// DefaultCredentialTypes are the credential types accepted when the
// attributes name none.
func DefaultCredentialTypes() []string {
	return []string{auth.PasswordCredentials, auth.TokenCredentials}
}

// NewConfig decodes attrs on top of the defaults.
func NewConfig(attrs map[string]interface{}) (Config, error) {
	cfg := defaultConfig()
	if err := config.AttributeMap(attrs).Decode(&cfg); err != nil {
		return cfg, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid server attributes")
	}
	// Decoding appends to a non-empty slice, so list defaults are applied
	// afterwards.
	if len(cfg.CredentialTypes) == 0 {
		cfg.CredentialTypes = DefaultCredentialTypes()
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() (err error) {
	if c.ConnectionTimeout < 0 {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must not be negative, got %v", AttrConnectionTimeout, c.ConnectionTimeout))
	}
	if c.BufferSize <= 0 {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must be positive, got %d", AttrBufferSize, c.BufferSize))
	}
	if c.Protocol == "" {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must not be empty", AttrProtocol))
	}
	filter, ferr := serialize.ParseFilter(c.SerialFilter)
	err = multierr.Append(err, ferr)
	c.filter = filter
	return err
}

func (c *Config) acceptsCredentials(typ string) bool {
	for _, t := range c.CredentialTypes {
		if t == typ {
			return true
		}
	}
	return false
}
