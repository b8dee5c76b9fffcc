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
	"time"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/internal/config"
	"go.uber.org/mgmtrpc/mgmterrors"
	"go.uber.org/mgmtrpc/serialize"
	"go.uber.org/multierr"
)

// Attribute keys recognized by a Connector.
const (
	AttrCheckPeriod         = "client.connection.check.period"
	AttrFetchTimeout        = "notification.fetch.timeout"
	AttrFetchMax            = "notification.fetch.max"
	AttrCheckStub           = "client.check.stub"
	AttrSerialFilter        = "serial.filter"
	AttrDirectoryProperties = "directory.properties"
	AttrCredentials         = "credentials"
)

// Defaults for the client attributes.
const (
	DefaultCheckPeriod  = time.Minute
	DefaultFetchTimeout = time.Minute
	DefaultFetchMax     = 1000
)

// Config is the decoded form of the attributes a Connector connects with.
type Config struct {
	// CheckPeriod is how long the connection may stay idle before the
	// client checks the server. Zero disables checking.
	CheckPeriod time.Duration `config:"client.connection.check.period"`
	// FetchTimeout bounds each long poll for notifications.
	FetchTimeout time.Duration `config:"notification.fetch.timeout"`
	FetchMax     int           `config:"notification.fetch.max"`
	// CheckStub makes the client verify the kind and protocol of the handle
	// it resolved before using it.
	CheckStub           bool              `config:"client.check.stub"`
	SerialFilter        string            `config:"serial.filter"`
	DirectoryProperties map[string]string `config:"directory.properties"`
	Credentials         *auth.Credentials `config:"credentials"`

	filter *serialize.Filter
}

func defaultConfig() Config {
	return Config{
		CheckPeriod:  DefaultCheckPeriod,
		FetchTimeout: DefaultFetchTimeout,
		FetchMax:     DefaultFetchMax,
	}
}

// NewConfig decodes attrs on top of the defaults.
func NewConfig(attrs map[string]interface{}) (Config, error) {
	cfg := defaultConfig()
	if err := config.AttributeMap(attrs).Decode(&cfg); err != nil {
		return cfg, mgmterrors.Wrapf(mgmterrors.CodeMalformedInput, err, "invalid client attributes")
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() (err error) {
	if c.CheckPeriod < 0 {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must not be negative, got %v", AttrCheckPeriod, c.CheckPeriod))
	}
	if c.FetchTimeout <= 0 {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must be positive, got %v", AttrFetchTimeout, c.FetchTimeout))
	}
	if c.FetchMax <= 0 {
		err = multierr.Append(err, mgmterrors.MalformedInputErrorf("%s must be positive, got %d", AttrFetchMax, c.FetchMax))
	}
	filter, ferr := serialize.ParseFilter(c.SerialFilter)
	err = multierr.Append(err, ferr)
	c.filter = filter
	return err
}
