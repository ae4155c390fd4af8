/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config defines the server's one configuration struct, validated
// with go-playground/validator/v10 the same way the teacher validates
// httpserver.ServerConfig. It carries mapstructure/json/yaml/toml tags so
// it can be bound from flags or decoded from a file (LoadFile) with the
// same struct. The package itself never reads a flag: that wiring
// belongs to cmd/snapd.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sabouaram/snapd/errors"
)

// Config is the complete, immutable-after-load server configuration,
// spec.md §3's "Server configuration" plus the ambient fields
// SPEC_FULL.md §4.8 adds.
type Config struct {
	Webroot string `mapstructure:"webroot" json:"webroot" yaml:"webroot" toml:"webroot" validate:"required,dir"`

	HTTPPort  int `mapstructure:"http_port" json:"http_port" yaml:"http_port" toml:"http_port" validate:"gte=0,lte=65535"`
	HTTPSPort int `mapstructure:"https_port" json:"https_port" yaml:"https_port" toml:"https_port" validate:"gte=0,lte=65535"`

	Workers    int `mapstructure:"workers" json:"workers" yaml:"workers" toml:"workers" validate:"required,gt=0"`
	QueueDepth int `mapstructure:"queue_depth" json:"queue_depth" yaml:"queue_depth" toml:"queue_depth" validate:"required,gt=0"`
	Backlog    int `mapstructure:"backlog" json:"backlog" yaml:"backlog" toml:"backlog" validate:"required,gt=0"`

	CertFile string `mapstructure:"cert" json:"cert" yaml:"cert" toml:"cert" validate:"required_with=KeyFile,omitempty,file"`
	KeyFile  string `mapstructure:"key" json:"key" yaml:"key" toml:"key" validate:"required_with=CertFile,omitempty,file"`

	StatusAddr string `mapstructure:"status_addr" json:"status_addr" yaml:"status_addr" toml:"status_addr"`
	CredsDB    string `mapstructure:"creds_db" json:"creds_db" yaml:"creds_db" toml:"creds_db"`
}

// Default returns a Config with spec.md's baked-in defaults: a plaintext
// listener on 8080, 4 workers, a queue depth of 64, and TLS disabled.
func Default() Config {
	return Config{
		HTTPPort:   8080,
		HTTPSPort:  8443,
		Workers:    4,
		QueueDepth: 64,
		Backlog:    128,
	}
}

// Clone returns a value copy of c, matching the teacher's
// ServerConfig.Clone pattern for a struct that is read concurrently
// without a lock once loaded.
func (c Config) Clone() Config {
	return Config{
		Webroot:    c.Webroot,
		HTTPPort:   c.HTTPPort,
		HTTPSPort:  c.HTTPSPort,
		Workers:    c.Workers,
		QueueDepth: c.QueueDepth,
		Backlog:    c.Backlog,
		CertFile:   c.CertFile,
		KeyFile:    c.KeyFile,
		StatusAddr: c.StatusAddr,
		CredsDB:    c.CredsDB,
	}
}

// TLSEnabled reports whether both halves of the certificate pair were
// configured.
func (c Config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Validate runs struct-tag validation, matching
// httpserver.ServerConfig.Validate's use of validator.v10.
func (c Config) Validate() errors.Error {
	val := validator.New()
	err := val.Struct(c)
	if err == nil {
		return nil
	}

	if e, ok := err.(*validator.InvalidValidationError); ok {
		return ErrorValidate.Error(e)
	}

	out := ErrorValidate.Error(nil)
	for _, e := range err.(validator.ValidationErrors) {
		out.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Field(), e.ActualTag()))
	}

	return out
}
