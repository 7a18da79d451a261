/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2024 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package appserver wires the Client Directory store and the request
// dispatcher into the Application Server runtime: it accepts LB
// connections and hands each to its own serverconn.Conn decode loop.
package appserver

import (
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the Application Server's runtime configuration, bindable
// from CLI flags via BindFlags or from viper keys of the same name.
type Config struct {
	ListenAddr    string `mapstructure:"host"`
	DBDSN         string `mapstructure:"db-dsn"`
	MaxFrameBytes uint32 `mapstructure:"max-frame-bytes"`
}

// DefaultConfig returns the server's configuration defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":9100",
		DBDSN:         "classfabric.sqlite3",
		MaxFrameBytes: 0, // envelope.DefaultMaxFrame
	}
}

// BindFlags registers the server's CLI surface on cmd: --host, --port.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	def := DefaultConfig()

	cmd.Flags().String("host", def.ListenAddr, "address the server listens on for LB connections (host:port)")
	cmd.Flags().String("port", "", "shorthand for --host's port when the host is implicit")
	cmd.Flags().String("db-dsn", def.DBDSN, "client directory store DSN (sqlite file path, or postgres://... for a shared store)")

	_ = v.BindPFlag("host", cmd.Flags().Lookup("host"))
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("db-dsn", cmd.Flags().Lookup("db-dsn"))
}

// LoadConfig reads a Config from v, applying the --port shorthand over
// --host's port when set.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if s := v.GetString("host"); s != "" {
		cfg.ListenAddr = s
	}
	if s := v.GetString("db-dsn"); s != "" {
		cfg.DBDSN = s
	}
	if port := v.GetString("port"); port != "" {
		host, _, err := net.SplitHostPort(cfg.ListenAddr)
		if err != nil || host == "" {
			host = "0.0.0.0"
		}
		cfg.ListenAddr = host + ":" + port
	}

	return cfg, nil
}
