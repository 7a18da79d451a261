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

// Package loadbalancer wires the backend directory, filesystem watcher
// and client front-end into the LB runtime: one persistent connection
// per healthy Application Server, round-robin dispatch over the
// health-filtered set, hot-reloaded from servers.json.
package loadbalancer

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/n4rclss/classfabric/duration"
)

// Config is the LB's runtime configuration, bindable from CLI flags via
// BindFlags or from viper keys of the same name.
type Config struct {
	ListenAddr        string            `mapstructure:"lb"`
	ServersFile       string            `mapstructure:"servers-file"`
	HealthCheckTimeout duration.Duration `mapstructure:"health-check-timeout"`
	ProbeConcurrency  int64             `mapstructure:"probe-concurrency"`
	MaxFrameBytes     uint32            `mapstructure:"max-frame-bytes"`
}

// DefaultConfig returns the LB's configuration defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:         ":9000",
		ServersFile:        "servers.json",
		HealthCheckTimeout: duration.Duration(1e9), // 1s
		ProbeConcurrency:   16,
		MaxFrameBytes:      0, // envelope.DefaultMaxFrame
	}
}

// BindFlags registers the LB's CLI surface on cmd: --lb, --port,
// --health-check-timeout.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	def := DefaultConfig()

	cmd.Flags().String("lb", def.ListenAddr, "address the LB listens on for client connections (host:port)")
	cmd.Flags().String("port", "", "shorthand for --lb's port when the host is implicit")
	cmd.Flags().String("servers-file", def.ServersFile, "path to the hot-reloaded backend list")
	cmd.Flags().Duration("health-check-timeout", def.HealthCheckTimeout.Time(), "backend health probe deadline")
	cmd.Flags().Int64("probe-concurrency", def.ProbeConcurrency, "max concurrent backend health probes per reload cycle")

	_ = v.BindPFlag("lb", cmd.Flags().Lookup("lb"))
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("servers-file", cmd.Flags().Lookup("servers-file"))
	_ = v.BindPFlag("health-check-timeout", cmd.Flags().Lookup("health-check-timeout"))
	_ = v.BindPFlag("probe-concurrency", cmd.Flags().Lookup("probe-concurrency"))
}

// LoadConfig reads a Config from v, applying the --port shorthand over
// --lb's port when set.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if s := v.GetString("lb"); s != "" {
		cfg.ListenAddr = s
	}
	if s := v.GetString("servers-file"); s != "" {
		cfg.ServersFile = s
	}
	if d := v.GetDuration("health-check-timeout"); d > 0 {
		cfg.HealthCheckTimeout = duration.Duration(d)
	}
	if n := v.GetInt64("probe-concurrency"); n > 0 {
		cfg.ProbeConcurrency = n
	}
	if port := v.GetString("port"); port != "" {
		cfg.ListenAddr = "0.0.0.0:" + port
	}

	return cfg, nil
}
