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

// Command classfabric-lb runs the fan-in/fan-out Load Balancer: it
// watches a backend list file, health-checks the backends it names, and
// multiplexes client TCP connections onto the healthy subset.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	liblog "github.com/n4rclss/classfabric/logger"

	"github.com/n4rclss/classfabric/loadbalancer"
)

func main() {
	v := viper.New()
	log := liblog.New(liblog.InfoLevel)

	cmd := &cobra.Command{
		Use:   "classfabric-lb",
		Short: "Fan-in/fan-out TCP load balancer for the classroom-monitoring fabric",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadbalancer.LoadConfig(v)
			if err != nil {
				return err
			}

			lb := loadbalancer.New(cfg, func() liblog.Logger { return log })

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := lb.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			return lb.Stop(context.Background())
		},
	}

	loadbalancer.BindFlags(cmd, v)

	if err := cmd.Execute(); err != nil {
		log.Entry(liblog.ErrorLevel, "load balancer exited with an error").ErrorAdd(true, err).Log()
		os.Exit(1)
	}
}
