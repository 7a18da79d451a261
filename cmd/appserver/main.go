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

// Command classfabric-server runs the Application Server: it accepts LB
// connections, dispatches typed requests to feature handlers, and tracks
// the username<->client_id mapping in the shared Client Directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/n4rclss/classfabric/appserver"
	"github.com/n4rclss/classfabric/handlers"
	liblog "github.com/n4rclss/classfabric/logger"
)

func main() {
	v := viper.New()
	log := liblog.New(liblog.InfoLevel)

	cmd := &cobra.Command{
		Use:   "classfabric-server",
		Short: "Application Server for the classroom-monitoring fabric",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appserver.LoadConfig(v)
			if err != nil {
				return err
			}

			mem := handlers.NewMemoryStore()
			srv, err := appserver.New(cfg, mem, mem, func() liblog.Logger { return log })
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			return srv.Stop(context.Background())
		},
	}

	appserver.BindFlags(cmd, v)

	if err := cmd.Execute(); err != nil {
		log.Entry(liblog.ErrorLevel, "application server exited with an error").ErrorAdd(true, err).Log()
		os.Exit(1)
	}
}
