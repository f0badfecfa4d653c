/*
Copyright 2024 The Inkrun Authors All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package app wires the pieces into the runnable player: options and
// config, the decoded story, the interactive session, and an optional
// self-metrics server, all driven as one run group.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
	yaml "sigs.k8s.io/yaml/goyaml.v3"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versionCollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/exporter-toolkit/web"

	"github.com/inkworks/inkrun/internal/play"
	"github.com/inkworks/inkrun/pkg/decoder"
	"github.com/inkworks/inkrun/pkg/metrics"
	"github.com/inkworks/inkrun/pkg/options"
	"github.com/inkworks/inkrun/pkg/story"
	"github.com/inkworks/inkrun/pkg/version"
)

const (
	metricsPath = "/metrics"
	healthzPath = "/healthz"
)

// RunInkrunWrapper runs inkrun with context cancellation.
func RunInkrunWrapper(ctx context.Context, opts *options.Options) error {
	err := RunInkrun(ctx, opts)
	if ctx.Err() == context.Canceled {
		klog.Infoln("Restarting: inkrun, play state will be reset")
		return nil
	}
	return err
}

// RunInkrun decodes the configured story and plays it to the end.
func RunInkrun(ctx context.Context, opts *options.Options) error {
	klog.InfoS("Running inkrun", "version", version.GetVersion())

	if file := options.GetConfigFile(*opts); file != "" {
		configFile, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return fmt.Errorf("failed to read opts config file: %v", err)
		}
		// NOTE: Config value will override default values of intersecting options.
		if err := yaml.Unmarshal(configFile, opts); err != nil {
			return fmt.Errorf("failed to unmarshal opts config file: %v", err)
		}
	}

	if opts.AutoGoMemlimit {
		if _, err := memlimit.SetGoMemLimitWithOpts(
			memlimit.WithRatio(opts.AutoGoMemlimitRatio),
			memlimit.WithProvider(
				memlimit.ApplyFallback(
					memlimit.FromCgroup,
					memlimit.FromSystem,
				),
			),
		); err != nil {
			return fmt.Errorf("failed to set GOMEMLIMIT automatically: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		versionCollector.NewCollector("inkrun"),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	recorder := metrics.NewRecorder(registry)

	data, err := os.ReadFile(filepath.Clean(opts.StoryFile))
	if err != nil {
		return fmt.Errorf("failed to read story file: %v", err)
	}
	decodeStart := time.Now()
	graph, err := decoder.FromBytes(data)
	if err != nil {
		return fmt.Errorf("failed to decode story %q: %w", opts.StoryFile, err)
	}
	recorder.StoryDecoded(time.Since(decodeStart))
	klog.InfoS("Decoded story", "file", opts.StoryFile, "inkVersion", graph.Version())

	sink := io.Writer(os.Stdout)
	if opts.Transcript != "" {
		transcript, err := os.Create(filepath.Clean(opts.Transcript))
		if err != nil {
			return fmt.Errorf("failed to create transcript file: %v", err)
		}
		defer func() {
			if err := transcript.Close(); err != nil {
				klog.ErrorS(err, "Failed to close transcript file")
			}
		}()
		sink = io.MultiWriter(os.Stdout, transcript)
	}

	teller := story.New(graph, sink).
		WithSeed(opts.Seed).
		WithRecorder(recorder)

	var g run.Group

	// Run the play session.
	ctxSession, cancel := context.WithCancel(ctx)
	session := play.NewSession(teller, os.Stdin, os.Stdout, opts.Choices.AsSlice())
	g.Add(func() error {
		return session.Run(ctxSession)
	}, func(error) {
		cancel()
	})

	// Run the telemetry server.
	if opts.EnableTelemetry {
		tlsConfig := opts.TLSConfig
		telemetryMux := buildTelemetryServer(registry)
		telemetryListenAddress := net.JoinHostPort(opts.TelemetryHost, strconv.Itoa(opts.TelemetryPort))
		telemetryServer := http.Server{
			Handler:           telemetryMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		telemetryFlags := web.FlagConfig{
			WebListenAddresses: &[]string{telemetryListenAddress},
			WebConfigFile:      &tlsConfig,
		}

		handler := logr.ToSlogHandler(klog.Background())
		sLogger := slog.New(handler)

		g.Add(func() error {
			klog.InfoS("Started inkrun self metrics server", "telemetryAddress", telemetryListenAddress)
			return web.ListenAndServe(&telemetryServer, &telemetryFlags, sLogger)
		}, func(error) {
			ctxShutDown, cancelShutDown := context.WithTimeout(ctx, 3*time.Second)
			defer cancelShutDown()
			_ = telemetryServer.Shutdown(ctxShutDown)
		})
	}

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		if _, isSignal := err.(run.SignalError); isSignal {
			klog.InfoS("Interrupted")
			return nil
		}
		return fmt.Errorf("run group error: %v", err)
	}

	klog.InfoS("Exited")
	return nil
}

func buildTelemetryServer(registry prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorLog: promLogger{}}))
	mux.HandleFunc(healthzPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>
             <head><title>Inkrun Metrics Server</title></head>
             <body>
             <h1>Inkrun Metrics</h1>
			 <ul>
             <li><a href='` + metricsPath + `'>metrics</a></li>
             <li><a href='` + healthzPath + `'>healthz</a></li>
			 </ul>
             </body>
             </html>`))
	})
	return mux
}

// promLogger implements promhttp.Logger
type promLogger struct{}

func (pl promLogger) Println(v ...interface{}) {
	klog.Error(v...)
}
