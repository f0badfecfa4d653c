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

// Package options holds the player's configurable parameters: command
// line flags, the YAML options config file, and the cobra subcommands.
package options

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// Options are the configurable parameters for inkrun.
type Options struct {
	Choices ChoiceScript `yaml:"choices"`

	cmd           *cobra.Command
	StoryFile     string `yaml:"story_file"`
	Transcript    string `yaml:"transcript"`
	TLSConfig     string `yaml:"tls_config"`
	TelemetryHost string `yaml:"telemetry_host"`

	Config string

	Seed                int64   `yaml:"seed"`
	AutoGoMemlimitRatio float64 `yaml:"auto-gomemlimit-ratio"`
	TelemetryPort       int     `yaml:"telemetry_port"`

	AutoGoMemlimit  bool `yaml:"auto-gomemlimit"`
	EnableTelemetry bool `yaml:"enable_telemetry"`
	Help            bool `yaml:"help"`
}

// GetConfigFile is the getter for --config value.
func GetConfigFile(opt Options) string {
	return opt.Config
}

// NewOptions returns a new instance of `Options`.
func NewOptions() *Options {
	return &Options{
		Choices: ChoiceScript{},
	}
}

// AddFlags populated the Options struct from the command line arguments passed.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.cmd = cmd

	completionCommand.SetHelpFunc(func(_ *cobra.Command, _ []string) {
		if shellPath, ok := os.LookupEnv("SHELL"); ok {
			shell := shellPath[strings.LastIndex(shellPath, "/")+1:]
			fmt.Println(FetchLoadInstructions(shell))
		} else {
			fmt.Println("SHELL environment variable not set, falling back to bash")
			fmt.Println(FetchLoadInstructions("bash"))
		}
		klog.FlushAndExit(klog.ExitFlushTimeout, 0)
	})

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("%s\n", version.Print("inkrun"))
			klog.FlushAndExit(klog.ExitFlushTimeout, 0)
		},
	}

	cmd.AddCommand(completionCommand, versionCommand)

	o.cmd.Flags().Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		o.cmd.Flags().PrintDefaults()
	}

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	o.cmd.Flags().AddGoFlagSet(klogFlags)
	_ = o.cmd.Flags().Lookup("logtostderr").Value.Set("true")
	o.cmd.Flags().Lookup("logtostderr").DefValue = "true"
	o.cmd.Flags().Lookup("logtostderr").NoOptDefVal = "true"

	o.cmd.Flags().BoolVarP(&o.Help, "help", "h", false, "Print Help text")
	o.cmd.Flags().StringVar(&o.StoryFile, "story", "", "Path to the compiled story JSON file to play.")
	o.cmd.Flags().StringVar(&o.Transcript, "transcript", "", "Path to write the full play transcript to. Empty disables the transcript file.")
	o.cmd.Flags().Var(&o.Choices, "choices", "Comma-separated list of zero-based choice indexes to play automatically instead of prompting. When the script runs out, the session falls back to prompting.")
	o.cmd.Flags().Int64Var(&o.Seed, "seed", 42, "Seed for the story's random source. Stories replay identically for a given seed.")
	o.cmd.Flags().BoolVar(&o.AutoGoMemlimit, "auto-gomemlimit", false, "Automatically set GOMEMLIMIT to match container or system memory limit. (experimental)")
	o.cmd.Flags().Float64Var(&o.AutoGoMemlimitRatio, "auto-gomemlimit-ratio", float64(0.9), "The ratio of reserved GOMEMLIMIT memory to the detected maximum container or system memory. (experimental)")
	o.cmd.Flags().BoolVar(&o.EnableTelemetry, "enable-telemetry", false, "Serve inkrun self metrics while a story plays.")
	o.cmd.Flags().StringVar(&o.TelemetryHost, "telemetry-host", "::", `Host to expose inkrun self metrics on.`)
	o.cmd.Flags().IntVar(&o.TelemetryPort, "telemetry-port", 8081, `Port to expose inkrun self metrics on.`)
	o.cmd.Flags().StringVar(&o.TLSConfig, "tls-config", "", "Path to the TLS configuration file for the telemetry server")
	o.cmd.Flags().StringVar(&o.Config, "config", "", "Path to the inkrun options config YAML file. If this flag is set, the flags defined in the file override the command line flags.")
}

// Parse parses the flag definitions from the argument list.
func (o *Options) Parse() error {
	return o.cmd.Execute()
}

// Usage formats the flag usage text and discards it; it prints nothing.
func (o *Options) Usage() {
	_ = o.cmd.Flags().FlagUsages()
}

// Validate validates arguments.
func (o *Options) Validate() error {
	if o.StoryFile == "" {
		return fmt.Errorf("a story file is required, pass one with --story")
	}
	if o.AutoGoMemlimitRatio <= 0.0 || o.AutoGoMemlimitRatio > 1.0 {
		return fmt.Errorf("value for --auto-gomemlimit-ratio=%f must be greater than 0 and less than or equal to 1", o.AutoGoMemlimitRatio)
	}
	return nil
}
