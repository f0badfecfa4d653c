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

package main

import (
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/inkworks/inkrun/internal"
	"github.com/inkworks/inkrun/pkg/options"
)

func main() {
	opts := options.NewOptions()
	cmd := options.InitCommand
	cmd.Run = func(_ *cobra.Command, _ []string) {
		if opts.Help {
			opts.Usage()
			os.Exit(0)
		}
		if err := opts.Validate(); err != nil {
			klog.ErrorS(err, "Invalid options")
			klog.FlushAndExit(klog.ExitFlushTimeout, 1)
		}
		internal.RunInkrunWrapper(opts)
	}
	opts.AddFlags(cmd)

	if err := opts.Parse(); err != nil {
		klog.ErrorS(err, "Parsing flags failed")
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
}
