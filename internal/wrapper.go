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

package internal

import (
	"context"
	"errors"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/inkworks/inkrun/pkg/app"
	"github.com/inkworks/inkrun/pkg/options"
)

// RunInkrunWrapper is a wrapper around inkrun, delegated to the root command.
func RunInkrunWrapper(opts *options.Options) {
	runOrDie := func(ctx context.Context) {
		if err := app.RunInkrunWrapper(ctx, opts); err != nil {
			klog.ErrorS(err, "Failed to run inkrun")
			klog.FlushAndExit(klog.ExitFlushTimeout, 1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watching := false
	if file := options.GetConfigFile(*opts); file != "" {
		viper.SetConfigType("yaml")
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			if errors.Is(err, viper.ConfigFileNotFoundError{}) {
				klog.ErrorS(err, "Options configuration file not found", "file", file)
			} else {
				klog.ErrorS(err, "Error reading options configuration file", "file", file)
			}
			klog.FlushAndExit(klog.ExitFlushTimeout, 1)
		}
		viper.OnConfigChange(func(e fsnotify.Event) {
			klog.Infof("Changes detected: %s\n", e.Name)
			cancel()
			// Wait for the ports to be released.
			<-time.After(3 * time.Second)
			ctx, cancel = context.WithCancel(context.Background())
			go runOrDie(ctx)
		})
		viper.WatchConfig()
		watching = true
	}

	klog.Infoln("Starting inkrun")
	runOrDie(ctx)
	if watching {
		// Keep the process alive so a config change can replay the
		// story with fresh options.
		select {}
	}
}
