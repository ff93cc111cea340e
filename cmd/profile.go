/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var profileMode string

// startProfile begins the requested profile.Profile, returning a
// no-op stopper when profiling is off. Callers defer the returned
// func.
func startProfile() func() {
	var p interface{ Stop() }
	switch profileMode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath("."))
	case "block":
		p = profile.Start(profile.BlockProfile, profile.ProfilePath("."))
	default:
		return func() {}
	}
	return p.Stop
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileMode, "profile", "", "write a pprof profile: cpu, mem or block")

	originalRunE := RunCmd.RunE
	RunCmd.RunE = func(cmd *cobra.Command, args []string) error {
		stop := startProfile()
		defer stop()
		return originalRunE(cmd, args)
	}
}
