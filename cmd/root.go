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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paul-f-baumeister/metalbm-go/internal/config"
)

var cfgFile string
var verbose bool
var v *viper.Viper

// rootCmd is the base command every subcommand attaches itself to.
var rootCmd = &cobra.Command{
	Use:   "lbmrun",
	Short: "Distributed lattice-Boltzmann fluid solver",
	Long: `
lbmrun runs a lattice-Boltzmann fluid simulation over a 1-D
rank-decomposed Cartesian domain, with BGK or entropic collision,
optional body forcing, and periodic boundaries.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to
// happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lbmrun.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
}

// initConfig builds the shared viper instance every subcommand reads
// its Config from, binding CLI flags over environment over file over
// built-in defaults.
func initConfig() {
	var err error
	v, err = config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}
}
