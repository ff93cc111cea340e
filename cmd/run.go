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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/paul-f-baumeister/metalbm-go/internal/config"
	"github.com/paul-f-baumeister/metalbm-go/internal/obslog"
	"github.com/paul-f-baumeister/metalbm-go/internal/orchestrate"
)

// RunCmd executes a lattice-Boltzmann run using the resolved Config.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lattice-Boltzmann simulation",
	Long: `
Runs the configured simulation to completion: builds the lattice,
decomposes the domain across the configured number of ranks, iterates
from start_iteration to end_iteration, and writes fields/backups on
the configured schedule.

lbmrun run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bindRunFlags(cmd.Flags())

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		log := obslog.New(verbose)
		log.WithFields(map[string]interface{}{
			"lattice":    cfg.Lattice,
			"extents":    fmt.Sprintf("%dx%dx%d", cfg.LengthX, cfg.LengthY, cfg.LengthZ),
			"nprocesses": cfg.NProcesses,
			"collision":  cfg.CollisionVariant,
		}).Info("starting run")

		return orchestrate.Run(cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	flags := RunCmd.Flags()
	flags.String("lattice", "", "lattice kind: D2Q9, D3Q19 or D3Q27")
	flags.Int("length-x", 0, "domain extent along X")
	flags.Int("length-y", 0, "domain extent along Y")
	flags.Int("length-z", 0, "domain extent along Z")
	flags.Int("nprocesses", 0, "number of ranks to decompose the domain across")
	flags.Float64("tau", 0, "BGK relaxation time")
	flags.String("collision-variant", "", "BGK, ELBM, Approached_ELBM, ForcedNR_ELBM or ForcedBNR_ELBM")
	flags.Int("end-iteration", 0, "final iteration (exclusive)")
	flags.String("output-prefix", "", "path prefix output files are written under")
	flags.Int("write-step", -1, "write fields every N iterations, 0 to disable")
}

// bindRunFlags connects run's CLI flags to the shared viper instance,
// using Config's mapstructure keys so an explicit flag outranks the
// config file/environment/default layers below it.
func bindRunFlags(flags *pflag.FlagSet) {
	pairs := map[string]string{
		"length_x":          "length-x",
		"length_y":          "length-y",
		"length_z":          "length-z",
		"nprocesses":        "nprocesses",
		"tau":                "tau",
		"collision_variant": "collision-variant",
		"end_iteration":     "end-iteration",
		"lattice":           "lattice",
		"output_prefix":     "output-prefix",
		"write_step":        "write-step",
	}
	for key, flagName := range pairs {
		_ = v.BindPFlag(key, flags.Lookup(flagName))
	}
}
