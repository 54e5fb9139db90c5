// Package eecmd wires the extreme-event plugin's cobra command tree: a
// "run" command that drives the synthetic emulator through a fixed
// number of steps, and a "version" command, following the command/flag
// conventions of the wider InMAP command-line tools.
package eecmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ecmwf-labs/extreme-events/config"
	"github.com/ecmwf-labs/extreme-events/eeplugin"
	"github.com/ecmwf-labs/extreme-events/emulator"
	"github.com/ecmwf-labs/extreme-events/notify"
)

// Version is the plugin's release version, set at build time with
// -ldflags "-X .../internal/eecmd.Version=...".
var Version = "dev"

// v holds the resolved configuration, layering the "run" flags over
// EEPLUGIN_-prefixed environment variables the same way inmaputil's Cfg
// layers INMAP_ environment variables over its command-line flags.
var v = viper.New()

func init() {
	Root.PersistentFlags().String("config", "./eeplugin.yaml", "plugin configuration file")

	runCmd.Flags().Int("steps", 10, "number of emulator steps to run")
	runCmd.Flags().Int("nx", 32, "emulator grid longitude points")
	runCmd.Flags().Int("ny", 64, "emulator grid latitude points")
	runCmd.Flags().Int("halo", 3, "emulator grid halo width")
	runCmd.Flags().Int("levels", 19, "emulator vertical levels")
	runCmd.Flags().String("listen", "", "if set, serve dev-mode notification inspection on this address (e.g. 127.0.0.1:8765) instead of exiting after --steps")
	runCmd.Flags().Bool("inspect", false, "record dev-mode notifications for retrieval via --listen")

	v.SetEnvPrefix("EEPLUGIN")
	v.AutomaticEnv()
	v.BindPFlag("config", Root.PersistentFlags().Lookup("config"))
	for _, name := range []string{"steps", "nx", "ny", "halo", "levels", "listen", "inspect"} {
		v.BindPFlag(name, runCmd.Flags().Lookup(name))
	}

	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
}

// Root is the plugin CLI's main command.
var Root = &cobra.Command{
	Use:   "eeplugin",
	Short: "Extreme-event detection plugin for gridded NWP output.",
	Long: `eeplugin detects extreme-event conditions (extreme wind, storms, wind
droughts) on a model grid, coarsens firing points onto a HEALPix mesh,
extracts boundary polygons of contiguous firing regions, and posts
geographic notifications to an Aviso endpoint.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "eeplugin v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the plugin against the synthetic NWP emulator.",
	Long: `run loads the plugin configuration, builds a synthetic emulator grid,
negotiates and sets up the detection pipeline, and drives it for --steps
model steps, posting any resulting notifications. With --listen, a tiny
local HTTP server exposes the dev-mode notification log at
GET /notifications instead of exiting once --steps completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logrus.StandardLogger()

		cfg, err := config.Load(v.GetString("config"))
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		grid, err := emulator.New(v.GetInt("nx"), v.GetInt("ny"), v.GetInt("halo"), v.GetInt("levels"))
		if err != nil {
			return fmt.Errorf("building emulator grid: %w", err)
		}

		listenAddr := v.GetString("listen")
		var sinkOpts []notify.Option
		var inspector *notify.Inspector
		if v.GetBool("inspect") || listenAddr != "" {
			inspector = notify.NewInspector()
			sinkOpts = append(sinkOpts, notify.WithInspector(inspector))
		}
		schema, err := notify.SchemaFromEnv()
		if err != nil {
			log.WithError(err).Warn("MARS schema environment variables not fully set, notifications will carry no schema keys")
			schema = map[string]string{}
		}
		sink := notify.NewSink(cfg.AvisoURL, cfg.NotifyEndpoint, schema, sinkOpts...)

		plugin := eeplugin.New(cfg, sink, eeplugin.WithLogger(log))
		if err := plugin.Setup(grid); err != nil {
			return fmt.Errorf("plugin setup: %w", err)
		}

		for i := 0; i < v.GetInt("steps"); i++ {
			if err := plugin.Run(); err != nil {
				return fmt.Errorf("plugin run at step %d: %w", i, err)
			}
			grid.Step()
		}
		plugin.Teardown()

		if listenAddr != "" {
			log.Infof("serving dev-mode notification inspection on http://%s/notifications", listenAddr)
			return serveInspector(listenAddr, inspector)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

func serveInspector(addr string, insp *notify.Inspector) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(insp.Recent()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return http.ListenAndServe(addr, mux)
}
