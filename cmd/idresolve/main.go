// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the idresolve CLI, which resolves
// the publications of an author dataset to DOIs and external author ids.
package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/idresolve/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the root command's pre-run.
var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// rootCmd is the base command for the idresolve CLI.
var rootCmd = &cobra.Command{
	Use:   "idresolve",
	Short: "Resolve author publications to DOIs and external author ids",
	Long: `idresolve enriches a dataset of candidate and commission authors with
stable identifiers. Publications carrying a DOI are looked up in the
knowledge graph; title-only publications are tried against the knowledge
graph, the OpenAIRE aggregator and the Crossref index in turn, and the
first confident match wins.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		for key, value := range secrets.Settings(s) {
			if !viper.IsSet(key) || viper.GetString(key) == "" {
				viper.Set(key, value)
			}
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./idresolve.yaml or ~/.config/idresolve/idresolve.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
}

func initConfig() {
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("idresolve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "idresolve"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("IDRESOLVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

