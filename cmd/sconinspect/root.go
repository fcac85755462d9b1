package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/spriter"
)

var rootCmd = &cobra.Command{
	Use:   "sconinspect",
	Short: "Inspect Spriter SCON animation documents",
	Long: "sconinspect loads SCON documents, lists their entities and animations, " +
		"prints sampled poses, and runs playback scripts against them.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .sconinspect.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "log loader and sampler warnings")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(entitiesCmd, sampleCmd, playCmd, initCmd, checkCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".sconinspect")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("SPRITER")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadOptions builds loader options from the resolved configuration.
// Warnings go to the command's error stream.
func loadOptions(cmd *cobra.Command) spriter.LoadOptions {
	return spriter.LoadOptions{
		Debug:  viper.GetBool("debug"),
		Logger: log.New(cmd.ErrOrStderr(), "", 0),
	}
}

func loadDocument(cmd *cobra.Command, path string) (*spriter.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := spriter.LoadDocument(data, loadOptions(cmd))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// pickEntity returns the named entity, or the document's first entity when
// name is empty.
func pickEntity(doc *spriter.Document, name string) (*spriter.EntityDef, error) {
	if name == "" {
		names := doc.ListEntities()
		if len(names) == 0 {
			return nil, fmt.Errorf("document has no entities")
		}
		name = names[0]
	}
	return doc.Entity(name)
}
