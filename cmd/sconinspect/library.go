package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/spriter"
	"github.com/phanxgames/spriter/internal/manifest"
)

var initCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Write a spriter.toml listing every .scon file in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Load every document a spriter.toml lists and report atlas coverage",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing spriter.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := args[0]
	path := filepath.Join(dir, manifest.FileName)
	if force, _ := cmd.Flags().GetBool("force"); !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force)", path)
		}
	}
	m, err := manifest.Scan(dir)
	if err != nil {
		return err
	}
	m.Library.Debug = viper.GetBool("debug")
	data, err := manifest.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d document(s))\n", path, len(m.Documents))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	if viper.GetBool("debug") {
		m.Library.Debug = true
	}
	lib := spriter.NewLibrary()
	if err := m.Open(lib, manifest.OpenOptions{Logger: loadOptions(cmd).Logger}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	missing := 0
	for _, key := range lib.Keys() {
		doc, _ := lib.Select(key)
		atlas := lib.Atlas(key)
		fmt.Fprintf(out, "%s: %d entit(ies)", key, len(doc.ListEntities()))
		if atlas == nil {
			fmt.Fprintln(out, ", no atlas")
			continue
		}
		fmt.Fprintln(out)
		for _, folder := range doc.Folders {
			for _, f := range folder.Files {
				if _, ok := atlas.Region(f.Name); !ok {
					fmt.Fprintf(out, "  missing region %q\n", f.Name)
					missing++
				}
			}
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d file(s) have no atlas region", missing)
	}
	return nil
}
