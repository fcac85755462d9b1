package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/spriter"
)

var playCmd = &cobra.Command{
	Use:   "play <file.scon> <script.json>",
	Short: "Run a playback script against an entity",
	Long: "play drives an entity through a JSON playback script (play, tick, " +
		"set_time, sample, expect, snapshot steps) and fails on the first " +
		"unmet expectation. Snapshot steps print the pose.",
	Args: cobra.ExactArgs(2),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringP("entity", "e", "", "entity name (default: the script's, else the first entity)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	runner, err := spriter.LoadScript(data)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("entity")
	if name == "" {
		name = runner.Entity
	}
	if name == "" {
		name = viper.GetString("entity")
	}
	def, err := pickEntity(doc, name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runner.OnSnapshot = func(label string, e *spriter.Entity) {
		fmt.Fprintf(out, "-- %s\n", label)
		if err := e.Sample(); err != nil {
			fmt.Fprintf(out, "sample failed: %v\n", err)
			return
		}
		_ = writePose(out, e)
	}

	e := spriter.NewEntity(def)
	if err := runner.Run(e); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok: %d loop(s), %d end(s), final time %gms\n", runner.Loops(), runner.Ends(), e.Time())
	return nil
}
