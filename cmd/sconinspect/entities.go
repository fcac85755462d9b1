package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/spriter"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities <file.scon>",
	Short: "List entities and their animations",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntities,
}

func runEntities(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}
	return writeEntities(cmd.OutOrStdout(), doc)
}

func writeEntities(w io.Writer, doc *spriter.Document) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tANIMATION\tLENGTH\tLOOPING\tKEYS\tTIMELINES\tUNSUPPORTED")
	for _, name := range doc.ListEntities() {
		def := doc.Entities[name]
		for _, an := range def.AnimationNames {
			a := def.Animations[an]
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%d\n",
				name, a.Name, a.Length, a.Looping, len(a.Mainline.Keyframes),
				len(a.Timelines), len(a.Unsupported))
		}
	}
	return tw.Flush()
}
