package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phanxgames/spriter"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <file.scon> <animation>",
	Short: "Print the pose of an animation at a time",
	Args:  cobra.ExactArgs(2),
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().StringP("entity", "e", "", "entity name (default: first entity)")
	sampleCmd.Flags().Float64P("time", "t", 0, "time in milliseconds")
	sampleCmd.Flags().Bool("json", false, "print the pose as JSON")
	_ = viper.BindPFlag("entity", sampleCmd.Flags().Lookup("entity"))
	_ = viper.BindPFlag("json", sampleCmd.Flags().Lookup("json"))
}

func runSample(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0])
	if err != nil {
		return err
	}
	def, err := pickEntity(doc, viper.GetString("entity"))
	if err != nil {
		return err
	}
	at, _ := cmd.Flags().GetFloat64("time")

	e := spriter.NewEntity(def)
	if err := e.Play(args[1], false); err != nil {
		return err
	}
	e.SetTime(at)
	if err := e.Sample(); err != nil {
		return err
	}
	if viper.GetBool("json") {
		return writePoseJSON(cmd.OutOrStdout(), e)
	}
	return writePose(cmd.OutOrStdout(), e)
}

func writePose(w io.Writer, e *spriter.Entity) error {
	fmt.Fprintf(w, "%s/%s @ %gms\n", e.Name, e.Animation().Name, e.Time())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNAME\tPARENT\tX\tY\tANGLE\tSCALE_X\tSCALE_Y\tALPHA\tZ")
	p := e.Pose()
	for _, b := range p.Bones {
		fmt.Fprintf(tw, "bone\t%d\t\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\t\n",
			b.ID, b.ParentID, b.World.Position.X, b.World.Position.Y,
			spriter.Rad2Deg(b.World.Rotation), b.World.Scale.X, b.World.Scale.Y)
	}
	for _, el := range p.Elements {
		fmt.Fprintf(tw, "element\t%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%d\n",
			el.ID, el.Name, el.ParentID, el.World.Position.X, el.World.Position.Y,
			spriter.Rad2Deg(el.World.Rotation), el.World.Scale.X, el.World.Scale.Y,
			el.Alpha, el.ZIndex)
	}
	return tw.Flush()
}

type poseJSON struct {
	Entity    string        `json:"entity"`
	Animation string        `json:"animation"`
	Time      float64       `json:"time"`
	Bones     []partJSON    `json:"bones"`
	Elements  []elementJSON `json:"elements"`
}

type partJSON struct {
	ID     int     `json:"id"`
	Parent int     `json:"parent"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`
}

type elementJSON struct {
	partJSON
	Name  string  `json:"name"`
	Alpha float64 `json:"a"`
	Z     int     `json:"z_index"`
}

func part(id, parent int, t spriter.Transform) partJSON {
	return partJSON{
		ID: id, Parent: parent,
		X: t.Position.X, Y: t.Position.Y,
		Angle:  spriter.Rad2Deg(t.Rotation),
		ScaleX: t.Scale.X, ScaleY: t.Scale.Y,
	}
}

func writePoseJSON(w io.Writer, e *spriter.Entity) error {
	p := e.Pose()
	out := poseJSON{
		Entity:    e.Name,
		Animation: e.Animation().Name,
		Time:      e.Time(),
		Bones:     make([]partJSON, 0, len(p.Bones)),
		Elements:  make([]elementJSON, 0, len(p.Elements)),
	}
	for _, b := range p.Bones {
		out.Bones = append(out.Bones, part(b.ID, b.ParentID, b.World))
	}
	for _, el := range p.Elements {
		out.Elements = append(out.Elements, elementJSON{
			partJSON: part(el.ID, el.ParentID, el.World),
			Name:     el.Name,
			Alpha:    el.Alpha,
			Z:        el.ZIndex,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
