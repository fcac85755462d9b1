package spriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"
)

// LoadOptions configures LoadDocument. The zero value is ready to use.
type LoadOptions struct {
	// Debug enables warnings for unsupported timelines, unresolved parents,
	// and failed samples of entities created from the document.
	Debug bool
	// Logger receives debug warnings. Defaults to log.Default().
	Logger *log.Logger
}

// LoadDocument parses SCON (Spriter JSON) data into a Document.
//
// Numeric fields may be JSON numbers or numeric strings, and any list may be
// written as a single object, as SCON exporters emit both forms. Angles are
// converted from degrees to radians. Any error wraps ErrMalformedDocument and
// no Document is returned.
func LoadDocument(jsonData []byte, opts LoadOptions) (*Document, error) {
	var scon jsonSCON
	if err := json.Unmarshal(jsonData, &scon); err != nil {
		return nil, fmt.Errorf("spriter: failed to parse SCON JSON: %w: %w", ErrMalformedDocument, err)
	}
	if scon.Folder == nil {
		return nil, fmt.Errorf("spriter: SCON has no \"folder\" key: %w", ErrMalformedDocument)
	}
	if scon.Entity == nil {
		return nil, fmt.Errorf("spriter: SCON has no \"entity\" key: %w", ErrMalformedDocument)
	}

	doc := &Document{
		Version:          scon.Version,
		Generator:        scon.Generator,
		GeneratorVersion: scon.GeneratorVersion,
		Entities:         make(map[string]*EntityDef, len(*scon.Entity)),
		diag:             newDiagnostics(opts.Debug, opts.Logger),
	}
	for _, jf := range *scon.Folder {
		doc.Folders = append(doc.Folders, loadFolder(jf))
	}

	l := &loader{doc: doc}
	for _, je := range *scon.Entity {
		def, err := l.entity(je)
		if err != nil {
			return nil, err
		}
		if _, dup := doc.Entities[def.Name]; dup {
			return nil, fmt.Errorf("spriter: duplicate entity %q: %w", def.Name, ErrMalformedDocument)
		}
		doc.Entities[def.Name] = def
		doc.EntityNames = append(doc.EntityNames, def.Name)
	}

	for _, name := range doc.EntityNames {
		def := doc.Entities[name]
		for _, an := range def.AnimationNames {
			a := def.Animations[an]
			doc.diag.debugCheckUnsupported(name, a)
			doc.diag.debugCheckParents(name, a)
		}
	}
	return doc, nil
}

// --- JSON structure types ---

type jsonSCON struct {
	Version          string                `json:"scon_version"`
	Generator        string                `json:"generator"`
	GeneratorVersion string                `json:"generator_version"`
	Folder           *jsonList[jsonFolder] `json:"folder"`
	Entity           *jsonList[jsonEntity] `json:"entity"`
}

type jsonFolder struct {
	ID   *jsonNum           `json:"id"`
	Name string             `json:"name"`
	File jsonList[jsonFile] `json:"file"`
}

type jsonFile struct {
	ID     *jsonNum `json:"id"`
	Name   string   `json:"name"`
	Width  *jsonNum `json:"width"`
	Height *jsonNum `json:"height"`
	PivotX *jsonNum `json:"pivot_x"`
	PivotY *jsonNum `json:"pivot_y"`
}

type jsonEntity struct {
	ID        *jsonNum                 `json:"id"`
	Name      string                   `json:"name"`
	Animation *jsonList[jsonAnimation] `json:"animation"`
}

type jsonAnimation struct {
	ID       *jsonNum               `json:"id"`
	Name     string                 `json:"name"`
	Length   *jsonNum               `json:"length"`
	Looping  *jsonLoop              `json:"looping"`
	LoopTo   *jsonNum               `json:"loop_to"`
	Mainline *jsonMainline          `json:"mainline"`
	Timeline jsonList[jsonTimeline] `json:"timeline"`
}

type jsonMainline struct {
	Key jsonList[jsonMainlineKey] `json:"key"`
}

type jsonMainlineKey struct {
	ID        *jsonNum              `json:"id"`
	Time      *jsonNum              `json:"time"`
	Bone      jsonList[jsonSpatial] `json:"bone"`
	BoneRef   jsonList[jsonRef]     `json:"bone_ref"`
	Object    jsonList[jsonSpatial] `json:"object"`
	ObjectRef jsonList[jsonRef]     `json:"object_ref"`
}

type jsonRef struct {
	ID       *jsonNum `json:"id"`
	Parent   *jsonNum `json:"parent"`
	Timeline *jsonNum `json:"timeline"`
	Key      *jsonNum `json:"key"`
	ZIndex   *jsonNum `json:"z_index"`
	ZIndexJS *jsonNum `json:"zIndex"`
}

// jsonSpatial covers bones and objects: both carry a transform, objects add
// file, pivot, z-order, and alpha.
type jsonSpatial struct {
	ID       *jsonNum `json:"id"`
	Parent   *jsonNum `json:"parent"`
	X        *jsonNum `json:"x"`
	Y        *jsonNum `json:"y"`
	Angle    *jsonNum `json:"angle"`
	ScaleX   *jsonNum `json:"scale_x"`
	ScaleY   *jsonNum `json:"scale_y"`
	Folder   *jsonNum `json:"folder"`
	File     *jsonNum `json:"file"`
	PivotX   *jsonNum `json:"pivot_x"`
	PivotY   *jsonNum `json:"pivot_y"`
	ZIndex   *jsonNum `json:"z_index"`
	ZIndexJS *jsonNum `json:"zIndex"`
	Alpha    *jsonNum `json:"a"`
}

type jsonTimeline struct {
	ID         *jsonNum                  `json:"id"`
	Name       string                    `json:"name"`
	ObjectType string                    `json:"object_type"`
	Key        jsonList[jsonTimelineKey] `json:"key"`
}

type jsonTimelineKey struct {
	ID        *jsonNum     `json:"id"`
	Time      *jsonNum     `json:"time"`
	Spin      *jsonNum     `json:"spin"`
	CurveType *jsonCurve   `json:"curve_type"`
	C1        *jsonNum     `json:"c1"`
	C2        *jsonNum     `json:"c2"`
	C3        *jsonNum     `json:"c3"`
	C4        *jsonNum     `json:"c4"`
	Bone      *jsonSpatial `json:"bone"`
	Object    *jsonSpatial `json:"object"`
}

// jsonNum accepts a JSON number or a string holding one.
type jsonNum float64

func (n *jsonNum) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("numeric string %q: %w", s, err)
		}
		*n = jsonNum(f)
		return nil
	}
	return json.Unmarshal(b, (*float64)(n))
}

// jsonList accepts either a JSON array of T or a single T.
type jsonList[T any] []T

func (l *jsonList[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = jsonList[T]{}
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var one T
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*l = jsonList[T]{one}
	return nil
}

// jsonCurve accepts a curve name or its numeric code.
type jsonCurve CurveKind

var curveNames = map[string]CurveKind{
	"instant":   CurveInstant,
	"linear":    CurveLinear,
	"quadratic": CurveQuadratic,
	"cubic":     CurveCubic,
	"quartic":   CurveQuartic,
	"quintic":   CurveQuintic,
}

func (c *jsonCurve) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if k, ok := curveNames[strings.ToLower(s)]; ok {
			*c = jsonCurve(k)
			return nil
		}
		if i, err := strconv.Atoi(s); err == nil {
			return c.fromCode(i)
		}
		return fmt.Errorf("unknown curve_type %q", s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	return c.fromCode(int(f))
}

func (c *jsonCurve) fromCode(i int) error {
	if i < int(CurveInstant) || i > int(CurveQuintic) {
		return fmt.Errorf("unknown curve_type %d", i)
	}
	*c = jsonCurve(i)
	return nil
}

// jsonLoop accepts "true", "false", "ping_pong", or a JSON bool.
type jsonLoop LoopMode

func (m *jsonLoop) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		if x {
			*m = jsonLoop(LoopForward)
		} else {
			*m = jsonLoop(LoopOnce)
		}
		return nil
	case string:
		switch strings.ToLower(x) {
		case "true", "loop":
			*m = jsonLoop(LoopForward)
		case "false", "once":
			*m = jsonLoop(LoopOnce)
		case "ping_pong":
			*m = jsonLoop(LoopPingPong)
		default:
			return fmt.Errorf("unknown looping mode %q", x)
		}
		return nil
	}
	return fmt.Errorf("looping must be a string or bool, got %s", b)
}

// --- conversion ---

func num(n *jsonNum, def float64) float64 {
	if n == nil {
		return def
	}
	return float64(*n)
}

func integer(n *jsonNum, def int) int {
	if n == nil {
		return def
	}
	return int(*n)
}

func loadFolder(jf jsonFolder) Folder {
	f := Folder{ID: integer(jf.ID, -1), Name: jf.Name}
	for _, file := range jf.File {
		f.Files = append(f.Files, File{
			ID:     integer(file.ID, -1),
			Name:   file.Name,
			Width:  num(file.Width, 0),
			Height: num(file.Height, 0),
			Pivot:  Vec2{num(file.PivotX, 0), num(file.PivotY, 1)},
		})
	}
	return f
}

func loadTransform(j *jsonSpatial) Transform {
	return Transform{
		Position: Vec2{num(j.X, 0), num(j.Y, 0)},
		Rotation: Deg2Rad(num(j.Angle, 0)),
		Scale:    Vec2{num(j.ScaleX, 1), num(j.ScaleY, 1)},
	}
}

func zIndex(a, b *jsonNum) int {
	if a != nil {
		return int(*a)
	}
	return integer(b, 0)
}

type loader struct {
	doc *Document
	// context for error messages
	entityName, animName string
	// length of the animation being loaded
	length int
}

// maxMillis bounds every time and length.
const maxMillis = math.MaxInt32

// millis converts a time or length field, rejecting values that are not a
// whole number of milliseconds in [0, limit].
func (l *loader) millis(n *jsonNum, limit int, what string) (int, error) {
	if n == nil {
		return 0, nil
	}
	v := float64(*n)
	if v != math.Trunc(v) {
		return 0, l.errorf("%s %v is not a whole number of milliseconds", what, v)
	}
	if v < 0 || v > float64(limit) {
		return 0, l.errorf("%s %v outside [0, %d]", what, v, limit)
	}
	return int(v), nil
}

func (l *loader) errorf(format string, args ...any) error {
	return fmt.Errorf("spriter: entity %q animation %q: %s: %w",
		l.entityName, l.animName, fmt.Sprintf(format, args...), ErrMalformedDocument)
}

func (l *loader) entity(je jsonEntity) (*EntityDef, error) {
	l.entityName, l.animName = je.Name, ""
	if je.Animation == nil {
		return nil, fmt.Errorf("spriter: entity %q has no \"animation\" key: %w", je.Name, ErrMalformedDocument)
	}
	def := &EntityDef{
		ID:         integer(je.ID, -1),
		Name:       je.Name,
		Animations: make(map[string]*Animation, len(*je.Animation)),
		doc:        l.doc,
	}
	for _, ja := range *je.Animation {
		a, err := l.animation(ja)
		if err != nil {
			return nil, err
		}
		if _, dup := def.Animations[a.Name]; dup {
			return nil, l.errorf("duplicate animation name")
		}
		def.Animations[a.Name] = a
		def.AnimationNames = append(def.AnimationNames, a.Name)
	}
	return def, nil
}

func (l *loader) animation(ja jsonAnimation) (*Animation, error) {
	l.animName = ja.Name
	a := &Animation{
		ID:   integer(ja.ID, -1),
		Name: ja.Name,
	}
	var err error
	if a.Length, err = l.millis(ja.Length, maxMillis, "length"); err != nil {
		return nil, err
	}
	if a.LoopTo, err = l.millis(ja.LoopTo, a.Length, "loop_to"); err != nil {
		return nil, err
	}
	l.length = a.Length
	if ja.Looping != nil {
		a.Looping = LoopMode(*ja.Looping)
	}
	if ja.Mainline == nil {
		return nil, l.errorf("no mainline")
	}

	for _, jt := range ja.Timeline {
		tl, err := l.timeline(jt)
		if err != nil {
			return nil, err
		}
		if tl.Kind == TimelineUnsupported {
			a.Unsupported = append(a.Unsupported, UnsupportedTimeline{ID: tl.ID, Name: tl.Name, Kind: tl.KindName})
		}
		a.Timelines = append(a.Timelines, tl)
	}

	for _, jk := range ja.Mainline.Key {
		k, err := l.mainlineKey(jk)
		if err != nil {
			return nil, err
		}
		a.Mainline.Keyframes = append(a.Mainline.Keyframes, k)
	}
	slices.SortStableFunc(a.Mainline.Keyframes, func(x, y MainlineKeyframe) int { return x.Time - y.Time })

	a.MinTime = 0
	a.MaxTime = a.Length
	a.index()
	return a, nil
}

func (l *loader) timeline(jt jsonTimeline) (Timeline, error) {
	tl := Timeline{
		ID:       integer(jt.ID, -1),
		Name:     jt.Name,
		KindName: jt.ObjectType,
	}
	switch jt.ObjectType {
	case "", "sprite":
		tl.Kind = TimelineSprite
		tl.KindName = "sprite"
	case "bone":
		tl.Kind = TimelineBone
	default:
		// box, point, sound, entity, variable
		tl.Kind = TimelineUnsupported
		return tl, nil
	}

	for _, jk := range jt.Key {
		id := integer(jk.ID, -1)
		at, err := l.millis(jk.Time, l.length, fmt.Sprintf("timeline %d key %d: time", tl.ID, id))
		if err != nil {
			return tl, err
		}
		k := TimelineKeyframe{
			Keyframe: Keyframe{ID: id, Time: at},
			Spin:     integer(jk.Spin, 1),
			Curve:    CurveLinear,
			C:        [4]float64{num(jk.C1, 0), num(jk.C2, 0), num(jk.C3, 0), num(jk.C4, 0)},
		}
		if k.Spin < -1 || k.Spin > 1 {
			return tl, l.errorf("timeline %d key %d: spin %d not in {-1,0,1}", tl.ID, k.ID, k.Spin)
		}
		if jk.CurveType != nil {
			k.Curve = CurveKind(*jk.CurveType)
		}
		switch tl.Kind {
		case TimelineBone:
			j := jk.Bone
			if j == nil {
				j = &jsonSpatial{}
			}
			k.Bone = Bone{ID: -1, ParentID: -1, Local: loadTransform(j)}
			k.Bone.World = k.Bone.Local
		case TimelineSprite:
			j := jk.Object
			if j == nil {
				j = &jsonSpatial{}
			}
			el, err := l.element(j, fmt.Sprintf("timeline %d key %d", tl.ID, k.ID))
			if err != nil {
				return tl, err
			}
			k.Element = el
		}
		tl.Keyframes = append(tl.Keyframes, k)
	}
	slices.SortStableFunc(tl.Keyframes, func(x, y TimelineKeyframe) int { return x.Time - y.Time })
	return tl, nil
}

// element converts an object record, resolving its file and default pivot.
func (l *loader) element(j *jsonSpatial, where string) (Element, error) {
	e := Element{
		ID:       integer(j.ID, -1),
		ParentID: integer(j.Parent, -1),
		FolderID: integer(j.Folder, -1),
		FileID:   integer(j.File, -1),
		Local:    loadTransform(j),
		ZIndex:   zIndex(j.ZIndex, j.ZIndexJS),
		Alpha:    num(j.Alpha, 1),
	}
	e.World = e.Local
	f, ok := l.doc.File(e.FolderID, e.FileID)
	if !ok {
		return e, l.errorf("%s: object %d: folder %d file %d not found", where, e.ID, e.FolderID, e.FileID)
	}
	e.Name = f.Name
	if j.PivotX != nil || j.PivotY != nil {
		e.Pivot = Vec2{num(j.PivotX, 0), num(j.PivotY, 1)}
	} else {
		e.Pivot = f.Pivot
		e.DefaultPivot = true
	}
	return e, nil
}

func ref(j jsonRef) (id, parent, timeline, key int) {
	return integer(j.ID, -1), integer(j.Parent, -1), integer(j.Timeline, -1), integer(j.Key, -1)
}

func (l *loader) mainlineKey(jk jsonMainlineKey) (MainlineKeyframe, error) {
	k := MainlineKeyframe{Keyframe: Keyframe{ID: integer(jk.ID, -1)}}
	var err error
	if k.Time, err = l.millis(jk.Time, l.length, fmt.Sprintf("mainline key %d: time", k.ID)); err != nil {
		return k, err
	}
	for i := range jk.Bone {
		j := &jk.Bone[i]
		b := Bone{ID: integer(j.ID, -1), ParentID: integer(j.Parent, -1), Local: loadTransform(j)}
		b.World = b.Local
		k.Bones = append(k.Bones, BoneSlot{Kind: SlotLiteral, Bone: b})
	}
	for _, j := range jk.BoneRef {
		var r BoneRef
		r.ID, r.ParentID, r.TimelineID, r.KeyframeID = ref(j)
		k.Bones = append(k.Bones, BoneSlot{Kind: SlotRef, Ref: r})
	}
	for i := range jk.Object {
		el, err := l.element(&jk.Object[i], fmt.Sprintf("mainline key %d", k.ID))
		if err != nil {
			return k, err
		}
		k.Elements = append(k.Elements, ElementSlot{Kind: SlotLiteral, Element: el})
	}
	for _, j := range jk.ObjectRef {
		var r ElementRef
		r.ID, r.ParentID, r.TimelineID, r.KeyframeID = ref(j)
		r.ZIndex = zIndex(j.ZIndex, j.ZIndexJS)
		k.Elements = append(k.Elements, ElementSlot{Kind: SlotRef, Ref: r})
	}
	slices.SortStableFunc(k.Bones, func(x, y BoneSlot) int { return x.SlotID() - y.SlotID() })
	slices.SortStableFunc(k.Elements, func(x, y ElementSlot) int { return x.SlotID() - y.SlotID() })
	return k, nil
}
