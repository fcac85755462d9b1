package spriter

import (
	"fmt"
	"slices"
)

// File is one image asset referenced by elements. Pivot is the default
// normalized anchor used when an element does not author its own.
type File struct {
	ID     int
	Name   string
	Width  float64
	Height float64
	Pivot  Vec2
}

// Folder is an ordered collection of Files.
type Folder struct {
	ID    int
	Name  string
	Files []File
}

// FileResolver resolves a (folder index, file index) pair to a File.
type FileResolver interface {
	File(folderID, fileID int) (*File, bool)
}

// Bone is one node of the skeleton. ParentID is the id of the parent bone,
// or -1 for a root.
type Bone struct {
	ID       int
	ParentID int
	Local    Transform
	World    Transform
}

// BoneRef says "this slot's pose comes from timeline TimelineID, keyframe
// KeyframeID".
type BoneRef struct {
	ID         int
	ParentID   int
	TimelineID int
	KeyframeID int
}

// Element is a sprite-like attachment hanging off a bone (or off nothing).
// ParentID is a bone id, or -1.
type Element struct {
	ID       int
	ParentID int
	FolderID int
	FileID   int
	Local    Transform
	World    Transform
	// Pivot is the normalized anchor within the file's bounds.
	Pivot Vec2
	// DefaultPivot is true when Pivot was inherited from the File.
	DefaultPivot bool
	ZIndex       int
	Alpha        float64
	// Name identifies the element to a rendering bridge. Referenced elements
	// are named after their timeline; literal ones after their file.
	Name string
}

// ElementRef is the Element counterpart of BoneRef.
type ElementRef struct {
	ID         int
	ParentID   int
	TimelineID int
	KeyframeID int
	ZIndex     int
}

// BoneSlot is a tagged variant holding either a literal Bone or a BoneRef.
type BoneSlot struct {
	Kind SlotKind
	Bone Bone
	Ref  BoneRef
}

// SlotID returns the id of whichever variant the slot holds.
func (s BoneSlot) SlotID() int {
	if s.Kind == SlotRef {
		return s.Ref.ID
	}
	return s.Bone.ID
}

// ElementSlot is a tagged variant holding either a literal Element or an
// ElementRef.
type ElementSlot struct {
	Kind    SlotKind
	Element Element
	Ref     ElementRef
}

// SlotID returns the id of whichever variant the slot holds.
func (s ElementSlot) SlotID() int {
	if s.Kind == SlotRef {
		return s.Ref.ID
	}
	return s.Element.ID
}

// MainlineKeyframe is a full snapshot of the pose graph at one instant.
// Bones and Elements are sorted by slot id.
type MainlineKeyframe struct {
	Keyframe
	Bones    []BoneSlot
	Elements []ElementSlot
}

// Mainline is the master keyframe track of an Animation.
type Mainline struct {
	Keyframes []MainlineKeyframe
}

// TimelineKeyframe is one keyframe of a Timeline. Exactly one of Bone or
// Element is meaningful, selected by the owning Timeline's Kind.
type TimelineKeyframe struct {
	Keyframe
	// Spin is the rotation direction toward the next key: 1 counter-clockwise,
	// -1 clockwise, 0 plain linear.
	Spin  int
	Curve CurveKind
	// C holds the curve control values c1..c4.
	C       [4]float64
	Bone    Bone
	Element Element
}

// Tween returns the tween factor for time t between this keyframe (at t1)
// and the next one (at t2).
func (k *TimelineKeyframe) Tween(t1, t2, t float64) float64 {
	return EvaluateCurve(k.Curve, k.C, t1, t2, t)
}

// Timeline is the keyframe track of one bone or element.
type Timeline struct {
	ID   int
	Name string
	Kind TimelineKind
	// KindName is the authored object_type, kept for diagnostics.
	KindName  string
	Keyframes []TimelineKeyframe

	keyIndex map[int]int
}

// Key returns the keyframe with the given id and its index.
func (tl *Timeline) Key(id int) (*TimelineKeyframe, int, bool) {
	if tl.keyIndex != nil {
		i, ok := tl.keyIndex[id]
		if !ok {
			return nil, -1, false
		}
		return &tl.Keyframes[i], i, true
	}
	for i := range tl.Keyframes {
		if tl.Keyframes[i].ID == id {
			return &tl.Keyframes[i], i, true
		}
	}
	return nil, -1, false
}

// UnsupportedTimeline records a timeline whose kind produces no poses.
type UnsupportedTimeline struct {
	ID   int
	Name string
	Kind string
}

// Animation is one named clip of an entity.
type Animation struct {
	ID      int
	Name    string
	Length  int
	Looping LoopMode
	// LoopTo is the authored loop_to time. Playback wraps into
	// [MinTime, MaxTime); LoopTo is informational.
	LoopTo    int
	Mainline  Mainline
	Timelines []Timeline
	MinTime   int
	MaxTime   int
	// Unsupported lists timelines of kinds the sampler ignores.
	Unsupported []UnsupportedTimeline

	timelineIndex map[int]int
}

// Timeline returns the timeline with the given id.
func (a *Animation) Timeline(id int) (*Timeline, bool) {
	if a.timelineIndex != nil {
		i, ok := a.timelineIndex[id]
		if !ok {
			return nil, false
		}
		return &a.Timelines[i], true
	}
	for i := range a.Timelines {
		if a.Timelines[i].ID == id {
			return &a.Timelines[i], true
		}
	}
	return nil, false
}

// index builds the id lookup tables. Called once after the animation is
// fully populated; the Animation is read-only afterwards.
func (a *Animation) index() {
	a.timelineIndex = make(map[int]int, len(a.Timelines))
	for i := range a.Timelines {
		tl := &a.Timelines[i]
		a.timelineIndex[tl.ID] = i
		tl.keyIndex = make(map[int]int, len(tl.Keyframes))
		for j := range tl.Keyframes {
			tl.keyIndex[tl.Keyframes[j].ID] = j
		}
	}
}

// Finalize prepares a hand-built Animation for sampling: it sets MaxTime
// from Length when unset and builds id lookup tables. LoadDocument calls it
// for every animation it loads.
func (a *Animation) Finalize() {
	if a.MaxTime == 0 {
		a.MaxTime = a.Length
	}
	a.index()
}

// EntityDef is the read-only definition of an entity: its named animations.
type EntityDef struct {
	ID   int
	Name string
	// Animations maps animation name to Animation.
	Animations map[string]*Animation
	// AnimationNames lists animation names in authored order.
	AnimationNames []string

	doc *Document
}

// Document returns the Document the definition belongs to.
func (e *EntityDef) Document() *Document { return e.doc }

// Document is a loaded animation document: folders of files and entity
// definitions. It is immutable after load and may be shared by any number
// of Entities, including across goroutines.
type Document struct {
	Version          string
	Generator        string
	GeneratorVersion string
	Folders          []Folder
	Entities         map[string]*EntityDef
	// EntityNames lists entity names in authored order.
	EntityNames []string

	diag *diagnostics
}

// File resolves a (folder index, file index) pair.
func (d *Document) File(folderID, fileID int) (*File, bool) {
	if folderID < 0 || folderID >= len(d.Folders) {
		return nil, false
	}
	files := d.Folders[folderID].Files
	if fileID < 0 || fileID >= len(files) {
		return nil, false
	}
	return &files[fileID], true
}

// Entity returns the named entity definition.
func (d *Document) Entity(name string) (*EntityDef, error) {
	e, ok := d.Entities[name]
	if !ok {
		return nil, fmt.Errorf("spriter: entity %q: %w", name, ErrUnknownEntity)
	}
	return e, nil
}

// ListEntities returns entity names in authored order. The returned slice
// MUST NOT be mutated.
func (d *Document) ListEntities() []string {
	return d.EntityNames
}

// AddEntity registers a hand-built entity definition with the document and
// finalizes its animations. Documents built by LoadDocument are already
// populated.
func (d *Document) AddEntity(e *EntityDef) {
	if e == nil {
		panic("spriter: cannot add nil entity")
	}
	if d.Entities == nil {
		d.Entities = make(map[string]*EntityDef)
	}
	if _, exists := d.Entities[e.Name]; !exists {
		d.EntityNames = append(d.EntityNames, e.Name)
	}
	if e.Animations == nil {
		e.Animations = make(map[string]*Animation)
	}
	for _, a := range e.Animations {
		a.Finalize()
	}
	if len(e.AnimationNames) == 0 {
		for name := range e.Animations {
			e.AnimationNames = append(e.AnimationNames, name)
		}
		slices.Sort(e.AnimationNames)
	}
	e.doc = d
	d.Entities[e.Name] = e
}
