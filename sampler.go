package spriter

import (
	"fmt"
	"slices"
)

// Pose is the sampled state of an entity at one instant: every active bone
// and element with its local and world transforms. Elements are in z-order
// (mainline slot order, sorted by element id).
type Pose struct {
	Bones    []Bone
	Elements []Element
}

// Bone returns the pose bone with the given id.
func (p *Pose) Bone(id int) (*Bone, bool) {
	if i := boneIndex(p.Bones, id, len(p.Bones)); i >= 0 {
		return &p.Bones[i], true
	}
	return nil, false
}

// Element returns the pose element with the given name.
func (p *Pose) Element(name string) (*Element, bool) {
	for i := range p.Elements {
		if p.Elements[i].Name == name {
			return &p.Elements[i], true
		}
	}
	return nil, false
}

// resize returns s with length n, growing its backing array only when the
// capacity is insufficient.
func resize[T any](s []T, n int) []T {
	if n <= cap(s) {
		return s[:n]
	}
	return slices.Grow(s[:0], n)[:n]
}

// SamplePose computes the pose of anim at time t (milliseconds) into out.
// files resolves element files for pivot correction and naming.
//
// out's buffers are reused. On error out may hold a partial result; callers
// that must keep the previous pose intact sample into a scratch Pose, as
// Entity does.
func SamplePose(anim *Animation, files FileResolver, t float64, out *Pose) error {
	keys := anim.Mainline.Keyframes
	if len(keys) == 0 {
		return fmt.Errorf("spriter: animation %q has no mainline keyframes: %w", anim.Name, ErrUnresolvedReference)
	}
	ki := Locate(keys, t)
	if ki < 0 {
		ki = 0
	}
	key := &keys[ki]

	if err := sampleBones(anim, key, t, out); err != nil {
		return err
	}
	return sampleElements(anim, files, key, t, out)
}

// boneIndex finds the bone with the given id among the first n entries of
// bones, which are sorted by id. It returns -1 when absent.
func boneIndex(bones []Bone, id, n int) int {
	if id < 0 {
		return -1
	}
	bones = bones[:n]
	// Ids usually equal indices.
	if id < n && bones[id].ID == id {
		return id
	}
	i, ok := slices.BinarySearchFunc(bones, id, func(b Bone, id int) int { return b.ID - id })
	if !ok {
		return -1
	}
	return i
}

// dereference resolves a timeline keyframe reference and returns the start
// keyframe, its cyclic successor (nil when there is none), and the adjusted
// end time.
func dereference(anim *Animation, timelineID, keyID int, kind TimelineKind) (tl *Timeline, k1, k2 *TimelineKeyframe, t2 float64, err error) {
	tl, ok := anim.Timeline(timelineID)
	if !ok {
		return nil, nil, nil, 0, fmt.Errorf("spriter: animation %q: timeline %d: %w", anim.Name, timelineID, ErrUnresolvedReference)
	}
	if tl.Kind == TimelineUnsupported {
		return tl, nil, nil, 0, nil
	}
	if tl.Kind != kind {
		return nil, nil, nil, 0, fmt.Errorf("spriter: animation %q: timeline %d is %s, not %s: %w",
			anim.Name, timelineID, tl.KindName, kindName(kind), ErrUnresolvedReference)
	}
	k1, i1, ok := tl.Key(keyID)
	if !ok {
		return nil, nil, nil, 0, fmt.Errorf("spriter: animation %q: timeline %d key %d: %w", anim.Name, timelineID, keyID, ErrUnresolvedReference)
	}
	i2 := (i1 + 1) % len(tl.Keyframes)
	if i2 == i1 {
		return tl, k1, nil, 0, nil
	}
	k2 = &tl.Keyframes[i2]
	t2 = float64(k2.Time)
	if t2 < float64(k1.Time) {
		t2 += float64(anim.Length)
	}
	return tl, k1, k2, t2, nil
}

func resolveFile(files FileResolver, folderID, fileID int) (*File, bool) {
	if files == nil {
		return nil, false
	}
	return files.File(folderID, fileID)
}

func kindName(k TimelineKind) string {
	switch k {
	case TimelineBone:
		return "bone"
	case TimelineSprite:
		return "sprite"
	default:
		return "unsupported"
	}
}

func sampleBones(anim *Animation, key *MainlineKeyframe, t float64, out *Pose) error {
	out.Bones = resize(out.Bones, len(key.Bones))
	n := 0
	for i := range key.Bones {
		slot := &key.Bones[i]
		pb := &out.Bones[n]
		switch slot.Kind {
		case SlotLiteral:
			*pb = slot.Bone
		case SlotRef:
			ref := &slot.Ref
			_, k1, k2, t2, err := dereference(anim, ref.TimelineID, ref.KeyframeID, TimelineBone)
			if err != nil {
				return err
			}
			if k1 == nil {
				continue
			}
			*pb = k1.Bone
			pb.ID = ref.ID
			pb.ParentID = ref.ParentID
			if k2 != nil {
				tw := k1.Tween(float64(k1.Time), t2, t)
				pb.Local = Interpolate(k1.Bone.Local, k2.Bone.Local, tw, k1.Spin)
				pb.Local.Rotation = WrapAngle(pb.Local.Rotation)
			}
		default:
			return fmt.Errorf("spriter: animation %q: bone slot %d kind %d: %w", anim.Name, i, slot.Kind, ErrUnknownSlot)
		}
		n++
	}
	out.Bones = out.Bones[:n]

	// Parents precede children in id order, so one pass composes the tree.
	for i := range out.Bones {
		b := &out.Bones[i]
		if p := boneIndex(out.Bones, b.ParentID, i); p >= 0 {
			b.World = Compose(out.Bones[p].World, b.Local)
			continue
		}
		if boneIndex(out.Bones, b.ParentID, len(out.Bones)) >= i {
			return fmt.Errorf("spriter: animation %q: bone %d parent %d does not precede it: %w",
				anim.Name, b.ID, b.ParentID, ErrUnresolvedReference)
		}
		b.World = b.Local
	}
	return nil
}

func sampleElements(anim *Animation, files FileResolver, key *MainlineKeyframe, t float64, out *Pose) error {
	out.Elements = resize(out.Elements, len(key.Elements))
	n := 0
	for i := range key.Elements {
		slot := &key.Elements[i]
		pe := &out.Elements[n]
		switch slot.Kind {
		case SlotLiteral:
			*pe = slot.Element
		case SlotRef:
			ref := &slot.Ref
			tl, k1, k2, t2, err := dereference(anim, ref.TimelineID, ref.KeyframeID, TimelineSprite)
			if err != nil {
				return err
			}
			if k1 == nil {
				continue
			}
			*pe = k1.Element
			pe.ID = ref.ID
			pe.ParentID = ref.ParentID
			pe.ZIndex = ref.ZIndex
			pe.Name = tl.Name
			if k2 != nil {
				tw := k1.Tween(float64(k1.Time), t2, t)
				e2 := &k2.Element
				pe.Local = Interpolate(k1.Element.Local, e2.Local, tw, k1.Spin)
				pe.Local.Rotation = WrapAngle(pe.Local.Rotation)
				pe.Pivot = k1.Element.Pivot.Lerp(e2.Pivot, tw)
				pe.Alpha = Lerp(k1.Element.Alpha, e2.Alpha, tw)
			}
		default:
			return fmt.Errorf("spriter: animation %q: element slot %d kind %d: %w", anim.Name, i, slot.Kind, ErrUnknownSlot)
		}

		if p := boneIndex(out.Bones, pe.ParentID, len(out.Bones)); p >= 0 {
			pe.World = Compose(out.Bones[p].World, pe.Local)
			if f, ok := resolveFile(files, pe.FolderID, pe.FileID); ok {
				pe.World = pe.World.Translate(
					(0.5-pe.Pivot.X)*f.Width,
					(0.5-pe.Pivot.Y)*f.Height)
			}
		} else {
			// Parentless elements are placed as authored, without pivot correction.
			pe.World = pe.Local
		}
		n++
	}
	out.Elements = out.Elements[:n]
	return nil
}
