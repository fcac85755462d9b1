package spriter

import (
	"log"
)

// diagnostics writes debug-mode warnings. A nil *diagnostics or one with
// debug disabled drops everything.
type diagnostics struct {
	debug  bool
	logger *log.Logger
}

func newDiagnostics(debug bool, logger *log.Logger) *diagnostics {
	if logger == nil {
		logger = log.Default()
	}
	return &diagnostics{debug: debug, logger: logger}
}

func (d *diagnostics) enabled() bool {
	return d != nil && d.debug
}

// warnf logs a "spriter: warning:" line when debug mode is on.
func (d *diagnostics) warnf(format string, args ...any) {
	if !d.enabled() {
		return
	}
	d.logger.Printf("spriter: warning: "+format, args...)
}

// debugCheckUnsupported reports every timeline the sampler will ignore.
func (d *diagnostics) debugCheckUnsupported(entity string, a *Animation) {
	if !d.enabled() {
		return
	}
	for _, u := range a.Unsupported {
		d.warnf("entity %q animation %q: timeline %d %q has unsupported kind %q; it produces no poses",
			entity, a.Name, u.ID, u.Name, u.Kind)
	}
}

// debugCheckParents reports slots whose parent id names no bone in the same
// mainline keyframe, which are treated as roots, and bones whose parent does
// not precede them, which fail to sample.
func (d *diagnostics) debugCheckParents(entity string, a *Animation) {
	if !d.enabled() {
		return
	}
	for ki := range a.Mainline.Keyframes {
		key := &a.Mainline.Keyframes[ki]
		ids := make(map[int]bool, len(key.Bones))
		for _, b := range key.Bones {
			ids[b.SlotID()] = true
		}
		for _, b := range key.Bones {
			p := slotParent(b.Kind, b.Bone.ParentID, b.Ref.ParentID)
			switch {
			case p < 0:
			case !ids[p]:
				d.warnf("entity %q animation %q key %d: bone %d parent %d not found",
					entity, a.Name, key.ID, b.SlotID(), p)
			case p >= b.SlotID():
				d.warnf("entity %q animation %q key %d: bone %d parent %d does not precede it",
					entity, a.Name, key.ID, b.SlotID(), p)
			}
		}
		for _, e := range key.Elements {
			if p := slotParent(e.Kind, e.Element.ParentID, e.Ref.ParentID); p >= 0 && !ids[p] {
				d.warnf("entity %q animation %q key %d: element %d parent %d not found",
					entity, a.Name, key.ID, e.SlotID(), p)
			}
		}
	}
}

func slotParent(kind SlotKind, literal, ref int) int {
	if kind == SlotRef {
		return ref
	}
	return literal
}
