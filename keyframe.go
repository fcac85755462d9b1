package spriter

// Keyframe is the id and authored time (integer milliseconds) shared by
// mainline and timeline keyframes.
type Keyframe struct {
	ID   int
	Time int
}

// KeyTime returns the keyframe's time. It lets Locate search any keyframe
// sequence that embeds Keyframe.
func (k Keyframe) KeyTime() int { return k.Time }

// Timed is implemented by every keyframe type.
type Timed interface {
	KeyTime() int
}

// Locate returns the index of the last keyframe whose time does not exceed
// t. It returns -1 when keys is empty or t precedes the first keyframe, and
// the last index when t is at or beyond the last keyframe. keys must be
// sorted by ascending time.
func Locate[K Timed](keys []K, t float64) int {
	if len(keys) == 0 {
		return -1
	}
	if t < float64(keys[0].KeyTime()) {
		return -1
	}
	last := len(keys) - 1
	if t >= float64(keys[last].KeyTime()) {
		return last
	}
	// Invariant: keys[lo].time <= t < keys[hi].time.
	lo, hi := 0, last
	for hi-lo > 1 {
		mid := int(uint(lo+hi) >> 1)
		if float64(keys[mid].KeyTime()) <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
