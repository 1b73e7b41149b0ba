package frame

import (
	"fmt"
	"sort"

	"github.com/wardenhq/warden/model"
)

// Registry holds every frame — built-in or installed — known to a run. It
// refuses duplicate ids and produces the stable execution order C4
// specifies.
type Registry struct {
	frames map[string]Frame
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{frames: make(map[string]Frame)}
}

// Register adds f to the registry. It returns an error if a frame with the
// same id is already registered — the loader never silently shadows one
// frame with another.
func (r *Registry) Register(f Frame) error {
	id := f.Metadata().ID
	if id == "" {
		return fmt.Errorf("frame has empty id")
	}
	if _, exists := r.frames[id]; exists {
		return fmt.Errorf("duplicate frame id %q", id)
	}
	r.frames[id] = f
	return nil
}

// Get looks up a registered frame by id.
func (r *Registry) Get(id string) (Frame, bool) {
	f, ok := r.frames[id]
	return f, ok
}

// Len reports how many frames are registered.
func (r *Registry) Len() int {
	return len(r.frames)
}

// Ordered returns every registered frame, stable-sorted by
// (priority_rank ascending, is_blocker descending, name ascending) per
// §4.4. Frames not in enabledIDs (when enabledIDs is non-nil) are excluded,
// and frames in disabledIDs are always excluded.
func (r *Registry) Ordered(enabledIDs, disabledIDs map[string]bool) []Frame {
	var frames []Frame
	for id, f := range r.frames {
		if disabledIDs[id] {
			continue
		}
		if enabledIDs != nil && len(enabledIDs) > 0 && !enabledIDs[id] {
			continue
		}
		frames = append(frames, f)
	}

	sort.SliceStable(frames, func(i, j int) bool {
		mi, mj := frames[i].Metadata(), frames[j].Metadata()
		if mi.Priority.Rank() != mj.Priority.Rank() {
			return mi.Priority.Rank() < mj.Priority.Rank()
		}
		if mi.IsBlocker != mj.IsBlocker {
			return mi.IsBlocker // true (descending) sorts first.
		}
		return mi.Name < mj.Name
	})

	return frames
}

// ByPhase groups an ordered frame list by declared phase, preserving the
// relative order within each phase, in the canonical phase sequence.
func ByPhase(frames []Frame) map[model.Phase][]Frame {
	grouped := make(map[model.Phase][]Frame)
	for _, f := range frames {
		phase := f.Metadata().Phase
		grouped[phase] = append(grouped[phase], f)
	}
	return grouped
}
