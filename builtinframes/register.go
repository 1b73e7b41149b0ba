package builtinframes

import "github.com/wardenhq/warden/frame"

// RegisterAll adds every built-in frame to reg. Callers that want a subset
// enabled still register everything here — the pipeline's enabled/disabled
// filtering (frame.Registry.Ordered) is what actually controls which frames
// run for a given invocation.
func RegisterAll(reg *frame.Registry) error {
	frames := []frame.Frame{
		NewSecurityFrame(),
		NewOrphanFrame(),
		NewContractFrame(),
	}
	for _, f := range frames {
		if err := reg.Register(f); err != nil {
			return err
		}
	}
	return nil
}
