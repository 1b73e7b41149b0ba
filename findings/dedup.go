package findings

import "github.com/wardenhq/warden/model"

// Dedup collapses findings sharing a fingerprint to a single survivor — the
// earliest by input order (which callers must supply in frame-execution
// order) wins, and a duplicate_count is recorded in its metadata.
func Dedup(findings []model.Finding) []model.Finding {
	index := make(map[string]int, len(findings))
	var out []model.Finding

	for _, f := range findings {
		if pos, seen := index[f.Fingerprint]; seen {
			if out[pos].Metadata == nil {
				out[pos].Metadata = map[string]interface{}{}
			}
			count, _ := out[pos].Metadata["duplicate_count"].(int)
			out[pos].Metadata["duplicate_count"] = count + 1
			continue
		}
		index[f.Fingerprint] = len(out)
		out = append(out, f)
	}

	return out
}
