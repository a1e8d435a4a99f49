package render

import "sort"

// Diff is the minimal set of operations that turns the previous key set into
// the current one.
type Diff struct {
	Create []string // current - previous, in current order
	Update []string // current ∩ previous, in current order
	Remove []string // previous - current, sorted
}

// Reconcile computes the three-way set difference between the live keys and
// the keys of the next frame. Repeated keys in current are counted once.
func Reconcile(previous map[string]struct{}, current []string) Diff {
	var d Diff
	seen := make(map[string]struct{}, len(current))
	for _, k := range current {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := previous[k]; ok {
			d.Update = append(d.Update, k)
		} else {
			d.Create = append(d.Create, k)
		}
	}
	for k := range previous {
		if _, ok := seen[k]; !ok {
			d.Remove = append(d.Remove, k)
		}
	}
	sort.Strings(d.Remove)
	return d
}

// Empty reports whether the diff only updates in place.
func (d Diff) Empty() bool {
	return len(d.Create) == 0 && len(d.Remove) == 0
}
