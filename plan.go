package transcache

// PlanResult classifies a batch by what resolving it would cost.
type PlanResult struct {
	// Passthrough contains items returned unchanged (empty text or source == target).
	Passthrough []Item

	// Cached contains items that would be answered from the cache.
	Cached []Item

	// Pending contains the distinct items that would reach the provider.
	Pending []Item

	// Duplicates counts uncached items that repeat a Pending item and
	// would share its fetch.
	Duplicates int
}

// PlanStats contains summary statistics for a plan.
type PlanStats struct {
	Passthrough int
	Cached      int
	Pending     int
	Duplicates  int
}

// Stats returns summary statistics for the plan.
func (p *PlanResult) Stats() PlanStats {
	return PlanStats{
		Passthrough: len(p.Passthrough),
		Cached:      len(p.Cached),
		Pending:     len(p.Pending),
		Duplicates:  p.Duplicates,
	}
}

// NeedsFetch returns true if resolving the batch would call the provider.
func (p *PlanResult) NeedsFetch() bool {
	return len(p.Pending) > 0
}

// Plan reports how a batch would be resolved without calling the provider.
// Items keep their input order within each group. Like ResolveAll, Plan
// panics with *InvalidKeyError on an invalid language code.
func (c *Coordinator) Plan(items []Item) *PlanResult {
	result := &PlanResult{}
	seen := make(map[Key]bool)

	for _, item := range items {
		key, err := NewKey(item.Text, item.SourceLang, item.TargetLang)
		if err != nil {
			panic(err)
		}

		switch {
		case isPassthrough(key):
			result.Passthrough = append(result.Passthrough, item)
		case c.cache.Has(key):
			result.Cached = append(result.Cached, item)
		case seen[key]:
			result.Duplicates++
		default:
			seen[key] = true
			result.Pending = append(result.Pending, item)
		}
	}

	return result
}
