package record

// List is an ordered collection of records of mixed schemas.
type List []*Record

// RemoveSubsets returns the records that are not subsets of another record
// of the same schema, in their original order. Unless strict, exact
// duplicates are collapsed to their last occurrence; with strict they are
// all kept.
func (l List) RemoveSubsets(strict bool) List {
	groups := make(map[*Schema][]int)
	var order []*Schema
	for i, r := range l {
		if r == nil {
			continue
		}
		if _, ok := groups[r.schema]; !ok {
			order = append(order, r.schema)
		}
		groups[r.schema] = append(groups[r.schema], i)
	}

	removed := make([]bool, len(l))
	for _, schema := range order {
		idx := groups[schema]
		for a, i := range idx {
			for b, j := range idx {
				if a == b || removed[j] {
					continue
				}
				if !l[i].IsSubset(l[j]) {
					continue
				}
				if l[i].Equal(l[j]) && (strict || a > b) {
					continue
				}
				removed[i] = true
				break
			}
		}
	}

	out := make(List, 0, len(l))
	for i, r := range l {
		if r != nil && !removed[i] {
			out = append(out, r)
		}
	}
	return out
}

// Schemas returns the distinct schemas in the list in first-seen order.
func (l List) Schemas() []*Schema {
	seen := make(map[*Schema]bool)
	var out []*Schema
	for _, r := range l {
		if r == nil || seen[r.schema] {
			continue
		}
		seen[r.schema] = true
		out = append(out, r.schema)
	}
	return out
}

// Serialize returns the primitive form of every record.
func (l List) Serialize() []map[string]any {
	out := make([]map[string]any, 0, len(l))
	for _, r := range l {
		if r != nil {
			out = append(out, r.Serialize(true))
		}
	}
	return out
}
