package record

// IsSuperset reports whether r holds at least the information of other.
// Both records must share a schema.
func (r *Record) IsSuperset(other *Record) bool {
	if other == nil {
		return true
	}
	if r.schema != other.schema {
		return false
	}
	for _, f := range r.schema.fields {
		ov := other.values[f.Name]
		if isEmpty(ov) {
			continue
		}
		sv := r.values[f.Name]
		if isEmpty(sv) {
			return false
		}
		if f.Kind == KindModel {
			if !sv.(*Record).IsSuperset(ov.(*Record)) {
				return false
			}
			continue
		}
		if !equalValues(sv, ov) {
			return false
		}
	}
	return true
}

// IsSubset reports whether other holds at least the information of r.
func (r *Record) IsSubset(other *Record) bool {
	if other == nil {
		return r.IsEmpty()
	}
	return other.IsSuperset(r)
}

// Compatible reports whether r and other share a schema and no field,
// other than IgnoreWhenMerging ones, holds conflicting values.
func (r *Record) Compatible(other *Record) bool {
	if other == nil || r.schema != other.schema {
		return false
	}
	for _, f := range r.schema.fields {
		if f.IgnoreWhenMerging {
			continue
		}
		sv, ov := r.values[f.Name], other.values[f.Name]
		if isEmpty(sv) || isEmpty(ov) {
			continue
		}
		if f.Kind == KindModel {
			if !sv.(*Record).Compatible(ov.(*Record)) {
				return false
			}
			continue
		}
		if !equalValues(sv, ov) {
			return false
		}
	}
	return true
}

// BindingProperties returns the non-empty values of binding fields.
func (r *Record) BindingProperties() map[string]any {
	props := make(map[string]any)
	for _, f := range r.schema.fields {
		if !f.Binding {
			continue
		}
		if v := r.values[f.Name]; !isEmpty(v) {
			props[f.Name] = v
		}
	}
	return props
}

// BindingCompatible reports whether merging other into r would not
// contradict binding values. A nil props uses r's own binding properties.
// Fields of other named like a binding property must agree with it, and
// the check descends into every record nested in other.
func (r *Record) BindingCompatible(other *Record, props map[string]any) bool {
	if other == nil {
		return true
	}
	if props == nil {
		props = r.BindingProperties()
	}
	if len(props) == 0 {
		return true
	}
	for name, pv := range props {
		if _, ok := other.schema.Field(name); !ok {
			continue
		}
		ov := other.values[name]
		if isEmpty(ov) {
			continue
		}
		if !bindingAgrees(pv, ov) {
			return false
		}
	}
	for _, f := range other.schema.fields {
		if !f.holdsModels() {
			continue
		}
		for _, nested := range nestedRecords(other.values[f.Name]) {
			if !r.BindingCompatible(nested, props) {
				return false
			}
		}
	}
	return true
}

func bindingAgrees(a, b any) bool {
	ar, aok := a.(*Record)
	br, bok := b.(*Record)
	if aok && bok {
		return ar.IsSuperset(br) || ar.IsSubset(br)
	}
	return equalValues(a, b)
}

// ShouldKeepBothRecords reports whether r and other disagree on a field
// flagged IgnoreWhenMerging, directly or in a nested record. Such records
// describe different things even when every other field agrees.
func (r *Record) ShouldKeepBothRecords(other *Record) bool {
	if other == nil {
		return false
	}
	if r.schema != other.schema {
		for _, f := range r.schema.fields {
			if f.Model != other.schema {
				continue
			}
			for _, nested := range nestedRecords(r.values[f.Name]) {
				if nested.ShouldKeepBothRecords(other) {
					return true
				}
			}
		}
		return false
	}
	for _, f := range r.schema.fields {
		sv, ov := r.values[f.Name], other.values[f.Name]
		if isEmpty(sv) || isEmpty(ov) {
			continue
		}
		if f.IgnoreWhenMerging && !equalValues(sv, ov) {
			return true
		}
		if f.Kind == KindModel && sv.(*Record).ShouldKeepBothRecords(ov.(*Record)) {
			return true
		}
	}
	return false
}

// MergeContextual fills empty contextual fields of r from other when other
// was found within each field's contextual range. When other has a
// different schema it is merged into the nested field declared with that
// schema. It reports whether r changed; a merge of records that must be
// kept apart (see ShouldKeepBothRecords) reports false even when values
// were copied.
func (r *Record) MergeContextual(other *Record, distance ContextualRange) bool {
	return r.merge(other, distance, true)
}

// MergeAll is MergeContextual ignoring the contextual flags and ranges.
// Every field missing from r is filled from other.
func (r *Record) MergeAll(other *Record, distance ContextualRange) bool {
	return r.merge(other, distance, false)
}

func (r *Record) merge(other *Record, distance ContextualRange, contextualOnly bool) bool {
	if other == nil || other == r {
		return false
	}
	keepBoth := r.ShouldKeepBothRecords(other)
	if contextualOnly && r.ContextualFulfilled() {
		return false
	}

	var changed bool
	if r.schema == other.schema {
		changed = r.mergeSame(other, distance, contextualOnly)
	} else {
		changed = r.mergeNested(other, distance, contextualOnly)
	}
	if changed {
		r.ConsolidateBinding()
	}
	if keepBoth {
		return false
	}
	return changed
}

func (r *Record) mergeSame(other *Record, distance ContextualRange, contextualOnly bool) bool {
	var changed bool
	for _, f := range r.schema.fields {
		ov := other.values[f.Name]
		if isEmpty(ov) {
			continue
		}
		if contextualOnly && !f.eligible(distance) {
			continue
		}
		sv := r.values[f.Name]
		if isEmpty(sv) {
			r.values[f.Name] = cloneValue(ov)
			changed = true
			continue
		}
		if f.Kind == KindModel {
			nested := sv.(*Record)
			if nested.Compatible(ov.(*Record)) && nested.merge(ov.(*Record), distance, contextualOnly) {
				changed = true
			}
		}
	}
	return changed
}

func (r *Record) mergeNested(other *Record, distance ContextualRange, contextualOnly bool) bool {
	var changed bool
	for _, f := range r.schema.fields {
		if !f.holdsModels() {
			continue
		}
		if contextualOnly && r.ContextualFulfilled() {
			break
		}
		current := r.values[f.Name]

		if f.Model != other.schema {
			for _, nested := range nestedRecords(current) {
				if nested.merge(other, distance, contextualOnly) {
					changed = true
				}
			}
			continue
		}

		if isEmpty(current) {
			if contextualOnly && !f.eligible(distance) {
				continue
			}
			if !r.BindingCompatible(other, nil) {
				continue
			}
			if f.Kind == KindModel {
				r.values[f.Name] = other.Clone()
			} else {
				r.values[f.Name] = []any{other.Clone()}
			}
			changed = true
			continue
		}

		for _, nested := range nestedRecords(current) {
			if nested.Compatible(other) && nested.merge(other, distance, contextualOnly) {
				changed = true
				break
			}
		}
	}
	return changed
}

// ConsolidateBinding propagates r's binding values into every nested
// record that declares a field of the same name. Empty fields are filled
// and nested record values are replaced by binding records that are
// supersets of them.
func (r *Record) ConsolidateBinding() {
	props := r.BindingProperties()
	for _, f := range r.schema.fields {
		if !f.holdsModels() {
			continue
		}
		for _, nested := range nestedRecords(r.values[f.Name]) {
			nested.applyBinding(props)
			nested.ConsolidateBinding()
		}
	}
}

func (r *Record) applyBinding(props map[string]any) {
	for name, pv := range props {
		f, ok := r.schema.Field(name)
		if !ok {
			continue
		}
		current := r.values[name]
		if !isEmpty(current) {
			pr, pok := pv.(*Record)
			cr, cok := current.(*Record)
			if !pok || !cok || pr == cr || !pr.IsSuperset(cr) || pr.Equal(cr) {
				continue
			}
		}
		if v, err := coerce(r.schema, f, pv); err == nil && !isEmpty(v) {
			r.values[name] = v
		}
	}
}

// RequiredFulfilled reports whether every required field is set, with
// required nested records fulfilled in turn.
func (r *Record) RequiredFulfilled() bool {
	return r.requiredFulfilled(false)
}

// NoncontextualRequiredFulfilled is RequiredFulfilled restricted to fields
// that cannot be filled from context.
func (r *Record) NoncontextualRequiredFulfilled() bool {
	return r.requiredFulfilled(true)
}

func (r *Record) requiredFulfilled(skipContextual bool) bool {
	for _, f := range r.schema.fields {
		if !f.Required || (skipContextual && f.Contextual) {
			continue
		}
		v := r.values[f.Name]
		if isEmpty(v) {
			return false
		}
		if f.Kind == KindModel && !v.(*Record).requiredFulfilled(skipContextual) {
			return false
		}
	}
	return true
}

// ContextualFulfilled reports whether every contextual field is set, in r
// and in every record nested in it.
func (r *Record) ContextualFulfilled() bool {
	for _, f := range r.schema.fields {
		v := r.values[f.Name]
		if f.Contextual && isEmpty(v) {
			return false
		}
		if !f.holdsModels() {
			continue
		}
		for _, nested := range nestedRecords(v) {
			if !nested.ContextualFulfilled() {
				return false
			}
		}
	}
	return true
}

// Clean resets nested records whose required fields are not fulfilled and
// drops such records from record lists.
func (r *Record) Clean() {
	for _, f := range r.schema.fields {
		if !f.holdsModels() {
			continue
		}
		switch v := r.values[f.Name].(type) {
		case *Record:
			v.Clean()
			if !v.RequiredFulfilled() {
				r.resetField(f)
			}
		case []any:
			kept := v[:0]
			for _, e := range v {
				m, ok := e.(*Record)
				if !ok {
					continue
				}
				m.Clean()
				if m.RequiredFulfilled() {
					kept = append(kept, m)
				}
			}
			if len(kept) == 0 {
				r.resetField(f)
			} else {
				r.values[f.Name] = kept
			}
		}
	}
}

func (r *Record) resetField(f *Field) {
	delete(r.values, f.Name)
	if f.Default == nil {
		return
	}
	if v, err := coerce(r.schema, f, f.Default); err == nil && !isEmpty(v) {
		r.values[f.Name] = v
	}
}
