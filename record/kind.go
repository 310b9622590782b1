package record

// Kind is the closed set of field kinds understood by the merge engine.
type Kind int

const (
	KindString Kind = iota + 1
	KindFloat
	KindBool
	// KindRange holds a scalar or a two element ascending range as []float64.
	KindRange
	KindUnit
	KindModel
	KindList
	// KindSet is a list kept deduplicated and sorted.
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindRange:
		return "range"
	case KindUnit:
		return "unit"
	case KindModel:
		return "model"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	default:
		return "unknown"
	}
}

// isCollection reports whether values of k are []any.
func (k Kind) isCollection() bool {
	return k == KindList || k == KindSet
}
