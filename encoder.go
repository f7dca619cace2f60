package hopt

//////
// Const, vars, types.
//////

// encoder flattens structured samples into numeric vectors for the kernel.
//
// It owns the categorical codebook: the mapping from category label to a
// non-negative integer id, assigned in first-seen order. The codebook is
// scoped to one search instance so that a label's id never changes during
// that instance's lifetime, keeping flattened vectors comparable across
// every fit and proposal of the same session.
//
// Structured samples are recovered through the parallel-array strategy (the
// candidate pool keeps each structured sample beside its flat vector), so no
// inverse codebook is needed.
type encoder struct {
	codebook map[string]int
}

//////
// Methods.
//////

// flatten converts a structured sample into a flat vector, one float64 per
// leaf, visiting Dict fields in insertion order and slice elements in index
// order.
//
// Leaf encoding:
// - numbers: emitted unchanged (ints converted to float64)
// - booleans: 0/1 without consuming the codebook
// - strings: codebook id, assigned on first sight
// - anything else: 0, so vector lengths stay stable across samples
func (e *encoder) flatten(sample any) []float64 {
	var out []float64

	e.walk(sample, &out)

	return out
}

func (e *encoder) walk(v any, out *[]float64) {
	switch n := v.(type) {
	case *Dict:
		for _, key := range n.Keys() {
			child, _ := n.Get(key)
			e.walk(child, out)
		}
	case []any:
		for _, child := range n {
			e.walk(child, out)
		}
	case float64:
		*out = append(*out, n)
	case float32:
		*out = append(*out, float64(n))
	case int:
		*out = append(*out, float64(n))
	case int64:
		*out = append(*out, float64(n))
	case bool:
		if n {
			*out = append(*out, 1)
		} else {
			*out = append(*out, 0)
		}
	case string:
		*out = append(*out, float64(e.code(n)))
	default:
		// Unknown leaf types contribute a zero so that samples drawn from
		// the same space keep flattening to vectors of identical length.
		*out = append(*out, 0)
	}
}

// code returns the codebook id for label, assigning the next free id on
// first sight. Once assigned, an id never changes.
func (e *encoder) code(label string) int {
	if id, ok := e.codebook[label]; ok {
		return id
	}

	id := len(e.codebook)
	e.codebook[label] = id

	return id
}

//////
// Factory.
//////

func newEncoder() *encoder {
	return &encoder{codebook: map[string]int{}}
}
