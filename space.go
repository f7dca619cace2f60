package hopt

import (
	"fmt"
	"math"
)

//////
// Const, vars, types.
//////

// DistKind names a distribution a Dist node draws from.
type DistKind string

// Supported distribution kinds. The q* variants round their draw to the
// nearest multiple of Q.
const (
	KindChoice      DistKind = "choice"
	KindRandint     DistKind = "randint"
	KindUniform     DistKind = "uniform"
	KindQUniform    DistKind = "quniform"
	KindLogUniform  DistKind = "loguniform"
	KindQLogUniform DistKind = "qloguniform"
	KindNormal      DistKind = "normal"
	KindQNormal     DistKind = "qnormal"
	KindLogNormal   DistKind = "lognormal"
	KindQLogNormal  DistKind = "qlognormal"
)

// Dist is a distribution node in a search-space expression tree: a tagged
// variant over DistKind, with only the fields its kind uses populated.
// Build nodes with the constructors (Uniform, Choice, ...) rather than
// struct literals.
//
// Adding a distribution is adding one DistKind constant, one constructor,
// and one handler in distHandlers. No other code changes.
type Dist struct {
	// Kind selects the handler that draws from this node.
	Kind DistKind

	// Options holds the alternatives of a choice node. Each option is
	// itself an expression tree and is evaluated recursively when chosen.
	Options []any

	// Low and High bound the uniform family, Low inclusive, High exclusive.
	Low, High float64

	// Mu and Sigma parameterize the normal family.
	Mu, Sigma float64

	// Q is the rounding quantum of the q* variants.
	Q float64

	// Upper is the exclusive upper bound of randint, which draws from
	// [0, Upper).
	Upper int
}

// distHandler draws one value from a distribution node. Handlers are pure
// functions of (node, source); choice recurses through Evaluate for the
// option it picks.
type distHandler func(d *Dist, src Source) (any, error)

// distHandlers is the dispatch table from kind to handler. It is populated
// in init rather than a var initializer: the choice handler calls Evaluate,
// Evaluate reads the table, and a static map literal would close that loop
// into an initialization cycle.
var distHandlers map[DistKind]distHandler

func init() {
	distHandlers = map[DistKind]distHandler{
		KindChoice: func(d *Dist, src Source) (any, error) {
			if len(d.Options) == 0 {
				return nil, fmt.Errorf("hopt: choice node has no options")
			}

			return Evaluate(d.Options[src.Randrange(0, len(d.Options), 1)], src)
		},
		KindRandint: func(d *Dist, src Source) (any, error) {
			if d.Upper <= 0 {
				return nil, fmt.Errorf("hopt: randint upper bound must be positive, got %d", d.Upper)
			}

			return src.Randrange(0, d.Upper, 1), nil
		},
		KindUniform: func(d *Dist, src Source) (any, error) {
			return src.Uniform(d.Low, d.High), nil
		},
		KindQUniform: func(d *Dist, src Source) (any, error) {
			return quantize(src.Uniform(d.Low, d.High), d.Q), nil
		},
		KindLogUniform: func(d *Dist, src Source) (any, error) {
			return math.Exp(src.Uniform(d.Low, d.High)), nil
		},
		KindQLogUniform: func(d *Dist, src Source) (any, error) {
			return quantize(math.Exp(src.Uniform(d.Low, d.High)), d.Q), nil
		},
		KindNormal: func(d *Dist, src Source) (any, error) {
			return src.Gauss(d.Mu, d.Sigma), nil
		},
		KindQNormal: func(d *Dist, src Source) (any, error) {
			return quantize(src.Gauss(d.Mu, d.Sigma), d.Q), nil
		},
		KindLogNormal: func(d *Dist, src Source) (any, error) {
			return math.Exp(src.Gauss(d.Mu, d.Sigma)), nil
		},
		KindQLogNormal: func(d *Dist, src Source) (any, error) {
			return quantize(math.Exp(src.Gauss(d.Mu, d.Sigma)), d.Q), nil
		},
	}
}

//////
// Exported functionalities.
//////

// Choice draws one of options uniformly and evaluates it recursively, so
// options may themselves be distribution nodes, Dicts, lists, or literals.
func Choice(options ...any) *Dist {
	return &Dist{Kind: KindChoice, Options: options}
}

// Randint draws an integer uniformly from [0, upper). Evaluating a node
// with upper <= 0 errors: there is no value to draw.
func Randint(upper int) *Dist {
	return &Dist{Kind: KindRandint, Upper: upper}
}

// Uniform draws a float64 uniformly from [low, high).
func Uniform(low, high float64) *Dist {
	return &Dist{Kind: KindUniform, Low: low, High: high}
}

// QUniform draws uniformly from [low, high) and rounds to the nearest
// multiple of q (half rounds away from zero).
func QUniform(low, high, q float64) *Dist {
	return &Dist{Kind: KindQUniform, Low: low, High: high, Q: q}
}

// LogUniform draws exp(x) for x uniform on [low, high), yielding values
// whose logarithm is uniformly distributed.
func LogUniform(low, high float64) *Dist {
	return &Dist{Kind: KindLogUniform, Low: low, High: high}
}

// QLogUniform is LogUniform rounded to the nearest multiple of q.
func QLogUniform(low, high, q float64) *Dist {
	return &Dist{Kind: KindQLogUniform, Low: low, High: high, Q: q}
}

// Normal draws a Gaussian with mean mu and standard deviation sigma.
func Normal(mu, sigma float64) *Dist {
	return &Dist{Kind: KindNormal, Mu: mu, Sigma: sigma}
}

// QNormal is Normal rounded to the nearest multiple of q.
func QNormal(mu, sigma, q float64) *Dist {
	return &Dist{Kind: KindQNormal, Mu: mu, Sigma: sigma, Q: q}
}

// LogNormal draws exp of a Gaussian with mean mu and standard deviation
// sigma.
func LogNormal(mu, sigma float64) *Dist {
	return &Dist{Kind: KindLogNormal, Mu: mu, Sigma: sigma}
}

// QLogNormal is LogNormal rounded to the nearest multiple of q.
func QLogNormal(mu, sigma, q float64) *Dist {
	return &Dist{Kind: KindQLogNormal, Mu: mu, Sigma: sigma, Q: q}
}

// Evaluate draws one structured sample from a search-space expression tree.
//
// Traversal contract:
// - *Dist: draw from the distribution (choice recurses into the picked option)
// - *Dict: evaluate every field in insertion order into a new Dict
// - []any: evaluate every element in index order into a new slice
// - anything else: returned unchanged as a literal leaf
//
// Errors surface only for malformed trees (unknown distribution kind, empty
// choice); drawing itself cannot fail.
func Evaluate(node any, src Source) (any, error) {
	switch n := node.(type) {
	case *Dist:
		handler, ok := distHandlers[n.Kind]
		if !ok {
			return nil, fmt.Errorf("hopt: unknown distribution kind %q", n.Kind)
		}

		return handler(n, src)
	case *Dict:
		out := NewDict()

		for _, key := range n.Keys() {
			child, _ := n.Get(key)

			value, err := Evaluate(child, src)
			if err != nil {
				return nil, err
			}

			out.Set(key, value)
		}

		return out, nil
	case []any:
		out := make([]any, len(n))

		for i, child := range n {
			value, err := Evaluate(child, src)
			if err != nil {
				return nil, err
			}

			out[i] = value
		}

		return out, nil
	default:
		return n, nil
	}
}

// Sample draws one structured sample and unwraps single-field Dicts to their
// bare value, so a space like NewDict().Set("x", Uniform(0, 1)) samples to a
// plain float64.
//
// Usage example:
//
//	v, err := hopt.Sample(hopt.NewDict().Set("x", hopt.Uniform(0, 10)), src)
//	// v is a float64 in [0, 10)
func Sample(node any, src Source) (any, error) {
	value, err := Evaluate(node, src)
	if err != nil {
		return nil, err
	}

	if d, ok := value.(*Dict); ok && d.Len() == 1 {
		value, _ = d.Get(d.Keys()[0])
	}

	return value, nil
}

//////
// Helper functions.
//////

// quantize rounds x to the nearest multiple of q using math.Round, which
// rounds halves away from zero. q <= 0 disables rounding.
func quantize(x, q float64) float64 {
	if q <= 0 {
		return x
	}

	return math.Round(x/q) * q
}
