package decision

import (
	"errors"
	"fmt"
	"math"
)

// Source identifies which path produced a recommendation.
type Source string

const (
	SourceModel     Source = "model"
	SourceRuleBased Source = "rule_based"
	SourceSystem    Source = "system"
)

var (
	// ErrShapeMismatch indicates a scaler or classifier was fit on a different feature width.
	ErrShapeMismatch = errors.New("feature shape mismatch")
	// ErrInvalidOutput indicates a classifier returned an unusable probability distribution.
	ErrInvalidOutput = errors.New("invalid classifier output")
)

// Classifier is a trained multi-class probabilistic model over scaled features.
type Classifier interface {
	Classes() int
	PredictProba(features []float64) ([]float64, error)
}

// Scaler applies the z-score normalization fit at training time.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform scales v. Zero scale entries pass the centered value through.
func (s *Scaler) Transform(v Vector) ([]float64, error) {
	if len(s.Mean) != FeatureCount || len(s.Scale) != FeatureCount {
		return nil, fmt.Errorf(
			"%w: scaler has %d/%d, want %d",
			ErrShapeMismatch, len(s.Mean), len(s.Scale), FeatureCount,
		)
	}

	out := make([]float64, FeatureCount)
	for i, x := range v {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (x - s.Mean[i]) / scale
	}
	return out, nil
}

// ModelBundle pairs a classifier with its scaler. Labels maps a class index to
// an action code; nil means index and code coincide. A bundle is never mutated
// after construction.
type ModelBundle struct {
	Name       string
	Version    string
	Scaler     *Scaler
	Classifier Classifier
	Labels     []int
}

// Empty reports whether the bundle has no usable classifier.
func (b *ModelBundle) Empty() bool {
	return b == nil || b.Classifier == nil
}

// label maps a class index to an action code. It reports false when the
// index has no action.
func (b *ModelBundle) label(idx int) (int, bool) {
	code := idx
	if b.Labels != nil {
		if idx >= len(b.Labels) {
			return 0, false
		}
		code = b.Labels[idx]
	}
	return code, code >= 0 && code < ActionCount
}

// ClassifierError wraps a failure while invoking the scaler or model.
// It is the only error class the adapter degrades to the rule table on.
type ClassifierError struct {
	Op  string
	Err error
}

// Error formats the failed operation and its cause.
func (e *ClassifierError) Error() string {
	return fmt.Sprintf("classifier %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying scaler or model error.
func (e *ClassifierError) Unwrap() error { return e.Err }

// Prediction is the adapter's result before derived quantities are attached.
type Prediction struct {
	Action         Action
	Confidence     float64
	Reason         string
	Source         Source
	Rule           string
	FallbackReason string
}

// Adapter dispatches to a trained classifier, degrading to the rule table when
// the bundle is empty or the classifier fails.
type Adapter struct {
	bundle *ModelBundle
	rules  RuleTable
}

// NewAdapter creates an Adapter. A nil or empty bundle selects the rule path
// for every prediction.
func NewAdapter(bundle *ModelBundle, rules RuleTable) *Adapter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Adapter{bundle: bundle, rules: rules}
}

// Bundle returns the adapter's model bundle, which may be nil.
func (a *Adapter) Bundle() *ModelBundle { return a.bundle }

// Predict returns an action for s. It never fails: classifier errors resolve
// to the rule table with Source set to rule_based.
func (a *Adapter) Predict(s Signals) Prediction {
	if a.bundle.Empty() {
		return a.fallback(s, "model not loaded")
	}

	p, cerr := a.infer(s)
	if cerr != nil {
		return a.fallback(s, cerr.Error())
	}
	return p
}

func (a *Adapter) fallback(s Signals, reason string) Prediction {
	v, rule := a.rules.Evaluate(s)
	return Prediction{
		Action:         v.Action,
		Confidence:     v.Confidence,
		Reason:         v.Reason,
		Source:         SourceRuleBased,
		Rule:           rule.Name,
		FallbackReason: reason,
	}
}

func (a *Adapter) infer(s Signals) (Prediction, *ClassifierError) {
	features := s.Vector()

	scaled := features[:]
	if a.bundle.Scaler != nil {
		var err error
		scaled, err = a.bundle.Scaler.Transform(features)
		if err != nil {
			return Prediction{}, &ClassifierError{Op: "scale", Err: err}
		}
	}

	probs, err := a.predictProba(scaled)
	if err != nil {
		return Prediction{}, &ClassifierError{Op: "predict", Err: err}
	}

	idx, confidence, err := argmax(probs)
	if err != nil {
		return Prediction{}, &ClassifierError{Op: "predict", Err: err}
	}

	code, ok := a.bundle.label(idx)
	if !ok {
		return Prediction{}, &ClassifierError{
			Op:  "predict",
			Err: fmt.Errorf("%w: class %d has no action", ErrInvalidOutput, idx),
		}
	}

	action := DecodeAction(code)
	return Prediction{
		Action:     action,
		Confidence: confidence,
		Reason:     Explain(action, s, confidence),
		Source:     SourceModel,
	}, nil
}

// predictProba contains panics raised inside the model call so a corrupt
// artifact degrades like any other classifier failure.
func (a *Adapter) predictProba(features []float64) (probs []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()
	return a.bundle.Classifier.PredictProba(features)
}

func argmax(probs []float64) (int, float64, error) {
	if len(probs) == 0 {
		return 0, 0, fmt.Errorf("%w: empty distribution", ErrInvalidOutput)
	}

	best := 0
	var sum float64
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 {
			return 0, 0, fmt.Errorf("%w: probability %v at %d", ErrInvalidOutput, p, i)
		}
		sum += p
		if p > probs[best] {
			best = i
		}
	}
	if sum <= 0 {
		return 0, 0, fmt.Errorf("%w: distribution sums to zero", ErrInvalidOutput)
	}
	return best, min(probs[best], 1), nil
}
