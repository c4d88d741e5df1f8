package categorize

import (
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// DefaultThreshold is the fuzzy score that ends the search early.
const DefaultThreshold = 85

// Method records how a result was reached.
type Method string

const (
	MethodExact    Method = "exact"
	MethodFuzzy    Method = "fuzzy"     // reached the threshold
	MethodBestNear Method = "best-near" // best score below the threshold
	MethodFallback Method = "fallback"  // nothing scored
)

// Result is a classification outcome. Score is in [0, 100].
type Result struct {
	Tag    model.Tag
	Score  float64
	Method Method
}

// Fallback reports whether no rule matched at all.
func (r Result) Fallback() bool { return r.Method == MethodFallback }

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules     RuleTable
	threshold float64
}

// New builds a classifier. A non-positive threshold selects the default.
func New(rules RuleTable, threshold float64) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	owned := make(RuleTable, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		owned[i] = Rule{Tag: r.Tag, Keywords: kws}
	}
	return &Classifier{rules: owned, threshold: threshold}
}

// Default is New(DefaultRules(), DefaultThreshold).
func Default() *Classifier {
	return New(DefaultRules(), DefaultThreshold)
}

// Rules returns a copy of the rule table.
func (c *Classifier) Rules() RuleTable {
	out := make(RuleTable, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Tag: r.Tag, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify tags a title. The exact pass returns the first keyword found as
// a substring. The fuzzy pass returns the first tag whose score reaches the
// threshold, in table order, even when a later tag would score higher.
func (c *Classifier) Classify(title string) Result {
	lower := strings.ToLower(title)

	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return Result{Tag: r.Tag, Score: 100, Method: MethodExact}
			}
		}
	}

	best := Result{Tag: model.TagOthers, Score: 0, Method: MethodFallback}
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			score := PartialRatio(lower, kw)
			if score <= best.Score {
				continue
			}
			best = Result{Tag: r.Tag, Score: score, Method: MethodBestNear}
			if score >= c.threshold {
				best.Method = MethodFuzzy
				return best
			}
		}
	}
	return best
}

// ForIncome narrows a result to the income subset. Explicit salary and
// freelance/consulting wording wins over the classifier.
func ForIncome(text string, r Result) Result {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "salary"):
		return Result{Tag: model.TagSalary, Score: 100, Method: MethodExact}
	case strings.Contains(lower, "freelance"), strings.Contains(lower, "consulting"):
		return Result{Tag: model.TagOther, Score: 100, Method: MethodExact}
	case !r.Tag.IsIncome():
		return Result{Tag: model.TagOther, Score: r.Score, Method: MethodFallback}
	}
	return r
}
