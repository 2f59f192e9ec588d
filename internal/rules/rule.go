package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/In1quity/Fountain/internal/models"
)

// Context carries the per-attempt evaluation context. It is created for a
// single validation attempt and never persisted.
type Context struct {
	// User is the username of the submitting user.
	User string
}

// Rule is one contest rule: a pure predicate over the loaded article data and
// the submission context, plus the set of remote data it needs. Rules must be
// independent and side-effect-free; evaluation order is unspecified.
type Rule interface {
	Requirements() []Requirement
	Check(data *ArticleData, ctx Context) bool
}

// Builder constructs a rule kind from its params bag. Params are decoded once
// here, not re-parsed per evaluation.
type Builder func(params map[string]interface{}) (Rule, error)

var registry = map[string]Builder{}

// Register adds a rule kind to the registry. New kinds plug in without
// touching the submission orchestration.
func Register(kind string, builder Builder) {
	registry[kind] = builder
}

// Build decodes a stored rule definition into an executable rule.
func Build(rule models.Rule) (Rule, error) {
	builder, ok := registry[rule.Type]
	if !ok {
		return nil, fmt.Errorf("unknown rule type %q", rule.Type)
	}

	built, err := builder(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("invalid params for rule %q: %w", rule.Type, err)
	}
	return built, nil
}

// BuildBlocking decodes all Requirement-severity rules of an editathon.
func BuildBlocking(stored []models.Rule) ([]Rule, error) {
	var built []Rule
	for _, r := range stored {
		if !r.IsBlocking() {
			continue
		}
		rule, err := Build(r)
		if err != nil {
			return nil, err
		}
		built = append(built, rule)
	}
	return built, nil
}

// Requirements collects and deduplicates the requirements of a rule set.
// The result is sorted so callers see a stable order.
func Requirements(ruleSet []Rule) []Requirement {
	seen := map[Requirement]struct{}{}
	for _, rule := range ruleSet {
		for _, req := range rule.Requirements() {
			seen[req] = struct{}{}
		}
	}

	reqs := make([]Requirement, 0, len(seen))
	for req := range seen {
		reqs = append(reqs, req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i] < reqs[j] })
	return reqs
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(title, "_", " ")), " "))
}
