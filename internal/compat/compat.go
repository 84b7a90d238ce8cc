package compat

import (
	"fmt"
	"strings"

	"github.com/HerbHall/rigplanner/internal/power"
	"github.com/HerbHall/rigplanner/internal/specs"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// Status is the outcome of one rule.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	// StatusSkipped means an operand was missing, so the rule did not apply.
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one rule against a build.
type Result struct {
	RuleID string `json:"rule_id"`
	Label  string `json:"label"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Check returns the warning messages of every failing rule, in rule order.
// watts is the estimated draw of build.
func Check(build models.BuildSlotMap, watts float64) []string {
	var warnings []string
	for _, r := range Evaluate(build, watts) {
		if r.Status == StatusWarning {
			warnings = append(warnings, r.Detail)
		}
	}
	return warnings
}

// Evaluate runs every rule against build and returns one result per rule.
func Evaluate(build models.BuildSlotMap, watts float64) []Result {
	out := make([]Result, 0, len(rules))
	for i := range rules {
		out = append(out, evaluate(&rules[i], build, watts))
	}
	return out
}

func evaluate(r *Rule, build models.BuildSlotMap, watts float64) Result {
	res := Result{RuleID: r.ID, Label: r.Label, Status: StatusSkipped}

	left, ok := resolve(r.Left, build, watts)
	if !ok {
		return res
	}
	right, ok := resolve(r.Right, build, watts)
	if !ok {
		return res
	}

	pass, applies := compare(r.Comparator, left, right)
	if !applies {
		return res
	}
	if pass {
		res.Status = StatusPass
		return res
	}
	res.Status = StatusWarning
	res.Detail = fmt.Sprintf(r.Message, display(r.Comparator, left), display(r.Comparator, right))
	return res
}

func display(cmp Comparator, v value) string {
	if cmp == AtMost || cmp == AtLeast {
		return models.FormatValue(v.num)
	}
	return v.text
}

type value struct {
	text    string
	num     float64
	derived bool
}

func resolve(op Operand, build models.BuildSlotMap, watts float64) (value, bool) {
	switch op.Source {
	case SourceRecommendedPSU:
		rec := power.RecommendedPSU(watts)
		return value{text: models.FormatValue(rec), num: rec, derived: true}, true
	default:
		c := build.Get(op.Slot)
		if c == nil || !specs.Has(c, op.Key) {
			return value{}, false
		}
		// Equality compares trimmed text, matching how facet options are offered.
		text := specs.Text(c, op.Key)
		if text == "" {
			return value{}, false
		}
		return value{text: text, num: specs.Number(c, op.Key)}, true
	}
}

// compare applies cmp. The second result is false when a numeric operand
// read from specs is not positive, which suppresses the rule.
func compare(cmp Comparator, left, right value) (pass, applies bool) {
	switch cmp {
	case Equal:
		return left.text == right.text, true
	case Contains:
		return strings.Contains(strings.ToLower(left.text), strings.ToLower(right.text)), true
	case AtMost, AtLeast:
		if !positive(left) || !positive(right) {
			return false, false
		}
		if cmp == AtMost {
			return left.num <= right.num, true
		}
		return left.num >= right.num, true
	default:
		return false, false
	}
}

func positive(v value) bool {
	return v.derived || v.num > 0
}
