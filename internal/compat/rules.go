// Package compat evaluates the physical and electrical compatibility rules
// of a build. Rules are data: each names two operands, a comparator and a
// message template, and all rules are evaluated the same way.
package compat

import "github.com/HerbHall/rigplanner/pkg/models"

// Source tells an operand where its value comes from.
type Source int

const (
	// SourceSpec reads a spec attribute of the component in Slot.
	SourceSpec Source = iota
	// SourceRecommendedPSU uses the recommended PSU capacity for the
	// estimated draw of the build.
	SourceRecommendedPSU
)

// Operand is one side of a rule comparison.
type Operand struct {
	Slot   models.SlotKind
	Key    string
	Source Source
}

// Comparator names how the two operands are compared. A rule passes when
// the comparison holds.
type Comparator int

const (
	// Equal requires identical strings (case-sensitive).
	Equal Comparator = iota
	// Contains requires the left text to contain the right text, ignoring case.
	Contains
	// AtMost requires left <= right numerically. Both sides must be > 0.
	AtMost
	// AtLeast requires left >= right numerically. The left side must be > 0.
	AtLeast
)

func (c Comparator) String() string {
	switch c {
	case Equal:
		return "equal"
	case Contains:
		return "contains"
	case AtMost:
		return "at-most"
	case AtLeast:
		return "at-least"
	default:
		return "unknown"
	}
}

// Rule is one row of the compatibility table. Message is a fmt template
// receiving the left and right operand values as strings. Numeric
// comparators pass the extracted numbers, not the raw attribute text.
type Rule struct {
	ID         string
	Label      string
	Left       Operand
	Right      Operand
	Comparator Comparator
	Message    string
}

var rules = []Rule{
	{
		ID:         "cpu-socket",
		Label:      "CPU and Motherboard Socket",
		Left:       Operand{Slot: models.SlotCPU, Key: "Socket"},
		Right:      Operand{Slot: models.SlotMotherboard, Key: "Socket"},
		Comparator: Equal,
		Message:    "CPU socket %s does not match motherboard socket %s.",
	},
	{
		ID:         "memory-type",
		Label:      "RAM Generation Match",
		Left:       Operand{Slot: models.SlotRAM, Key: "Memory Type"},
		Right:      Operand{Slot: models.SlotMotherboard, Key: "Memory Type"},
		Comparator: Equal,
		Message:    "Memory type %s is not supported by the motherboard (%s).",
	},
	{
		ID:         "cooler-socket",
		Label:      "Cooler Socket Support",
		Left:       Operand{Slot: models.SlotCooler, Key: "Socket Compatibility"},
		Right:      Operand{Slot: models.SlotCPU, Key: "Socket"},
		Comparator: Contains,
		Message:    "Cooler supports %s but the CPU uses socket %s.",
	},
	{
		ID:         "case-form-factor",
		Label:      "Case Motherboard Support",
		Left:       Operand{Slot: models.SlotCase, Key: "Motherboard Support"},
		Right:      Operand{Slot: models.SlotMotherboard, Key: "Form Factor"},
		Comparator: Contains,
		Message:    "Case supports %s motherboards but the board is %s.",
	},
	{
		ID:         "gpu-clearance",
		Label:      "GPU Clearance",
		Left:       Operand{Slot: models.SlotGPU, Key: "Length"},
		Right:      Operand{Slot: models.SlotCase, Key: "Max GPU Length"},
		Comparator: AtMost,
		Message:    "Graphics card length %s mm exceeds the case limit of %s mm.",
	},
	{
		ID:         "psu-capacity",
		Label:      "Power Supply Capacity",
		Left:       Operand{Slot: models.SlotPSU, Key: "Wattage"},
		Right:      Operand{Source: SourceRecommendedPSU},
		Comparator: AtLeast,
		Message:    "Power supply is %s W but at least %s W is recommended.",
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
