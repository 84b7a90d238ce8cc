package specs

import (
	"testing"

	"github.com/HerbHall/rigplanner/pkg/models"
)

func component(pairs ...any) *models.Component {
	return &models.Component{ID: "x", Type: models.SlotCPU, Specs: models.NewSpecs(pairs...)}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"650 W", 650, true},
		{"5.1 GHz", 5.1, true},
		{"-12 V rail", -12, true},
		{"DDR5-6000", 5, true},
		{"Full", 0, false},
		{"", 0, false},
		{"2 x 16GB", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseNumber(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		c    *models.Component
		keys []string
		want float64
	}{
		{"numeric value", component("TDP", 65), []string{"TDP"}, 65},
		{"text value", component("TDP", "120 W"), []string{"TDP"}, 120},
		{"fallback key", component("TBP", "263 W"), []string{"TDP", "Power Draw", "TBP"}, 263},
		{"first present wins", component("Cores", 8, "Core Count", 16), []string{"Core Count", "Cores"}, 16},
		{"unparsable value falls through", component("TDP", "n/a", "Power Draw", "90 W"), []string{"TDP", "Power Draw"}, 90},
		{"parsed zero is kept", component("TDP", "0 W", "Power Draw", "90 W"), []string{"TDP", "Power Draw"}, 0},
		{"nothing parses", component("TDP", "n/a", "Power Draw", "unknown"), []string{"TDP", "Power Draw"}, 0},
		{"no key present", component("Socket", "AM5"), []string{"TDP"}, 0},
		{"nil component", nil, []string{"TDP"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.c, tt.keys...); got != tt.want {
				t.Errorf("Number() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	c := component("Socket", "  AM5 ", "Core Count", 8)
	if got := Text(c, "Socket"); got != "AM5" {
		t.Errorf("Text(Socket) = %q, want AM5", got)
	}
	if got := Text(c, "Core Count"); got != "8" {
		t.Errorf("Text(Core Count) = %q, want 8", got)
	}
	if got := Text(c, "Missing", "Socket"); got != "AM5" {
		t.Errorf("Text(Missing, Socket) = %q, want AM5", got)
	}
	if got := Text(c, "Missing"); got != "" {
		t.Errorf("Text(Missing) = %q, want empty", got)
	}
}

func TestHas(t *testing.T) {
	c := component("Length", "267 mm")
	if !Has(c, "Length") {
		t.Error("Has(Length) = false")
	}
	if Has(c, "Max GPU Length") {
		t.Error("Has(Max GPU Length) = true")
	}
	if Has(nil, "Length") {
		t.Error("Has on nil component = true")
	}
}
