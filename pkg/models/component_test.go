package models

import (
	"errors"
	"testing"
)

func TestSlotKinds_FixedSet(t *testing.T) {
	kinds := SlotKinds()
	if len(kinds) != 8 {
		t.Fatalf("SlotKinds() len = %d, want 8", len(kinds))
	}
	seen := make(map[SlotKind]bool)
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("duplicate slot kind %q", k)
		}
		seen[k] = true
	}
}

func TestParseSlotKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SlotKind
		wantErr bool
	}{
		{in: "cpu", want: SlotCPU},
		{in: " GPU ", want: SlotGPU},
		{in: "Case", want: SlotCase},
		{in: "monitor", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlotKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownSlot) {
					t.Fatalf("ParseSlotKind(%q) error = %v, want ErrUnknownSlot", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSlotKind(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSlotKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildSlotMap_CloneDropsNil(t *testing.T) {
	cpu := &Component{ID: "cpu-1", Type: SlotCPU}
	b := BuildSlotMap{SlotCPU: cpu, SlotGPU: nil}

	c := b.Clone()
	if len(c) != 1 {
		t.Fatalf("Clone() len = %d, want 1", len(c))
	}
	if c.Get(SlotCPU) != cpu {
		t.Error("Clone() should keep the same component reference")
	}
	delete(c, SlotCPU)
	if b.Get(SlotCPU) == nil {
		t.Error("mutating the clone changed the original")
	}
}

func TestStockLabel(t *testing.T) {
	if got := (Component{StockCount: 0}).StockLabel(); got != "Out of stock" {
		t.Errorf("StockLabel(0) = %q", got)
	}
	if got := (Component{StockCount: 12}).StockLabel(); got != "12 in stock" {
		t.Errorf("StockLabel(12) = %q", got)
	}
}
