package models

// SlotLabel maps a SlotKind to its display label. Labels match the
// wattage breakdown and compatibility checklist of the storefront.
var SlotLabel = map[SlotKind]string{
	SlotCPU:         "CPU",
	SlotMotherboard: "Motherboard",
	SlotRAM:         "Memory",
	SlotGPU:         "Graphics Card",
	SlotStorage:     "Storage",
	SlotPSU:         "Power Supply",
	SlotCase:        "Case",
	SlotCooler:      "CPU Cooler",
}

// SlotIcon maps a SlotKind to its Material Community icon name.
var SlotIcon = map[SlotKind]string{
	SlotCPU:         "cpu-64-bit",
	SlotMotherboard: "memory",
	SlotRAM:         "memory",
	SlotGPU:         "expansion-card-variant",
	SlotStorage:     "harddisk",
	SlotPSU:         "power-plug-outline",
	SlotCase:        "desktop-tower",
	SlotCooler:      "fan",
}

// Label returns the display label for a SlotKind.
// Unrecognised kinds are returned verbatim.
func (k SlotKind) Label() string {
	if l, ok := SlotLabel[k]; ok {
		return l
	}
	return string(k)
}

// Icon returns the icon identifier for a SlotKind.
// Returns "help-circle" for unrecognised kinds.
func (k SlotKind) Icon() string {
	if icon, ok := SlotIcon[k]; ok {
		return icon
	}
	return "help-circle"
}
