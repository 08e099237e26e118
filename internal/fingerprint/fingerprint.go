package fingerprint

import "strings"

// Placeholder stands in for any host property that could not be read.
const Placeholder = "unknown"

type Provider interface {
	// Summary must return byte-identical output for repeated calls on an
	// unchanged host.
	Summary() string
}

// Host holds the stable host properties. Numeric values are pre-formatted by
// the probe; an empty field means the property was unavailable.
type Host struct {
	Arch            string
	OSName          string
	Distribution    string
	TotalMemory     string
	ThermalSensors  string
	CriticalTempSum string
	MACByteSum      string
}

func (h Host) String() string {
	parts := []string{
		h.Arch,
		h.OSName,
		h.Distribution,
		h.TotalMemory,
		h.ThermalSensors,
		h.CriticalTempSum,
		h.MACByteSum,
	}
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			parts[i] = Placeholder
		}
	}
	return strings.Join(parts, "|")
}

// Static is a fixed summary, used where the host must not be probed.
type Static string

func (s Static) Summary() string {
	return string(s)
}
