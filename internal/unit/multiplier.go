// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unit

import (
	"fmt"
	"strings"
)

// Multiplier is a power-of-ten prefix. Values are ranks in a fixed order;
// the zero value is MultiplierNone.
type Multiplier int

const (
	MultiplierNone Multiplier = iota
	MultiplierAtto
	MultiplierFemto
	MultiplierPico
	MultiplierNano
	MultiplierMicro
	MultiplierMilli
	MultiplierCenti
	MultiplierDeci
	MultiplierDeka
	MultiplierHecto
	MultiplierKilo
	MultiplierMega
	MultiplierGiga
	MultiplierTera
	MultiplierPeta
	MultiplierExa
)

type multiplierInfo struct {
	name   string
	prefix string
	factor float64
}

// multipliers is indexed by rank.
var multipliers = [...]multiplierInfo{
	MultiplierNone:  {"NONE", "", 1},
	MultiplierAtto:  {"ATTO", "a", 1e-18},
	MultiplierFemto: {"FEMTO", "f", 1e-15},
	MultiplierPico:  {"PICO", "p", 1e-12},
	MultiplierNano:  {"NANO", "n", 1e-9},
	MultiplierMicro: {"MICRO", "µ", 1e-6},
	MultiplierMilli: {"MILLI", "m", 1e-3},
	MultiplierCenti: {"CENTI", "c", 1e-2},
	MultiplierDeci:  {"DECI", "d", 1e-1},
	MultiplierDeka:  {"DEKA", "da", 1e1},
	MultiplierHecto: {"HECTO", "h", 1e2},
	MultiplierKilo:  {"KILO", "k", 1e3},
	MultiplierMega:  {"MEGA", "M", 1e6},
	MultiplierGiga:  {"GIGA", "G", 1e9},
	MultiplierTera:  {"TERA", "T", 1e12},
	MultiplierPeta:  {"PETA", "P", 1e15},
	MultiplierExa:   {"EXA", "E", 1e18},
}

// legacyNames maps alternative spellings found in older model files.
var legacyNames = map[string]Multiplier{
	"TERRA": MultiplierTera,
	"":      MultiplierNone,
}

func (m Multiplier) valid() bool {
	return m >= 0 && int(m) < len(multipliers)
}

// Factor returns the scale factor of m, e.g. 1e6 for MultiplierMega.
func (m Multiplier) Factor() (float64, error) {
	if !m.valid() {
		return 0, fmt.Errorf("%w: rank %d", ErrInvalidMultiplier, int(m))
	}
	return multipliers[m].factor, nil
}

// Prefix returns the SI symbol prefix, "" for none or unknown multipliers.
func (m Multiplier) Prefix() string {
	if !m.valid() {
		return ""
	}
	return multipliers[m].prefix
}

func (m Multiplier) String() string {
	if !m.valid() {
		return fmt.Sprintf("Multiplier(%d)", int(m))
	}
	return multipliers[m].name
}

// ParseMultiplier resolves a multiplier by name, case-insensitively.
func ParseMultiplier(name string) (Multiplier, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if m, ok := legacyNames[name]; ok {
		return m, nil
	}
	for i, info := range multipliers {
		if info.name == name {
			return Multiplier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMultiplier, name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Multiplier) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: rank %d", ErrInvalidMultiplier, int(m))
	}
	return []byte(multipliers[m].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Multiplier) UnmarshalText(text []byte) error {
	parsed, err := ParseMultiplier(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
