// Package difficulty resolves named difficulty settings into fully
// populated, validated profiles.
package difficulty

import (
	"fmt"
	"sort"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"
)

// Built-in difficulty ids.
const (
	Light    = "light"
	Standard = "standard"
	Intense  = "intense"
)

// DefaultID is the difficulty used when nothing else is configured.
const DefaultID = Standard

var builtins = map[string]model.DifficultyProfile{
	Light: {
		ID:          Light,
		Name:        "Light",
		MinInterval: 1500,
		MaxInterval: 2500,
		TotalHits:   model.Range{Min: 15, Max: 20},
		ComboSize:   model.Range{Min: 2, Max: 3},
		StrikeGap:   model.Range{Min: 400, Max: 700},
		ComboRest:   model.Range{Min: 2000, Max: 3000},
		TotalCombos: 8,
		Rest:        model.Rest{Enabled: true, BreakDuration: 30000},
	},
	Standard: {
		ID:          Standard,
		Name:        "Standard",
		MinInterval: 1000,
		MaxInterval: 1800,
		TotalHits:   model.Range{Min: 20, Max: 30},
		ComboSize:   model.Range{Min: 2, Max: 4},
		StrikeGap:   model.Range{Min: 300, Max: 600},
		ComboRest:   model.Range{Min: 1500, Max: 2500},
		TotalCombos: 10,
		Rest:        model.Rest{Enabled: true, BreakDuration: 20000},
	},
	Intense: {
		ID:          Intense,
		Name:        "Intense",
		MinInterval: 800,
		MaxInterval: 1200,
		TotalHits:   model.Range{Min: 30, Max: 40},
		ComboSize:   model.Range{Min: 3, Max: 5},
		StrikeGap:   model.Range{Min: 200, Max: 400},
		ComboRest:   model.Range{Min: 1000, Max: 2000},
		TotalCombos: 12,
		Rest:        model.Rest{Enabled: true, BreakDuration: 15000},
	},
}

// BuiltinIDs returns the built-in difficulty ids in display order.
func BuiltinIDs() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return order(ids[i]) < order(ids[j])
	})
	return ids
}

func order(id string) int {
	switch id {
	case Light:
		return 0
	case Standard:
		return 1
	case Intense:
		return 2
	}
	return 3
}

// Builtin returns a copy of the built-in profile for id.
func Builtin(id string) (model.DifficultyProfile, bool) {
	p, ok := builtins[id]
	return p, ok
}

// RangeOverride overrides either end of an inclusive range.
type RangeOverride struct {
	Min *int `toml:"min" json:"min,omitempty"`
	Max *int `toml:"max" json:"max,omitempty"`
}

// RestOverride overrides the between-session rest settings.
type RestOverride struct {
	Enabled       *bool `toml:"enabled" json:"enabled,omitempty"`
	BreakDuration *int  `toml:"break-duration-ms" json:"break_duration_ms,omitempty"`
}

// Override is a partial profile. Nil leaves fall back to the base
// difficulty's value for that exact leaf, never the whole block.
type Override struct {
	Name        *string        `toml:"name" json:"name,omitempty"`
	Base        *string        `toml:"base" json:"base,omitempty"`
	MinInterval *int           `toml:"min-interval-ms" json:"min_interval_ms,omitempty"`
	MaxInterval *int           `toml:"max-interval-ms" json:"max_interval_ms,omitempty"`
	TotalHits   *RangeOverride `toml:"total-hits" json:"total_hits,omitempty"`
	ComboSize   *RangeOverride `toml:"combo-size" json:"combo_size,omitempty"`
	StrikeGap   *RangeOverride `toml:"strike-gap-ms" json:"strike_gap_ms,omitempty"`
	ComboRest   *RangeOverride `toml:"combo-rest-ms" json:"combo_rest_ms,omitempty"`
	TotalCombos *int           `toml:"total-combos" json:"total_combos,omitempty"`
	Rest        *RestOverride  `toml:"rest" json:"rest,omitempty"`
}

// BaseID returns the built-in difficulty an override derives from.
func (o Override) BaseID() string {
	if o.Base != nil && *o.Base != "" {
		return *o.Base
	}
	return DefaultID
}

// Resolve merges an override leaf-by-leaf over the built-in profile for
// baseID and returns a total profile under the given id. The result has
// every field populated but is not yet validated.
func Resolve(id, baseID string, override *Override) (model.DifficultyProfile, error) {
	base, ok := builtins[baseID]
	if !ok {
		return model.DifficultyProfile{}, fmt.Errorf("unknown difficulty %q", baseID)
	}
	out := base
	out.ID = id
	if override == nil {
		return out, nil
	}
	if override.Name != nil {
		out.Name = *override.Name
	}
	applyInt(&out.MinInterval, override.MinInterval)
	applyInt(&out.MaxInterval, override.MaxInterval)
	applyRange(&out.TotalHits, override.TotalHits)
	applyRange(&out.ComboSize, override.ComboSize)
	applyRange(&out.StrikeGap, override.StrikeGap)
	applyRange(&out.ComboRest, override.ComboRest)
	applyInt(&out.TotalCombos, override.TotalCombos)
	if override.Rest != nil {
		if override.Rest.Enabled != nil {
			out.Rest.Enabled = *override.Rest.Enabled
		}
		applyInt(&out.Rest.BreakDuration, override.Rest.BreakDuration)
	}
	return out, nil
}

func applyInt(target *int, value *int) {
	if value != nil {
		*target = *value
	}
}

func applyRange(target *model.Range, value *RangeOverride) {
	if value == nil {
		return
	}
	if value.Min != nil {
		target.Min = *value.Min
	}
	if value.Max != nil {
		target.Max = *value.Max
	}
}

// Validate checks a resolved profile. The returned error blocks accepting
// the profile; warnings are informational and never block.
func Validate(p model.DifficultyProfile) (warnings []string, err error) {
	if p.MinInterval <= 0 || p.MaxInterval <= 0 {
		return nil, fmt.Errorf("stimulus interval must be positive")
	}
	if p.MinInterval > p.MaxInterval {
		return nil, fmt.Errorf("min interval %dms exceeds max interval %dms", p.MinInterval, p.MaxInterval)
	}
	ranges := []struct {
		name string
		r    model.Range
	}{
		{"total hits", p.TotalHits},
		{"combo size", p.ComboSize},
		{"strike gap", p.StrikeGap},
		{"combo rest", p.ComboRest},
	}
	for _, rr := range ranges {
		if rr.r.Min < 1 {
			return nil, fmt.Errorf("%s must be at least 1, got %d", rr.name, rr.r.Min)
		}
		if rr.r.Min > rr.r.Max {
			return nil, fmt.Errorf("%s range inverted: %d > %d", rr.name, rr.r.Min, rr.r.Max)
		}
	}
	if p.TotalCombos < 1 {
		return nil, fmt.Errorf("total combos must be at least 1, got %d", p.TotalCombos)
	}
	if p.Rest.BreakDuration < 0 {
		return nil, fmt.Errorf("break duration must not be negative, got %dms", p.Rest.BreakDuration)
	}

	if p.MinInterval < 800 {
		warnings = append(warnings, fmt.Sprintf("min interval %dms leaves little margin over the stimulus display window", p.MinInterval))
	}
	if p.Rest.Enabled && p.Rest.BreakDuration > 300000 {
		warnings = append(warnings, fmt.Sprintf("break of %ds is unusually long", p.Rest.BreakDuration/1000))
	}
	if p.TotalHits.Max > 100 {
		warnings = append(warnings, fmt.Sprintf("up to %d hits per session is unusually high", p.TotalHits.Max))
	}
	if p.ComboSize.Max > 8 {
		warnings = append(warnings, fmt.Sprintf("combos of up to %d strikes are unusually long", p.ComboSize.Max))
	}
	return warnings, nil
}
