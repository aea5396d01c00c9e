package config

import (
	"fmt"
	"sort"
)

// Validate ensures that every parameter group is present and that the
// regional groups describe the same set of regions
func (c *Config) Validate() error {
	if err := c.validateGroups(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	g := c.Growth
	if !(g.TMin < g.TOpt && g.TOpt < g.TMax) {
		return fmt.Errorf("validate: growth temperature band must satisfy "+
			"t_min < t_opt < t_max, have %v, %v, %v", g.TMin, g.TOpt, g.TMax)
	}
	if g.DOMin >= g.DOCrit {
		return fmt.Errorf("validate: do_min (%v) must be below do_crit (%v)",
			g.DOMin, g.DOCrit)
	}
	if g.UIACrit >= g.UIAMax {
		return fmt.Errorf("validate: uia_crit (%v) must be below uia_max (%v)",
			g.UIACrit, g.UIAMax)
	}

	if c.Ammonia.Min > c.Ammonia.Max {
		return fmt.Errorf("validate: ammonia range [%v, %v] is inverted",
			c.Ammonia.Min, c.Ammonia.Max)
	}
	if c.Temperature.SeasonPeriod <= 0 {
		return fmt.Errorf("validate: season_period must be positive")
	}

	if err := c.validateRegions(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if err := c.Environment.validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// validateGroups ensures no parameter group was left empty
func (c *Config) validateGroups() error {
	switch {
	case c.Growth.H == 0 || c.Growth.TMax == 0:
		return fmt.Errorf("growth: %w", ErrMissingGroup)
	case c.Biomass.M == 0 || c.Biomass.N == 0:
		return fmt.Errorf("biomass: %w", ErrMissingGroup)
	case len(c.Temperature.Sites) == 0:
		return fmt.Errorf("temperature: %w", ErrMissingGroup)
	case c.Ammonia.Max == 0:
		return fmt.Errorf("ammonia: %w", ErrMissingGroup)
	case c.Costs.Common.Volume == 0 || len(c.Costs.Regions) == 0:
		return fmt.Errorf("costs: %w", ErrMissingGroup)
	case c.Environment.MaxDays == 0:
		return fmt.Errorf("environment: %w", ErrMissingGroup)
	case c.Fish.FingerlingWeight.Mean == 0:
		return fmt.Errorf("fish: %w", ErrMissingGroup)
	}
	return nil
}

// validateRegions ensures that a region named in one regional group is
// named in all of them
func (c *Config) validateRegions() error {
	groups := map[string][]string{
		"growth.latitude":   keys(c.Growth.Latitude),
		"temperature.sites": keys(c.Temperature.Sites),
		"costs.regions":     keys(c.Costs.Regions),
	}

	for name, regions := range groups {
		for _, region := range regions {
			if _, err := c.Region(region); err != nil {
				return fmt.Errorf("region %q of %v: %w", region, name,
					ErrUnknownRegion)
			}
		}
	}
	return nil
}

func (e EnvironmentConfig) validate() error {
	if e.InitialFishCount <= 0 {
		return fmt.Errorf("environment: initial_fish_count must be positive")
	}
	if e.MaxDays <= 0 {
		return fmt.Errorf("environment: max_days must be positive")
	}
	if len(e.ObservationLow) != len(e.ObservationHigh) {
		return fmt.Errorf("environment: observation bounds have lengths "+
			"%v and %v", len(e.ObservationLow), len(e.ObservationHigh))
	}
	for i := range e.ObservationLow {
		if e.ObservationLow[i] >= e.ObservationHigh[i] {
			return fmt.Errorf("environment: observation dimension %v has "+
				"empty range [%v, %v]", i, e.ObservationLow[i],
				e.ObservationHigh[i])
		}
	}

	if len(e.ActionLow) != len(e.ActionHigh) ||
		len(e.ActionLow) != len(e.ActionBins) {
		return fmt.Errorf("environment: action bounds and bins must have " +
			"equal lengths")
	}
	for i := range e.ActionLow {
		if e.ActionLow[i] > e.ActionHigh[i] {
			return fmt.Errorf("environment: action dimension %v has "+
				"inverted range [%v, %v]", i, e.ActionLow[i], e.ActionHigh[i])
		}
		if e.ActionBins[i] < 1 {
			return fmt.Errorf("environment: action dimension %v needs at "+
				"least one bin", i)
		}
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
