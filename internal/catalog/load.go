package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override adjusts one builtin pattern from a catalog file. Pointer fields
// distinguish "not set" from an explicit zero value. Detection rules stay
// compiled in; the file reshapes the data around a known rule id.
type Override struct {
	ID             string   `yaml:"id"`
	Name           *string  `yaml:"name"`
	Severity       *string  `yaml:"severity"`
	Active         *bool    `yaml:"active"`
	TimeframeDays  *int     `yaml:"timeframe_days"`
	Confidence     *float64 `yaml:"confidence"`
	Title          *string  `yaml:"title"`
	Message        *string  `yaml:"message"`
	ExpectedImpact *string  `yaml:"expected_impact"`
	ActionSteps    []string `yaml:"action_steps"`
	TrackingMetric *string  `yaml:"tracking_metric"`
	Focus          *string  `yaml:"focus"`
}

// Load assembles the catalog: builtins, then overrides from the optional
// YAML file at path, then the disabled list from configuration. Any
// problem fails the load eagerly with ErrConfiguration.
func Load(path string, disabled []string) (*Catalog, error) {
	patterns := Builtin()

	if path != "" {
		overrides, err := readOverrides(path)
		if err != nil {
			return nil, err
		}
		for _, o := range overrides {
			if err := applyOverride(patterns, o); err != nil {
				return nil, err
			}
		}
	}

	for _, id := range disabled {
		if !disablePattern(patterns, id) {
			return nil, fmt.Errorf("%w: disabled_patterns names unknown pattern %q", ErrConfiguration, id)
		}
	}

	return New(patterns)
}

func readOverrides(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading catalog file: %v", ErrConfiguration, err)
	}

	var overrides []Override
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("%w: parsing catalog file %s: %v", ErrConfiguration, path, err)
	}
	return overrides, nil
}

func applyOverride(patterns []Pattern, o Override) error {
	if o.ID == "" {
		return fmt.Errorf("%w: catalog file entry has no id", ErrConfiguration)
	}

	for i := range patterns {
		if patterns[i].ID != o.ID {
			continue
		}
		p := &patterns[i]
		if o.Name != nil {
			p.Name = *o.Name
		}
		if o.Severity != nil {
			p.Severity = Severity(*o.Severity)
		}
		if o.Active != nil {
			p.Active = *o.Active
		}
		if o.TimeframeDays != nil {
			p.TimeframeDays = *o.TimeframeDays
		}
		if o.Confidence != nil {
			p.Confidence = *o.Confidence
		}
		if o.Title != nil {
			p.Title = *o.Title
		}
		if o.Message != nil {
			p.Message = *o.Message
		}
		if o.ExpectedImpact != nil {
			p.ExpectedImpact = *o.ExpectedImpact
		}
		if o.ActionSteps != nil {
			p.ActionSteps = o.ActionSteps
		}
		if o.TrackingMetric != nil {
			p.TrackingMetric = *o.TrackingMetric
		}
		if o.Focus != nil {
			p.Focus = *o.Focus
		}
		return nil
	}

	return fmt.Errorf("%w: catalog file overrides unknown pattern %q", ErrConfiguration, o.ID)
}

func disablePattern(patterns []Pattern, id string) bool {
	for i := range patterns {
		if patterns[i].ID == id {
			patterns[i].Active = false
			return true
		}
	}
	return false
}
