package catalog

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// Catalog is the static clinical configuration: the knowledge-base category
// definitions, the lab-value rules and the condition vocabulary. It is
// loaded once at startup and treated as read-only afterward.
type Catalog struct {
	Categories []Category `toml:"category"`
	LabRules   []LabRule  `toml:"lab"`
	Conditions []string   `toml:"conditions"`
}

// Category defines one knowledge-base category: curated trigger phrases and
// a response template per qualitative label.
type Category struct {
	ID        string            `toml:"id"`
	Phrases   []string          `toml:"phrases"`
	Responses map[string]string `toml:"responses"`
}

// Validate checks if the Category is valid
func (c *Category) Validate() error {
	if c.ID == "" {
		return goerr.New("category ID is required")
	}
	if len(c.Phrases) == 0 {
		return goerr.New("category requires at least one trigger phrase", goerr.V("id", c.ID))
	}
	if len(c.Responses) == 0 {
		return goerr.New("category requires at least one response template", goerr.V("id", c.ID))
	}
	for label, tmpl := range c.Responses {
		if tmpl == "" {
			return goerr.New("empty response template", goerr.V("id", c.ID), goerr.V("label", label))
		}
	}
	return nil
}

// LabRule defines how one lab value is extracted and interpreted. Pattern
// must contain exactly one capture group for the numeric value.
type LabRule struct {
	Name        string  `toml:"name"`
	Pattern     string  `toml:"pattern"`
	RangeLow    float64 `toml:"range_low"`
	RangeHigh   float64 `toml:"range_high"`
	LowMeaning  string  `toml:"low_meaning"`
	HighMeaning string  `toml:"high_meaning"`
}

// Validate checks if the LabRule is valid
func (r *LabRule) Validate() error {
	if r.Name == "" {
		return goerr.New("lab rule name is required")
	}
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return goerr.Wrap(err, "invalid lab rule pattern", goerr.V("name", r.Name))
	}
	if re.NumSubexp() != 1 {
		return goerr.New("lab rule pattern must have exactly one capture group",
			goerr.V("name", r.Name), goerr.V("groups", re.NumSubexp()))
	}
	if r.RangeLow >= r.RangeHigh {
		return goerr.New("lab rule range is inverted",
			goerr.V("name", r.Name), goerr.V("low", r.RangeLow), goerr.V("high", r.RangeHigh))
	}
	if r.LowMeaning == "" || r.HighMeaning == "" {
		return goerr.New("lab rule meanings are required", goerr.V("name", r.Name))
	}
	return nil
}

// Validate checks the whole catalog: per-entry validity plus unique IDs
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return goerr.New("catalog requires at least one category")
	}

	seenCategories := make(map[string]bool)
	for i := range c.Categories {
		if err := c.Categories[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid category", goerr.V("index", i))
		}
		if seenCategories[c.Categories[i].ID] {
			return goerr.New("duplicate category ID", goerr.V("id", c.Categories[i].ID))
		}
		seenCategories[c.Categories[i].ID] = true
	}

	seenLabs := make(map[string]bool)
	for i := range c.LabRules {
		if err := c.LabRules[i].Validate(); err != nil {
			return goerr.Wrap(err, "invalid lab rule", goerr.V("index", i))
		}
		if seenLabs[c.LabRules[i].Name] {
			return goerr.New("duplicate lab rule name", goerr.V("name", c.LabRules[i].Name))
		}
		seenLabs[c.LabRules[i].Name] = true
	}

	for i, cond := range c.Conditions {
		if cond == "" {
			return goerr.New("empty condition name", goerr.V("index", i))
		}
	}

	return nil
}
