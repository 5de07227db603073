package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Selector is the canonical form of the string-or-object selector union.
// A bare string in the configuration decodes to a Selector with only
// the Selector field set.
type Selector struct {
	// Selector is the CSS selector string.
	Selector string `json:"selector" yaml:"selector"`

	// Global marks the selector as resolved once against the whole
	// document instead of positionally during the walk.
	Global bool `json:"global,omitempty" yaml:"global,omitempty"`

	// DefaultValue is used when a global selector matches nothing.
	DefaultValue string `json:"default_value,omitempty" yaml:"default_value,omitempty"`
}

// IsZero reports whether the selector is unset.
func (s Selector) IsZero() bool {
	return s.Selector == "" && s.DefaultValue == ""
}

// UnmarshalJSON accepts either a bare selector string or the object form.
func (s *Selector) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Selector{Selector: str}
		return nil
	}

	type selectorObject Selector
	var obj selectorObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("selector must be a string or an object: %w", err)
	}
	*s = Selector(obj)
	return nil
}

// UnmarshalYAML accepts either a bare selector string or the object form.
func (s *Selector) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = Selector{Selector: value.Value}
		return nil
	}

	type selectorObject Selector
	var obj selectorObject
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("selector must be a string or an object: %w", err)
	}
	*s = Selector(obj)
	return nil
}

// SelectorSet holds the selectors used to extract one page: seven
// heading levels, the text-content selector, and the optional tag and
// breadcrumb selectors.
type SelectorSet struct {
	Lvl0 Selector `json:"lvl0" yaml:"lvl0"`
	Lvl1 Selector `json:"lvl1" yaml:"lvl1"`
	Lvl2 Selector `json:"lvl2" yaml:"lvl2"`
	Lvl3 Selector `json:"lvl3" yaml:"lvl3"`
	Lvl4 Selector `json:"lvl4" yaml:"lvl4"`
	Lvl5 Selector `json:"lvl5" yaml:"lvl5"`
	Lvl6 Selector `json:"lvl6" yaml:"lvl6"`

	Text       Selector `json:"text" yaml:"text"`
	Tag        Selector `json:"tag,omitempty" yaml:"tag,omitempty"`
	Breadcrumb Selector `json:"breadcrumb,omitempty" yaml:"breadcrumb,omitempty"`
}

// Level returns the selector for heading level i (0..6).
func (s SelectorSet) Level(i int) Selector {
	switch i {
	case 0:
		return s.Lvl0
	case 1:
		return s.Lvl1
	case 2:
		return s.Lvl2
	case 3:
		return s.Lvl3
	case 4:
		return s.Lvl4
	case 5:
		return s.Lvl5
	case 6:
		return s.Lvl6
	}
	return Selector{}
}

// StartURL is the canonical form of the string-or-object start-URL
// union. A bare string decodes to rank 1 and the default selector set.
type StartURL struct {
	// URL is a literal URL or a pattern matched against crawled URLs.
	URL string `json:"url" yaml:"url"`

	// PageRank is the ranking weight for pages matching this entry.
	// Zero means the default rank of 1.
	PageRank int `json:"page_rank,omitempty" yaml:"page_rank,omitempty"`

	// SelectorsKey names the selector set used for matching pages.
	SelectorsKey string `json:"selectors_key,omitempty" yaml:"selectors_key,omitempty"`
}

// UnmarshalJSON accepts either a bare URL string or the object form.
func (u *StartURL) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*u = StartURL{URL: str}
		return nil
	}

	type startURLObject StartURL
	var obj startURLObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("start_urls entry must be a string or an object: %w", err)
	}
	*u = StartURL(obj)
	return nil
}

// UnmarshalYAML accepts either a bare URL string or the object form.
func (u *StartURL) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*u = StartURL{URL: value.Value}
		return nil
	}

	type startURLObject StartURL
	var obj startURLObject
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("start_urls entry must be a string or an object: %w", err)
	}
	*u = StartURL(obj)
	return nil
}

// Rank returns the effective rank of the entry.
func (u StartURL) Rank() int {
	if u.PageRank > 0 {
		return u.PageRank
	}
	return 1
}

// selectorSetFields are the keys that identify a raw selectors mapping
// as a single anonymous set rather than a name-to-set mapping.
var selectorSetFields = map[string]bool{
	"lvl0": true, "lvl1": true, "lvl2": true, "lvl3": true,
	"lvl4": true, "lvl5": true, "lvl6": true,
	"text": true, "tag": true, "breadcrumb": true,
}

// DefaultSelectorsKey is the key a single anonymous selector set is
// normalized under.
const DefaultSelectorsKey = "default"

// parseSelectorsJSON normalizes the selectors document: either a single
// anonymous selector set, or a mapping of names to sets. Returns the
// sets and the key declaration order.
func parseSelectorsJSON(raw json.RawMessage) (map[string]SelectorSet, []string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, fmt.Errorf("selectors must be an object: %w", err)
	}

	if isSingleSelectorSet(probe) {
		var set SelectorSet
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, nil, err
		}
		return map[string]SelectorSet{DefaultSelectorsKey: set}, []string{DefaultSelectorsKey}, nil
	}

	// Named mapping. Walk tokens so declaration order survives; a Go
	// map would lose it and "first declared set" is a documented
	// fallback.
	sets := make(map[string]SelectorSet, len(probe))
	var order []string

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, nil, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("selectors: unexpected token %v", tok)
		}
		var set SelectorSet
		if err := dec.Decode(&set); err != nil {
			return nil, nil, fmt.Errorf("selectors[%s]: %w", key, err)
		}
		sets[key] = set
		order = append(order, key)
	}

	return sets, order, nil
}

// parseSelectorsYAML is the YAML twin of parseSelectorsJSON. The
// yaml.Node content slice preserves declaration order natively.
func parseSelectorsYAML(node *yaml.Node) (map[string]SelectorSet, []string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("selectors must be a mapping")
	}

	keys := make(map[string]bool, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}

	if isSingleSelectorSet(keys) {
		var set SelectorSet
		if err := node.Decode(&set); err != nil {
			return nil, nil, err
		}
		return map[string]SelectorSet{DefaultSelectorsKey: set}, []string{DefaultSelectorsKey}, nil
	}

	sets := make(map[string]SelectorSet, len(keys))
	var order []string
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var set SelectorSet
		if err := node.Content[i+1].Decode(&set); err != nil {
			return nil, nil, fmt.Errorf("selectors[%s]: %w", key, err)
		}
		sets[key] = set
		order = append(order, key)
	}

	return sets, order, nil
}

// isSingleSelectorSet reports whether the top-level keys look like the
// fields of one selector set rather than set names.
func isSingleSelectorSet[V any](keys map[string]V) bool {
	for key := range keys {
		if selectorSetFields[key] {
			return true
		}
	}
	return false
}
