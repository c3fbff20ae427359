// Package catalog provides the static records (activities, communities, friend candidates,
// seed users and notification templates) the engines are built from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/silverconnect/pkg/domain"
	"github.com/aretw0/silverconnect/pkg/ports"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// document is the on-disk layout of a catalog file.
type document struct {
	Communities   []domain.Community  `yaml:"communities"`
	Activities    []domain.Activity   `yaml:"activities"`
	People        []domain.Person     `yaml:"people"`
	Users         []domain.UserRecord `yaml:"users"`
	Notifications map[string][]string `yaml:"notifications"`
}

// Catalog is an immutable snapshot. Accessors return copies.
type Catalog struct {
	doc document
}

var _ ports.CatalogProvider = (*Catalog)(nil)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// LoadFile reads and validates a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return &Catalog{doc: doc}, nil
}

func validate(doc document) error {
	var errs []error
	seen := map[int]bool{}
	for _, a := range doc.Activities {
		if seen[a.ID] || a.ID <= 0 {
			errs = append(errs, fmt.Errorf("activity %q: id %d must be positive and unique", a.Name, a.ID))
		}
		seen[a.ID] = true
		if a.MaxParticipants <= 0 || a.Participants < 0 || a.Participants > a.MaxParticipants {
			errs = append(errs, fmt.Errorf("activity %q: participants %d/%d out of range", a.Name, a.Participants, a.MaxParticipants))
		}
	}
	clear(seen)
	for _, c := range doc.Communities {
		if seen[c.ID] || c.ID <= 0 {
			errs = append(errs, fmt.Errorf("community %q: id %d must be positive and unique", c.Name, c.ID))
		}
		seen[c.ID] = true
	}
	names := map[string]bool{}
	for _, p := range doc.People {
		if p.Name == "" || names[p.Name] {
			errs = append(errs, fmt.Errorf("person %q: name must be set and unique", p.Name))
		}
		names[p.Name] = true
	}
	for _, category := range ports.NotificationCategories {
		if len(doc.Notifications[category]) == 0 {
			errs = append(errs, fmt.Errorf("notification pool %q is empty", category))
		}
	}
	return errors.Join(errs...)
}

// Activities returns the activity records.
func (c *Catalog) Activities() []domain.Activity { return slices.Clone(c.doc.Activities) }

// Communities returns the community records.
func (c *Catalog) Communities() []domain.Community { return slices.Clone(c.doc.Communities) }

// People returns the friend candidates.
func (c *Catalog) People() []domain.Person {
	out := slices.Clone(c.doc.People)
	for i := range out {
		out[i].Interests = slices.Clone(out[i].Interests)
	}
	return out
}

// Users returns the seed accounts.
func (c *Catalog) Users() []domain.UserRecord {
	out := slices.Clone(c.doc.Users)
	for i := range out {
		out[i].Hobbies = slices.Clone(out[i].Hobbies)
	}
	return out
}

// NotificationTemplates returns the template pools keyed by category.
func (c *Catalog) NotificationTemplates() map[string][]string {
	out := make(map[string][]string, len(c.doc.Notifications))
	for k, v := range c.doc.Notifications {
		out[k] = slices.Clone(v)
	}
	return out
}
