package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the fixed, ordered option lists offered by the report form.
type Catalog struct {
	Stores        []string `yaml:"stores" json:"stores"`
	Handlers      []string `yaml:"handlers" json:"handlers"`
	Categories    []string `yaml:"categories" json:"categories"`
	ErrorMessages []string `yaml:"errorMessages" json:"errorMessages"`
	DamagedParts  []string `yaml:"damagedParts" json:"damagedParts"`
	DamageTypes   []string `yaml:"damageTypes" json:"damageTypes"`
	Sides         []string `yaml:"sides" json:"sides"`
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. An empty path yields the
// embedded default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) check() error {
	lists := []struct {
		name   string
		values []string
	}{
		{"stores", c.Stores},
		{"handlers", c.Handlers},
		{"categories", c.Categories},
		{"errorMessages", c.ErrorMessages},
		{"damagedParts", c.DamagedParts},
		{"damageTypes", c.DamageTypes},
		{"sides", c.Sides},
	}
	for _, l := range lists {
		if len(l.values) == 0 {
			return fmt.Errorf("%s must not be empty", l.name)
		}
		for _, v := range l.values {
			if v == "" {
				return fmt.Errorf("%s contains an empty value", l.name)
			}
		}
	}
	for _, v := range c.Categories {
		if !Category(v).Known() {
			return fmt.Errorf("unknown category %q", v)
		}
	}
	return nil
}

// CheckCatalog reports an error when a non-empty enumerated field of r is
// not one of the catalog's values.
func (c *Catalog) CheckCatalog(r Report) error {
	var errs []error
	member := func(field, value string, allowed []string) {
		if value != "" && !slices.Contains(allowed, value) {
			errs = append(errs, fmt.Errorf("%s: %q is not a valid option", field, value))
		}
	}

	member("storeName", r.StoreName, c.Stores)
	member("staffName", r.StaffName, c.Handlers)
	member("category", string(r.Category), c.Categories)

	switch d := r.Details.(type) {
	case MachineError:
		member("errorMessage", d.ErrorMessage, c.ErrorMessages)
		member("damagedPart", d.DamagedPart, c.DamagedParts)
		member("side", string(d.Side), c.Sides)
	case MachineDamage:
		member("damageType", d.DamageType, c.DamageTypes)
		member("side", string(d.Side), c.Sides)
	}
	return errors.Join(errs...)
}
