package domain

import "fmt"

// Package is a service tier
type Package struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog holds the subjects, tiers and the subject x package price table
type Catalog struct {
	Subjects     []string                  `yaml:"subjects"`
	Packages     []Package                 `yaml:"packages"`
	Prices       map[string]map[string]int `yaml:"prices"`
	StatusLabels map[OrderStatus]string    `yaml:"status_labels"`
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	return &Catalog{
		Subjects: []string{
			"🏠 Архитектура",
			"🏗️ ТСП",
			"🌡️ ТГВ",
			"🚰 ВиВ",
		},
		Packages: []Package{
			{Key: "basic", Name: "🏗️ БАЗОВЫЙ"},
			{Key: "standard", Name: "📊 СТАНДАРТ"},
			{Key: "individual", Name: "💎 ИНДИВИДУАЛЬНЫЙ"},
		},
		Prices: map[string]map[string]int{
			"🏠 Архитектура": {"basic": 3000, "standard": 5000, "individual": 7000},
			"🏗️ ТСП": {"basic": 2500, "standard": 4500, "individual": 6500},
			"🌡️ ТГВ": {"basic": 2800, "standard": 4800, "individual": 6800},
			"🚰 ВиВ": {"basic": 2700, "standard": 4700, "individual": 6700},
		},
		StatusLabels: defaultStatusLabels(),
	}
}

func defaultStatusLabels() map[OrderStatus]string {
	return map[OrderStatus]string{
		StatusWorking:   "🔄 В работе",
		StatusReady:     "✅ Готов",
		StatusDelivered: "📦 Передан клиенту",
		StatusPaid:      "💰 Оплачен",
	}
}

// Validate checks the catalog structure. Missing prices are not an error here,
// they surface as ErrPriceLookup when a user picks that combination.
func (c *Catalog) Validate() error {
	if len(c.Subjects) == 0 {
		return fmt.Errorf("catalog has no subjects")
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("catalog has no packages")
	}
	seen := make(map[string]bool, len(c.Packages))
	for _, p := range c.Packages {
		if p.Key == "" || p.Name == "" {
			return fmt.Errorf("catalog package must have key and name")
		}
		if seen[p.Key] {
			return fmt.Errorf("duplicate package key %q", p.Key)
		}
		seen[p.Key] = true
	}
	if c.StatusLabels == nil {
		c.StatusLabels = defaultStatusLabels()
	}
	for st, label := range defaultStatusLabels() {
		if c.StatusLabels[st] == "" {
			c.StatusLabels[st] = label
		}
	}
	return nil
}

// HasSubject reports whether subject is in the catalog
func (c *Catalog) HasSubject(subject string) bool {
	for _, s := range c.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// PackageByKey finds a package by its key
func (c *Catalog) PackageByKey(key string) (Package, bool) {
	for _, p := range c.Packages {
		if p.Key == key {
			return p, true
		}
	}
	return Package{}, false
}

// PackageByName finds a package by its display name
func (c *Catalog) PackageByName(name string) (Package, bool) {
	for _, p := range c.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// PackageName returns the display name for key, or the key itself
func (c *Catalog) PackageName(key string) string {
	if p, ok := c.PackageByKey(key); ok {
		return p.Name
	}
	return key
}

// Price returns the price of subject x package, 0 when undefined
func (c *Catalog) Price(subject, packageKey string) int {
	return c.Prices[subject][packageKey]
}

// StatusLabel returns the display label of a status
func (c *Catalog) StatusLabel(s OrderStatus) string {
	if label, ok := c.StatusLabels[s]; ok {
		return label
	}
	return string(s)
}
