package grouping

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/medialib-admin/internal/domain"
)

// CompareFunc reports whether entities of categories a and b may be grouped
// as duplicates. It must be symmetric.
type CompareFunc func(a, b domain.Category) bool

// Policy is the configurable comparability predicate. Explicit rules win over
// SameCategory, which wins over Default.
type Policy struct {
	Default      bool
	SameCategory bool
	rules        map[pairKey]bool
}

type pairKey struct{ a, b domain.Category }

func newPairKey(a, b domain.Category) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// OpenPolicy lets every mergeable category be compared with every other.
func OpenPolicy() *Policy {
	return &Policy{Default: true, SameCategory: true, rules: map[pairKey]bool{}}
}

func (p *Policy) CanCompare(a, b domain.Category) bool {
	if p == nil {
		return true
	}
	if allow, ok := p.rules[newPairKey(a, b)]; ok {
		return allow
	}
	if a == b {
		return p.SameCategory
	}
	return p.Default
}

// Set adds or replaces an explicit rule for the unordered pair {a, b}.
func (p *Policy) Set(a, b domain.Category, allow bool) {
	if p.rules == nil {
		p.rules = map[pairKey]bool{}
	}
	p.rules[newPairKey(a, b)] = allow
}

func (p *Policy) Func() CompareFunc { return p.CanCompare }

type policyFile struct {
	Default      *bool        `yaml:"default"`
	SameCategory *bool        `yaml:"same_category"`
	Rules        []policyRule `yaml:"rules"`
}

type policyRule struct {
	A     string `yaml:"a"`
	B     string `yaml:"b"`
	Allow bool   `yaml:"allow"`
}

// ParsePolicy reads a YAML comparability document. Omitted defaults are open.
func ParsePolicy(data []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse comparability policy: %w", err)
	}
	p := OpenPolicy()
	if f.Default != nil {
		p.Default = *f.Default
	}
	if f.SameCategory != nil {
		p.SameCategory = *f.SameCategory
	}
	for i, r := range f.Rules {
		a, err := domain.ParseCategory(r.A)
		if err != nil {
			return nil, fmt.Errorf("comparability rule %d: %w", i, err)
		}
		b, err := domain.ParseCategory(r.B)
		if err != nil {
			return nil, fmt.Errorf("comparability rule %d: %w", i, err)
		}
		p.Set(a, b, r.Allow)
	}
	return p, nil
}

// LoadPolicy reads a policy file. An empty path or a missing file yields
// OpenPolicy.
func LoadPolicy(path string) (*Policy, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return OpenPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return OpenPolicy(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read comparability policy: %w", err)
	}
	return ParsePolicy(data)
}
