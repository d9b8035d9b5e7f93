// Package catalog loads and validates award catalogs.
//
// A catalog is immutable once built. Every award prerequisite and reference
// resolves to a known award and references form no cycle, so evaluation
// over it always terminates.
package catalog

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

// Catalog is a validated, ordered set of award definitions.
type Catalog struct {
	version *semver.Version
	awards  []model.AwardDefinition
	byID    map[string]int
}

// New validates defs and builds an unversioned catalog.
func New(defs ...model.AwardDefinition) (*Catalog, error) {
	c := &Catalog{
		awards: slices.Clone(defs),
		byID:   make(map[string]int, len(defs)),
	}
	for i, d := range c.awards {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: award %d has no id", ErrInvalidAward, i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAward, d.ID)
		}
		if d.Requirements == nil {
			c.awards[i].Requirements = requirement.And{}
		}
		c.byID[d.ID] = i
	}
	for _, d := range c.awards {
		if err := c.checkAward(d); err != nil {
			return nil, err
		}
	}
	if err := c.checkCycles(); err != nil {
		return nil, err
	}
	return c, nil
}

// Award returns the definition with the given id.
func (c *Catalog) Award(id string) (model.AwardDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.AwardDefinition{}, false
	}
	return c.awards[i], true
}

// All returns every definition in catalog order.
func (c *Catalog) All() []model.AwardDefinition {
	return slices.Clone(c.awards)
}

// Len returns the number of awards.
func (c *Catalog) Len() int { return len(c.awards) }

// Version returns the catalog's semantic version, or "" when unversioned.
func (c *Catalog) Version() string {
	if c.version == nil {
		return ""
	}
	return c.version.String()
}

func (c *Catalog) checkAward(d model.AwardDefinition) error {
	for _, p := range d.Prerequisites {
		switch p.Kind {
		case model.PrerequisiteAward:
			if _, ok := c.byID[p.AwardID]; !ok {
				return fmt.Errorf("%w: %s prerequisite %q", ErrUnknownReference, d.ID, p.AwardID)
			}
		case model.PrerequisiteAge:
			if p.MinAge != nil && p.MaxAge != nil && *p.MinAge > *p.MaxAge {
				return fmt.Errorf("%w: %s age prerequisite has minAge above maxAge", ErrInvalidAward, d.ID)
			}
		default:
			return fmt.Errorf("%w: %s prerequisite kind %q", ErrInvalidAward, d.ID, p.Kind)
		}
	}
	for _, ref := range references(d) {
		if _, ok := c.byID[ref]; !ok {
			return fmt.Errorf("%w: %s references %q", ErrUnknownReference, d.ID, ref)
		}
	}
	return nil
}

// checkCycles walks the reference graph depth-first.
func (c *Catalog) checkCycles() error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(c.awards))
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case active:
			return fmt.Errorf("%w: %v", ErrReferenceCycle, append(path, id))
		case done:
			return nil
		}
		state[id] = active
		def, _ := c.Award(id)
		for _, ref := range references(def) {
			if err := visit(ref, append(path, id)); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, d := range c.awards {
		if err := visit(d.ID, nil); err != nil {
			return err
		}
	}
	return nil
}

// references collects every award id the definition's sustained leaves may
// evaluate: award-level references plus leaf and per-year references.
func references(d model.AwardDefinition) []string {
	out := slices.Clone(d.References)
	for _, l := range requirement.Leaves(d.Requirements) {
		s, ok := l.Spec.(requirement.Sustained)
		if !ok {
			continue
		}
		out = append(out, s.References...)
		out = append(out, yearReferences(s.PerYear)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func yearReferences(t requirement.YearTest) []string {
	switch t := t.(type) {
	case requirement.YearAll:
		var out []string
		for _, c := range t.Tests {
			out = append(out, yearReferences(c)...)
		}
		return out
	case requirement.YearAny:
		var out []string
		for _, c := range t.Tests {
			out = append(out, yearReferences(c)...)
		}
		return out
	case requirement.YearReferences:
		return t.AwardIDs
	default:
		return nil
	}
}
