package galaxy

import (
	"github.com/litescript/ls-starfield/internal/errs"
)

// Block locates one component's rows inside a catalog.
type Block struct {
	Component Component `json:"component"`
	Offset    int       `json:"offset"`
	Count     int       `json:"count"`
	Fallbacks int       `json:"fallbacks"`
}

// Catalog is the assembled star list. Rows are grouped by component in
// AllComponents order. A catalog is not modified after assembly.
type Catalog struct {
	Seed   uint64
	Stars  Stars
	Blocks []Block
}

// Len returns the number of stars.
func (c *Catalog) Len() int {
	return c.Stars.Len()
}

// Block returns the block for comp.
func (c *Catalog) Block(comp Component) (Block, bool) {
	for _, b := range c.Blocks {
		if b.Component == comp {
			return b, true
		}
	}
	return Block{}, false
}

// ComponentStars returns a copy of comp's rows.
func (c *Catalog) ComponentStars(comp Component) Stars {
	b, ok := c.Block(comp)
	if !ok {
		return NewStars(0)
	}
	end := b.Offset + b.Count
	sub := Stars{
		X:           c.Stars.X[b.Offset:end],
		Y:           c.Stars.Y[b.Offset:end],
		Z:           c.Stars.Z[b.Offset:end],
		Temperature: c.Stars.Temperature[b.Offset:end],
		Brightness:  c.Stars.Brightness[b.Offset:end],
		Size:        c.Stars.Size[b.Offset:end],
	}
	return sub.Clone()
}

// Fallbacks returns the total number of attempt-cap fallbacks.
func (c *Catalog) Fallbacks() int {
	total := 0
	for _, b := range c.Blocks {
		total += b.Fallbacks
	}
	return total
}

// Assemble concatenates results field by field in component order. Every
// result must be aligned and hold exactly the requested number of stars.
func Assemble(results []Result) (*Catalog, error) {
	const op = "galaxy.Assemble"

	ordered := make([]*Result, len(AllComponents))
	total := 0
	for i := range results {
		r := &results[i]
		if r.Component < Bulge || r.Component > Halo {
			return nil, errs.Internalf(op, "unknown component %d", r.Component)
		}
		if ordered[r.Component] != nil {
			return nil, errs.Internalf(op, "duplicate result for %s", r.Component)
		}
		if err := r.Stars.Validate(); err != nil {
			return nil, errs.Internalf(op, "%s: %v", r.Component, err)
		}
		if r.Stars.Len() != r.Requested {
			return nil, errs.Internalf(op, "%s produced %d stars, want %d", r.Component, r.Stars.Len(), r.Requested)
		}
		ordered[r.Component] = r
		total += r.Requested
	}

	cat := &Catalog{Stars: NewStars(total)}
	for _, r := range ordered {
		if r == nil {
			continue
		}
		cat.Blocks = append(cat.Blocks, Block{
			Component: r.Component,
			Offset:    cat.Stars.Len(),
			Count:     r.Stars.Len(),
			Fallbacks: r.Fallbacks,
		})
		cat.Stars.Append(r.Stars)
	}

	if err := cat.Stars.Validate(); err != nil {
		return nil, err
	}
	if cat.Len() != total {
		return nil, errs.Internalf(op, "catalog has %d stars, want %d", cat.Len(), total)
	}
	return cat, nil
}
