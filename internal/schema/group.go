package schema

// Group is a logical cluster of blocks sharing one registration response
// key: one label block, at most one input block, and zero or more option
// blocks. Groups are derived during partitioning and never persisted.
type Group struct {
	Label   *Block
	Input   *Block
	Options []Block
	// Other carries blocks with no partitioning role (paragraphs,
	// sub-headings) that appeared while this group was open.
	Other []Block
}

// ResponseKey returns the registration response key of the group's input
// block, or empty if the group has no input.
func (g *Group) ResponseKey() string {
	if g.Input == nil {
		return ""
	}
	return g.Input.RegistrationResponseKey
}

// LabelText returns the label block's display text, or empty without one.
func (g *Group) LabelText() string {
	if g.Label == nil {
		return ""
	}
	return g.Label.DisplayText
}

// Required reports whether the group's input block is marked required.
func (g *Group) Required() bool {
	return g.Input != nil && g.Input.Required
}

// OptionValues returns the display text of each option block in order.
func (g *Group) OptionValues() []string {
	values := make([]string, 0, len(g.Options))
	for _, opt := range g.Options {
		values = append(values, opt.DisplayText)
	}
	return values
}

// blockCount returns the number of blocks held by the group.
func (g *Group) blockCount() int {
	n := len(g.Options) + len(g.Other)
	if g.Label != nil {
		n++
	}
	if g.Input != nil {
		n++
	}
	return n
}

// Page is a contiguous run of groups shown together as one wizard screen.
type Page struct {
	// Heading is the page-heading block that opened the page, nil for a
	// leading page created before any heading block.
	Heading *Block
	Groups  []*Group
}

// HeadingText returns the display text of the page's heading block, or
// empty for a headingless leading page.
func (p *Page) HeadingText() string {
	if p.Heading == nil {
		return ""
	}
	return p.Heading.DisplayText
}

// ResponseKeys returns the response keys of every input-bearing group on
// the page, in display order.
func (p *Page) ResponseKeys() []string {
	var keys []string
	for _, g := range p.Groups {
		if key := g.ResponseKey(); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// BlockCount returns the total number of blocks on the page, heading
// included.
func (p *Page) BlockCount() int {
	n := 0
	if p.Heading != nil {
		n++
	}
	for _, g := range p.Groups {
		n += g.blockCount()
	}
	return n
}
