package types

// ViewSpec is a renderer-independent description of a window's content
// area. Factories build these from static template data; controllers patch
// region state as their backend calls resolve. The rendering shell maps
// region kinds onto whatever widget set it has.
type ViewSpec struct {
	Kind    string   `json:"kind"`
	Regions []Region `json:"regions,omitempty"`
}

// Region is one addressable area inside a view: a toolbar, a list, a text
// editor, a status line.
type Region struct {
	ID     string     `json:"id"`
	Kind   string     `json:"kind"`
	Label  string     `json:"label,omitempty"`
	Text   string     `json:"text,omitempty"`
	Hidden bool       `json:"hidden,omitempty"`
	Items  []ViewItem `json:"items,omitempty"`
}

// ViewItem is one entry in a list-like region (file rows, email rows,
// toolbar buttons, tabs).
type ViewItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Glyph    string `json:"glyph,omitempty"`
	Action   string `json:"action,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Region lookup by id; returns nil when absent.
func (v *ViewSpec) Region(id string) *Region {
	for i := range v.Regions {
		if v.Regions[i].ID == id {
			return &v.Regions[i]
		}
	}
	return nil
}

// Clone returns a deep copy so stored view state can be handed out safely.
func (v *ViewSpec) Clone() *ViewSpec {
	if v == nil {
		return nil
	}
	out := &ViewSpec{Kind: v.Kind, Regions: make([]Region, len(v.Regions))}
	copy(out.Regions, v.Regions)
	for i := range out.Regions {
		if len(v.Regions[i].Items) > 0 {
			out.Regions[i].Items = make([]ViewItem, len(v.Regions[i].Items))
			copy(out.Regions[i].Items, v.Regions[i].Items)
		}
	}
	return out
}
