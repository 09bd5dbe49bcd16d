// Package orglogo picks the icon shown next to a job for its hiring
// organisation.
package orglogo

import "strings"

type Kind string

const (
	// KindPath icons carry an SVG path in Value.
	KindPath Kind = "path"
	// KindGlyph icons carry a single glyph in Value.
	KindGlyph Kind = "glyph"
)

type Icon struct {
	Key   string `json:"key"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Color string `json:"color"`
}

const railwayPath = "M12 2c-4 0-8 .5-8 4v9.5A3.5 3.5 0 0 0 7.5 19L6 20.5v.5h2.2l2-2h3.6l2 2H18v-.5L16.5 19a3.5 3.5 0 0 0 3.5-3.5V6c0-3.5-4-4-8-4zM7.5 17a1.5 1.5 0 1 1 0-3 1.5 1.5 0 0 1 0 3zm3.5-7H6V6h5v4zm2 0V6h5v4h-5zm3.5 7a1.5 1.5 0 1 1 0-3 1.5 1.5 0 0 1 0 3z"

var (
	Railway    = Icon{Key: "railway", Kind: KindPath, Value: railwayPath, Color: "#F97316"}
	Bank       = Icon{Key: "bank", Kind: KindGlyph, Value: "🏦", Color: "#16A34A"}
	Defence    = Icon{Key: "defence", Kind: KindGlyph, Value: "🎖️", Color: "#4D7C0F"}
	Police     = Icon{Key: "police", Kind: KindGlyph, Value: "👮", Color: "#1D4ED8"}
	Post       = Icon{Key: "post", Kind: KindGlyph, Value: "📮", Color: "#DC2626"}
	Commission = Icon{Key: "commission", Kind: KindGlyph, Value: "🏛️", Color: "#7C3AED"}
	Selection  = Icon{Key: "staff_selection", Kind: KindGlyph, Value: "📝", Color: "#0891B2"}
	Health     = Icon{Key: "health", Kind: KindGlyph, Value: "🏥", Color: "#E11D48"}
	Education  = Icon{Key: "education", Kind: KindGlyph, Value: "🎓", Color: "#2563EB"}
	Energy     = Icon{Key: "energy", Kind: KindGlyph, Value: "⚡", Color: "#CA8A04"}
	Default    = Icon{Key: "building", Kind: KindGlyph, Value: "🏢", Color: "#6B7280"}
)

type rule struct {
	patterns []string
	icon     Icon
}

// Order matters: the first rule with a matching fragment wins.
var rules = []rule{
	{patterns: []string{"railway", "rail", "rrb", "metro"}, icon: Railway},
	{patterns: []string{"bank", "rbi", "sbi", "ibps", "nabard"}, icon: Bank},
	{patterns: []string{"army", "navy", "air force", "defence", "defense", "drdo", "coast guard"}, icon: Defence},
	{patterns: []string{"police", "crpf", "bsf", "cisf", "itbp", "ssb"}, icon: Police},
	{patterns: []string{"post", "postal"}, icon: Post},
	{patterns: []string{"upsc", "public service commission", "psc"}, icon: Commission},
	{patterns: []string{"staff selection", "ssc"}, icon: Selection},
	{patterns: []string{"health", "aiims", "hospital", "medical", "nursing"}, icon: Health},
	{patterns: []string{"university", "school", "education", "ncert", "ugc", "teacher"}, icon: Education},
	{patterns: []string{"power", "energy", "electricity", "ntpc", "ongc", "coal"}, icon: Energy},
}

// Classify returns the icon of the first rule whose fragment occurs in
// department, ignoring case. Unknown or empty departments get Default.
func Classify(department string) Icon {
	d := strings.ToLower(strings.TrimSpace(department))
	if d == "" {
		return Default
	}
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(d, p) {
				return r.icon
			}
		}
	}
	return Default
}
