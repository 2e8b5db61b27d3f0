package site

// Theme names accepted by the generator.
const (
	ThemeEducational = "educational"
	ThemeResume      = "resume"
	ThemeResearch    = "research"
	ThemePortfolio   = "portfolio"
)

// Theme carries the presentation settings of one site style.
type Theme struct {
	Name            string
	Heading         string
	AccentColor     string
	BackgroundColor string
	TextColor       string
	CardColor       string
	// CategoryOrder pins well-known categories to the top of the page;
	// unlisted categories follow alphabetically.
	CategoryOrder []string
}

var themes = map[string]Theme{
	ThemeEducational: {
		Name:            ThemeEducational,
		Heading:         "Learning Resources",
		AccentColor:     "#2563eb",
		BackgroundColor: "#f8fafc",
		TextColor:       "#1e293b",
		CardColor:       "#ffffff",
		CategoryOrder:   []string{"Learning Resources", "Documentation", "Templates"},
	},
	ThemeResume: {
		Name:            ThemeResume,
		Heading:         "Selected Work",
		AccentColor:     "#0f766e",
		BackgroundColor: "#fafaf9",
		TextColor:       "#1c1917",
		CardColor:       "#ffffff",
		CategoryOrder:   []string{"Web Applications", "CLI Tools", "Libraries"},
	},
	ThemeResearch: {
		Name:            ThemeResearch,
		Heading:         "Research Software",
		AccentColor:     "#7c3aed",
		BackgroundColor: "#faf5ff",
		TextColor:       "#2e1065",
		CardColor:       "#ffffff",
		CategoryOrder:   []string{"Libraries", "APIs", "Documentation"},
	},
	ThemePortfolio: {
		Name:            ThemePortfolio,
		Heading:         "Projects",
		AccentColor:     "#ea580c",
		BackgroundColor: "#fffbeb",
		TextColor:       "#1c1917",
		CardColor:       "#ffffff",
		CategoryOrder:   []string{"Web Applications", "CLI Tools", "Libraries", "APIs"},
	},
}

// ThemeByName resolves a theme, defaulting to portfolio for unknown names.
func ThemeByName(name string) Theme {
	if theme, known := themes[name]; known {
		return theme
	}
	return themes[ThemePortfolio]
}

// ThemeNames lists the available theme names in a fixed order.
func ThemeNames() []string {
	return []string{ThemeEducational, ThemeResume, ThemeResearch, ThemePortfolio}
}
