package core

import "techtoday.app/daily-digest/internal/utils"

// Tab identifies a detail panel tab.
type Tab string

const (
	TabFeatures Tab = "features"
	TabSocial   Tab = "social"
)

// DetailPanel is the content of one detail tab, ready to render.
// Unavailable is set instead of returning a blank panel when the
// product carries no data for the requested tab.
type DetailPanel struct {
	Tab          Tab           `json:"tab"`
	Unavailable  bool          `json:"unavailable"`
	Features     []Feature     `json:"features,omitempty"`
	UseCases     []string      `json:"useCases,omitempty"`
	Comments     []Comment     `json:"comments,omitempty"`
	Testimonials []Testimonial `json:"testimonials,omitempty"`
}

// DetailState is the transient view state of one open detail panel.
// It is not part of the product; a reopened panel starts over on the
// features tab.
type DetailState struct {
	ActiveTab Tab
}

func NewDetailState() *DetailState {
	return &DetailState{ActiveTab: TabFeatures}
}

func (s *DetailState) Switch(tab Tab) {
	if tab == TabFeatures || tab == TabSocial {
		s.ActiveTab = tab
	}
}

// PresentDetail selects what the detail panel shows for a product and
// tab. The social tab prefers raw comments, sanitized for display,
// over the derived testimonials.
func PresentDetail(p DisplayProduct, tab Tab) DetailPanel {
	switch tab {
	case TabSocial:
		return presentSocial(p)
	default:
		return presentFeatures(p)
	}
}

func presentFeatures(p DisplayProduct) DetailPanel {
	panel := DetailPanel{Tab: TabFeatures}
	if len(p.Features) == 0 && len(p.UseCases) == 0 {
		panel.Unavailable = true
		return panel
	}
	panel.Features = p.Features
	panel.UseCases = p.UseCases
	return panel
}

func presentSocial(p DisplayProduct) DetailPanel {
	panel := DetailPanel{Tab: TabSocial}
	if len(p.Comments) > 0 {
		sanitized := make([]Comment, 0, len(p.Comments))
		for _, c := range p.Comments {
			sanitized = append(sanitized, Comment{ID: c.ID, Body: utils.SanitizeHTML(c.Body)})
		}
		panel.Comments = sanitized
		return panel
	}
	if len(p.Testimonials) > 0 {
		panel.Testimonials = p.Testimonials
		return panel
	}
	panel.Unavailable = true
	return panel
}
