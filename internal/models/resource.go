package models

// Resource categories.
const (
	CategoryMentalHealth = "mental-health"
	CategoryBodyHealth   = "body-health"
	CategoryCrisis       = "crisis"
	CategoryApps         = "apps"
)

// Resource is a curated support entry, seeded at process start and
// read-only under normal traffic.
type Resource struct {
	ID          string `json:"id" yaml:"-"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Content     string `json:"content" yaml:"content"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Icon        string `json:"icon" yaml:"icon"`
}
