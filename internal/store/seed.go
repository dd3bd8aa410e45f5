package store

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lunawell/luna/internal/models"
)

// DefaultResources returns the built-in support resource catalog.
func DefaultResources() []models.Resource {
	return []models.Resource{
		{
			Title:       "Teen Mental Health Guide",
			Description: "Understanding anxiety, depression, and stress management techniques specifically for teenagers.",
			Category:    models.CategoryMentalHealth,
			Content:     "A comprehensive guide covering common mental health challenges faced by teenagers, including practical coping strategies, when to seek help, and how to build resilience.",
			Icon:        "brain",
		},
		{
			Title:       "Mindfulness & Meditation",
			Description: "Simple breathing exercises and mindfulness practices to help manage stress and anxiety.",
			Category:    models.CategoryMentalHealth,
			Content:     "Learn evidence-based mindfulness techniques including 4-7-8 breathing, body scan meditation, and grounding exercises that can be done anywhere.",
			Icon:        "heart",
		},
		{
			Title:       "Menstrual Health 101",
			Description: "Everything you need to know about periods, cycles, and managing menstrual health.",
			Category:    models.CategoryBodyHealth,
			Content:     "Complete information about menstrual cycles, period products, managing symptoms, and when to consult a healthcare provider.",
			Icon:        "calendar",
		},
		{
			Title:       "Body Positivity & Self-Image",
			Description: "Building confidence and developing a healthy relationship with your changing body.",
			Category:    models.CategoryBodyHealth,
			Content:     "Tips for developing a positive body image, dealing with body changes during puberty, and building self-confidence.",
			Icon:        "user",
		},
		{
			Title:       "National Suicide Prevention Lifeline",
			Description: "24/7 crisis support hotline",
			Category:    models.CategoryCrisis,
			Content:     "Call 988 for immediate crisis support. Available 24/7 with trained counselors.",
			URL:         "tel:988",
			Icon:        "phone",
		},
		{
			Title:       "Crisis Text Line",
			Description: "Text-based crisis support",
			Category:    models.CategoryCrisis,
			Content:     "Text HOME to 741741 for free, 24/7 crisis support via text message.",
			URL:         "sms:741741",
			Icon:        "message-circle",
		},
		{
			Title:       "Headspace",
			Description: "Meditation & mindfulness app",
			Category:    models.CategoryApps,
			Content:     "Popular meditation app with guided sessions for anxiety, sleep, and focus.",
			URL:         "https://headspace.com",
			Icon:        "smartphone",
		},
		{
			Title:       "Clue",
			Description: "Period & cycle tracking app",
			Category:    models.CategoryApps,
			Content:     "Science-based period tracker that helps you understand your menstrual cycle.",
			URL:         "https://helloclue.com",
			Icon:        "calendar",
		},
	}
}

// LoadResourcesFile reads a YAML resource catalog from disk.
func LoadResourcesFile(path string) ([]models.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}
	var resources []models.Resource
	if err := yaml.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("parse resources file: %w", err)
	}
	return resources, nil
}

// Seed populates the store's resource catalog exactly once, before the
// catalog serves its first request. When path is non-empty, the YAML
// file replaces the built-in catalog.
func Seed(ctx context.Context, s Store, path string) error {
	resources := DefaultResources()
	if path != "" {
		loaded, err := LoadResourcesFile(path)
		if err != nil {
			return err
		}
		resources = loaded
	}
	for _, r := range resources {
		if _, err := s.CreateResource(ctx, r); err != nil {
			return fmt.Errorf("seed resource %q: %w", r.Title, err)
		}
	}
	return nil
}
