package models

import (
	"fmt"
	"sort"
	"strings"
)

// InsertPosition decides where newly created items go
type InsertPosition uint8

const (
	InsertAppend InsertPosition = iota
	InsertPrepend
)

// IDStrategy decides how fresh item IDs are produced
type IDStrategy uint8

const (
	IDCounter IDStrategy = iota
	IDTimestamp
)

// FilterMode decides what the filter value is matched against
type FilterMode uint8

const (
	FilterNone FilterMode = iota
	FilterCategory
	FilterTag
)

// ThemeKey is the storage key shared by all profiles for the theme flag
const ThemeKey = "echohive_theme_v1"

// Profile bundles the per-screen choices: storage key, insertion side,
// ID policy, required fields, filter kind and page size.
type Profile struct {
	Name          string
	Title         string
	StorageKey    string
	ThemeKey      string
	Insert        InsertPosition
	IDs           IDStrategy
	Required      []Field
	Body          Field
	Filter        FilterMode
	SearchBody    bool
	PageSize      int
	ConfirmDelete bool
	seed          []ContentItem
}

// Seed returns a deep copy of the built-in seed collection
func (p Profile) Seed() []ContentItem {
	out := make([]ContentItem, len(p.seed))
	for i, it := range p.seed {
		out[i] = it.Clone()
	}
	return out
}

// Missing returns the required fields that are empty or whitespace-only
func (p Profile) Missing(f Fields) []Field {
	var missing []Field
	for _, name := range p.Required {
		if strings.TrimSpace(f.Value(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

var profiles = map[string]Profile{
	"destinations": {
		Name:       "destinations",
		Title:      "Travel Echo Hive",
		StorageKey: "echohive_destinations_v1",
		ThemeKey:   ThemeKey,
		Insert:     InsertAppend,
		IDs:        IDCounter,
		Required:   []Field{FieldTitle, FieldDescription, FieldImage},
		Body:       FieldDescription,
		Filter:     FilterCategory,
		PageSize:   6,
		seed: []ContentItem{
			{
				ID:          1,
				Title:       "Exploring the Swiss Alps",
				Description: "A journey through snowy peaks and cozy villages.",
				Category:    CategoryMountains,
				Image:       "https://source.unsplash.com/800x400/?switzerland,alps",
			},
			{
				ID:          2,
				Title:       "Street Markets of Marrakech",
				Description: "Colors, spices, and vibrant culture at every corner.",
				Category:    CategoryCities,
				Image:       "https://source.unsplash.com/800x400/?marrakech,market",
			},
			{
				ID:          3,
				Title:       "Tropical Paradise in Bali",
				Description: "Beaches, temples, and unforgettable sunsets.",
				Category:    CategoryBeaches,
				Image:       "https://source.unsplash.com/800x400/?bali,beach",
			},
			{
				ID:          4,
				Title:       "Majestic Rocky Mountains",
				Description: "Hiking trails, scenic views, and pure nature.",
				Category:    CategoryMountains,
				Image:       "https://source.unsplash.com/800x400/?rocky,mountains",
			},
		},
	},
	"food": {
		Name:          "food",
		Title:         "EchoHive - Food Blogs",
		StorageKey:    "echohive_foodblogs_v1",
		ThemeKey:      ThemeKey,
		Insert:        InsertPrepend,
		IDs:           IDCounter,
		Required:      []Field{FieldTitle, FieldDescription, FieldImage},
		Body:          FieldDescription,
		Filter:        FilterTag,
		PageSize:      4,
		ConfirmDelete: true,
		seed: []ContentItem{
			{
				ID:          1,
				Title:       "Street Foods Around the World",
				Author:      "Mia",
				Date:        "2025-08-10",
				Shares:      520,
				Likes:       33,
				Description: "From Bangkok to Mexico City, explore delicious street bites!",
				Image:       "https://images.unsplash.com/photo-1543352634-38c7d6b6d3c6?auto=format&fit=crop&w=1200&q=80",
				Tags:        []string{"street", "international"},
			},
			{
				ID:          2,
				Title:       "Top 5 Italian Pasta Dishes",
				Author:      "Luca",
				Date:        "2025-09-05",
				Shares:      370,
				Likes:       22,
				Description: "A deep dive into authentic Italian flavors and textures.",
				Image:       "https://images.unsplash.com/photo-1521389508051-d7ffb5dc8bb1?auto=format&fit=crop&w=1200&q=80",
				Tags:        []string{"pasta", "italy"},
			},
			{
				ID:          3,
				Title:       "Healthy Smoothie Bowls",
				Author:      "Ava",
				Date:        "2025-07-25",
				Shares:      245,
				Likes:       15,
				Description: "Vibrant smoothie bowls packed with nutrition and flavor.",
				Image:       "https://images.unsplash.com/photo-1565958011705-44a2bd53f13b?auto=format&fit=crop&w=1200&q=80",
				Tags:        []string{"healthy", "breakfast"},
			},
			{
				ID:          4,
				Title:       "The Art of Sushi Making",
				Author:      "Hiro",
				Date:        "2025-06-15",
				Shares:      460,
				Likes:       42,
				Description: "A look into traditional sushi techniques and presentation.",
				Image:       "https://images.unsplash.com/photo-1589308078059-be1415eab4c3?auto=format&fit=crop&w=1200&q=80",
				Tags:        []string{"sushi", "japan"},
			},
		},
	},
	"journal": {
		Name:       "journal",
		Title:      "Wellbeing Journal",
		StorageKey: "echohive_journal_v1",
		ThemeKey:   ThemeKey,
		Insert:     InsertAppend,
		IDs:        IDTimestamp,
		Required:   []Field{FieldTitle, FieldContent},
		Body:       FieldContent,
		Filter:     FilterNone,
		SearchBody: true,
		PageSize:   5,
	},
}

// DefaultProfile is used when no profile is configured
const DefaultProfile = "destinations"

// ProfileByName returns the named profile
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (valid: %s)", name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames lists the known profile names, sorted
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
