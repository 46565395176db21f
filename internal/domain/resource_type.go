package domain

import "strings"

// ResourceType - нормализованная категория ресурса
type ResourceType string

const (
	ResourceTypeShelter      ResourceType = "shelter"
	ResourceTypeFoodBank     ResourceType = "food_bank"
	ResourceTypeShower       ResourceType = "shower"
	ResourceTypeLibrary      ResourceType = "library"
	ResourceTypeHealth       ResourceType = "health"
	ResourceTypeMentalHealth ResourceType = "mental_health"
	ResourceTypeJobCenter    ResourceType = "job_center"
	ResourceTypeOther        ResourceType = "other"
)

// AllResourceTypes lists the canonical types in lookup order. Provider type
// matching walks this order, so earlier entries win on shared provider tags.
var AllResourceTypes = []ResourceType{
	ResourceTypeShelter,
	ResourceTypeFoodBank,
	ResourceTypeShower,
	ResourceTypeLibrary,
	ResourceTypeHealth,
	ResourceTypeMentalHealth,
	ResourceTypeJobCenter,
	ResourceTypeOther,
}

var resourceTypeDisplayNames = map[ResourceType]string{
	ResourceTypeShelter:      "Emergency Shelter",
	ResourceTypeFoodBank:     "Food Bank",
	ResourceTypeShower:       "Public Shower",
	ResourceTypeLibrary:      "Public Library",
	ResourceTypeHealth:       "Health Services",
	ResourceTypeMentalHealth: "Mental Health Services",
	ResourceTypeJobCenter:    "Job Center",
	ResourceTypeOther:        "Other",
}

// Place-search provider tags per type.
var resourceTypePlacesTypes = map[ResourceType][]string{
	ResourceTypeShelter:      {"lodging", "local_government_office"},
	ResourceTypeFoodBank:     {"food_bank", "meal_takeaway", "food"},
	ResourceTypeShower:       {"gym", "local_government_office"},
	ResourceTypeLibrary:      {"library", "book_store"},
	ResourceTypeHealth:       {"hospital", "doctor", "pharmacy"},
	ResourceTypeMentalHealth: {"doctor", "health"},
	ResourceTypeJobCenter:    {"local_government_office", "employment_agency"},
	ResourceTypeOther:        {"point_of_interest"},
}

// NormalizeResourceType maps free-form input onto the canonical set.
// Accepts raw values in any case ("Food_Bank"), spaced or hyphenated forms
// ("food bank", "job-center") and display names ("Emergency Shelter").
// Anything else resolves to ResourceTypeOther.
func NormalizeResourceType(s string) ResourceType {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return ResourceTypeOther
	}

	if t := ResourceType(key); t.IsKnown() {
		return t
	}

	snake := strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if t := ResourceType(snake); t.IsKnown() {
		return t
	}

	for t, name := range resourceTypeDisplayNames {
		if strings.ToLower(name) == key {
			return t
		}
	}

	return ResourceTypeOther
}

// IsKnown reports whether t is one of the canonical types.
func (t ResourceType) IsKnown() bool {
	_, ok := resourceTypeDisplayNames[t]
	return ok
}

// Normalize is NormalizeResourceType for an already typed value.
func (t ResourceType) Normalize() ResourceType {
	return NormalizeResourceType(string(t))
}

// DisplayName returns the human readable label.
func (t ResourceType) DisplayName() string {
	return resourceTypeDisplayNames[t.Normalize()]
}

// PlacesTypes returns the provider tags used to search for this type.
func (t ResourceType) PlacesTypes() []string {
	tags := resourceTypePlacesTypes[t.Normalize()]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// ResourceTypeFromPlacesType resolves a single provider tag.
func ResourceTypeFromPlacesType(tag string) ResourceType {
	t, _ := lookupPlacesType(tag)
	return t
}

// ResourceTypeFromPlacesTypes resolves the first provider tag that maps to a
// known type, falling back to ResourceTypeOther. The generic
// "point_of_interest" tag only counts if nothing more specific matched.
func ResourceTypeFromPlacesTypes(tags []string) ResourceType {
	for _, tag := range tags {
		if t, ok := lookupPlacesType(tag); ok && t != ResourceTypeOther {
			return t
		}
	}
	return ResourceTypeOther
}

func lookupPlacesType(tag string) (ResourceType, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range AllResourceTypes {
		for _, candidate := range resourceTypePlacesTypes[t] {
			if candidate == tag {
				return t, true
			}
		}
	}
	return ResourceTypeOther, false
}

// PlacesTypesFor flattens and dedupes provider tags for a set of types.
// An empty input means every type.
func PlacesTypesFor(types []ResourceType) []string {
	if len(types) == 0 {
		types = AllResourceTypes
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, t := range types {
		for _, tag := range resourceTypePlacesTypes[t.Normalize()] {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResourceCategory groups types for filtering UIs.
type ResourceCategory struct {
	Title string         `json:"title"`
	Icon  string         `json:"icon"`
	Color string         `json:"color"`
	Types []ResourceType `json:"types"`
}

var resourceCategories = []ResourceCategory{
	{Title: "Emergency Shelter", Icon: "house.fill", Color: "purple", Types: []ResourceType{ResourceTypeShelter}},
	{Title: "Food & Meals", Icon: "fork.knife", Color: "orange", Types: []ResourceType{ResourceTypeFoodBank}},
	{Title: "Health Services", Icon: "cross.case.fill", Color: "red", Types: []ResourceType{ResourceTypeHealth, ResourceTypeMentalHealth}},
	{Title: "Hygiene", Icon: "drop.fill", Color: "blue", Types: []ResourceType{ResourceTypeShower}},
	{Title: "Community Resources", Icon: "building.2.fill", Color: "brown", Types: []ResourceType{ResourceTypeLibrary, ResourceTypeJobCenter}},
}

// Categories returns a copy of the predefined category groupings.
func Categories() []ResourceCategory {
	out := make([]ResourceCategory, len(resourceCategories))
	for i, c := range resourceCategories {
		out[i] = c
		out[i].Types = append([]ResourceType(nil), c.Types...)
	}
	return out
}

// CategoryFor returns the grouping a type belongs to. ResourceTypeOther
// belongs to none.
func CategoryFor(t ResourceType) (ResourceCategory, bool) {
	t = t.Normalize()
	for _, c := range Categories() {
		for _, member := range c.Types {
			if member == t {
				return c, true
			}
		}
	}
	return ResourceCategory{}, false
}
