package view

// Translation keys. The view performs no text composition of its own beyond
// interpolating counts into these host-supplied strings.
const (
	KeyMapUnavailable = "map_unavailable"
	KeyMarkersListed  = "markers_listed"
	KeyFindNearMe     = "find_near_me"
	KeyAllCategories  = "all_categories"
	KeyReviews        = "reviews"
	KeyPremiumBadge   = "premium_badge"
	KeyViewDetails    = "view_details"
)

// Translations carries every user-visible string. Hosts override per locale;
// missing keys fall back to the English defaults.
type Translations map[string]string

var defaultTranslations = Translations{
	KeyMapUnavailable: "The map cannot be shown right now. %d places are listed below.",
	KeyMarkersListed:  "%d places shown",
	KeyFindNearMe:     "Find near me",
	KeyAllCategories:  "All categories",
	KeyReviews:        "reviews",
	KeyPremiumBadge:   "Premium",
	KeyViewDetails:    "View details",
}

// DefaultTranslations returns a copy of the English defaults.
func DefaultTranslations() Translations {
	out := make(Translations, len(defaultTranslations))
	for k, v := range defaultTranslations {
		out[k] = v
	}
	return out
}

// Get resolves a key, falling back to the default string.
func (t Translations) Get(key string) string {
	if t != nil {
		if v, ok := t[key]; ok && v != "" {
			return v
		}
	}
	return defaultTranslations[key]
}
