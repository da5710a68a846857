package provider

// mapCategory resolves a provider taxonomy key against a fixed lookup
// table, falling back to DefaultCategory on a miss. An empty key yields
// an empty result so callers can continue their cascade.
func mapCategory(table map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if category, ok := table[key]; ok {
		return category
	}
	return DefaultCategory
}

// categoryVocabulary is the known category vocabulary used when scanning
// free-form tags and keywords.
var categoryVocabulary = map[string]bool{
	"Technology":  true,
	"Sports":      true,
	"Business":    true,
	"Politics":    true,
	"World":       true,
	"Science":     true,
	"Environment": true,
	"Culture":     true,
	"Lifestyle":   true,
	"Health":      true,
	"Education":   true,
	"Finance":     true,
	"Media":       true,
	"Food":        true,
	"Travel":      true,
	"Fashion":     true,
	"Opinion":     true,
	"US News":     true,
	"Local News":  true,
}

func isCategoryTerm(name string) bool {
	return categoryVocabulary[name]
}
