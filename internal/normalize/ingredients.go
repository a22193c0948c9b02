package normalize

import (
	"sort"
	"strings"
)

// ingredientEquivalences lists groups of ingredient spellings treated as
// interchangeable for matching: French/English names, transliterations, and
// common variations.
var ingredientEquivalences = [][]string{
	{"pois chiches", "chickpeas", "garbanzo", "pois chiche"},
	{"tahini", "tahine", "tahin", "crème de sésame", "sesame paste"},
	{"citron", "lemon", "jus de citron", "lemon juice"},
	{"ail", "garlic", "gousse d'ail", "garlic clove"},
	{"aubergine", "eggplant"},
	{"yaourt", "yogurt", "yoghurt", "laban"},
	{"persil", "parsley"},
	{"boulgour", "bulgur", "bulghur"},
	{"tomate", "tomato", "tomates", "tomatoes"},
	{"oignon", "onion", "oignons", "onions"},
	{"huile d'olive", "olive oil", "huile olive"},
	{"viande", "meat", "viande hachée", "ground meat", "minced meat"},
	{"poulet", "chicken"},
	{"agneau", "lamb"},
	{"riz", "rice"},
	{"fèves", "fava beans", "broad beans", "feves"},
	{"haricots verts", "green beans"},
	{"haricots blancs", "white beans"},
	{"sumac", "sumaq"},
	{"grenade", "pomegranate", "mélasse de grenade", "pomegranate molasses"},
	{"menthe", "mint"},
	{"concombre", "cucumber"},
	{"courgette", "zucchini"},
	{"pomme de terre", "potato", "potatoes"},
	{"épinards", "spinach"},
	{"fromage", "cheese"},
	{"pain", "bread"},
	{"noix", "nuts", "walnuts"},
	{"pignons", "pine nuts", "pignons de pin"},
	{"pistache", "pistachio", "pistaches", "pistachios"},
	{"dattes", "dates", "datte", "date"},
	{"semoule", "semolina"},
	{"farine", "flour"},
	{"sucre", "sugar"},
	{"lait", "milk"},
	{"crème", "cream"},
	{"cardamome", "cardamom"},
	{"cannelle", "cinnamon"},
	{"poivron rouge", "red pepper", "red bell pepper"},
	{"piment", "chili", "hot pepper"},
	{"gombo", "okra", "bamia"},
	{"feuilles de vigne", "vine leaves", "grape leaves"},
	{"chou", "cabbage"},
	{"roquette", "arugula", "rocket"},
	{"pissenlit", "dandelion greens"},
	{"chou-fleur", "cauliflower"},
	{"poisson", "fish"},
	{"foie", "liver"},
	{"freekeh", "frikeh", "farik"},
	{"eau de rose", "rose water"},
	{"eau de fleur d'oranger", "orange blossom water"},
	{"sésame", "sesame"},
}

// IngredientExpander resolves ingredient terms to their equivalence groups.
// Built once at startup; read-only afterwards. Every member of a group maps
// to the same shared set, so the reverse mapping is total and symmetric.
type IngredientExpander struct {
	groups map[string]map[string]struct{}
	// keys in table order, so partial-match fallbacks resolve the same
	// group on every run.
	keys []string
}

// NewIngredientExpander builds the reverse map from the equivalence table.
func NewIngredientExpander() *IngredientExpander {
	e := &IngredientExpander{groups: make(map[string]map[string]struct{})}
	for _, group := range ingredientEquivalences {
		normalized := make(map[string]struct{}, len(group))
		for _, term := range group {
			normalized[Text(term)] = struct{}{}
		}
		for _, term := range group {
			key := Text(term)
			if _, exists := e.groups[key]; exists {
				continue
			}
			e.groups[key] = normalized
			e.keys = append(e.keys, key)
		}
	}
	return e
}

// Expand returns all equivalent forms of an ingredient, including the
// normalized input. Falls back to substring containment against known group
// keys, then to a singleton set of the normalized input.
func (e *IngredientExpander) Expand(ingredient string) map[string]struct{} {
	normalized := Text(ingredient)

	if group, ok := e.groups[normalized]; ok {
		return group
	}

	for _, key := range e.keys {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return e.groups[key]
		}
	}

	return map[string]struct{}{normalized: {}}
}

// ExpandList normalizes a list of ingredients to their canonical forms with
// all equivalents included, deduplicated.
func (e *IngredientExpander) ExpandList(ingredients []string) []string {
	seen := make(map[string]struct{})
	expanded := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		for term := range e.Expand(ingredient) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			expanded = append(expanded, term)
		}
	}
	sort.Strings(expanded)
	return expanded
}

// Match counts query ingredients that appear among the document ingredients
// after equivalence expansion on both sides. A query term matches when any
// expanded document term is a substring-or-superstring of one of its
// expanded forms; each query ingredient is counted at most once. The ratio
// is matches over the original query length (0 for an empty query).
func (e *IngredientExpander) Match(queryIngredients, docIngredients []string) (int, float64) {
	if len(queryIngredients) == 0 {
		return 0, 0
	}

	docExpanded := e.ExpandList(docIngredients)

	matches := 0
	for _, q := range queryIngredients {
		qExpanded := e.Expand(q)
		matched := false
		for qTerm := range qExpanded {
			for _, dTerm := range docExpanded {
				if strings.Contains(dTerm, qTerm) || strings.Contains(qTerm, dTerm) {
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched {
			matches++
		}
	}

	return matches, float64(matches) / float64(len(queryIngredients))
}
