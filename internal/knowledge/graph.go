// Package knowledge holds the culinary knowledge graph: dishes of the
// Lebanese and Mediterranean repertoire with their categories, key
// ingredients, and spelling variations. The graph backs slot extraction and
// link-query planning.
package knowledge

import (
	"sort"
	"strings"

	"sahtein/internal/normalize"
)

// Category groups dishes by where they sit in a meal.
type Category string

const (
	CategoryMezzeCold  Category = "mezze_cold"
	CategoryMezzeHot   Category = "mezze_hot"
	CategoryMainCourse Category = "main_course"
	CategorySalad      Category = "salad"
	CategorySoup       Category = "soup"
	CategoryDessert    Category = "dessert"
	CategoryDrink      Category = "drink"
	CategoryBread      Category = "bread"
)

// Dish describes one dish in the graph.
type Dish struct {
	Name           string
	Normalized     string
	Category       Category
	KeyIngredients []string
	Variations     []string
	Occasions      []string
	IsLebanese     bool
}

// Graph is a read-only lookup structure over the dish repertoire. Build it
// explicitly with NewGraph at startup; there is no implicit package-level
// instance.
type Graph struct {
	dishes map[string]*Dish
	// keys in repertoire order, so partial-match lookups resolve the same
	// dish on every run.
	keys []string
}

// NewGraph builds the graph from the fixed repertoire table.
func NewGraph() *Graph {
	g := &Graph{dishes: make(map[string]*Dish)}

	// Cold mezzes
	g.add("hummus", CategoryMezzeCold, []string{"pois chiches", "tahini", "citron"}, []string{"houmous", "hommos"}, nil, true)
	g.add("moutabbal", CategoryMezzeCold, []string{"aubergine", "tahini", "citron"}, []string{"mutabbal", "baba ganoush"}, nil, true)
	g.add("labneh", CategoryMezzeCold, []string{"yaourt", "ail"}, []string{"labne"}, nil, true)
	g.add("tabbouleh", CategoryMezzeCold, []string{"persil", "boulgour", "tomate"}, []string{"taboulé", "taboule"}, nil, true)
	g.add("fattoush", CategoryMezzeCold, []string{"salade", "pain", "sumac"}, nil, []string{"déjeuner"}, true)
	g.add("warak enab", CategoryMezzeCold, []string{"feuilles de vigne", "riz"}, []string{"feuilles de vigne farcies"}, nil, true)

	// Hot mezzes
	g.add("kebbeh", CategoryMezzeHot, []string{"viande", "boulgour"}, []string{"kibbeh", "kibbe"}, nil, true)
	g.add("sambousek", CategoryMezzeHot, []string{"pâte", "viande", "fromage"}, []string{"samosa libanais"}, nil, true)
	g.add("falafel", CategoryMezzeHot, []string{"pois chiches", "fèves", "épices"}, nil, nil, true)
	g.add("fatayer", CategoryMezzeHot, []string{"pâte", "épinards", "viande"}, nil, nil, true)
	g.add("makanek", CategoryMezzeHot, []string{"saucisse", "citron", "grenade"}, nil, nil, true)

	// Main courses
	g.add("kafta", CategoryMainCourse, []string{"viande hachée", "persil", "oignon"}, []string{"kofta", "kefta"}, nil, true)
	g.add("shawarma", CategoryMainCourse, []string{"viande", "épices"}, []string{"chawarma"}, nil, true)
	g.add("moghrabieh", CategoryMainCourse, []string{"perles", "poulet", "pois chiches"}, []string{"maftoul"}, nil, true)
	g.add("sayadieh", CategoryMainCourse, []string{"poisson", "riz", "oignon caramélisé"}, nil, nil, true)
	g.add("tajine", CategoryMainCourse, []string{"viande", "légumes"}, nil, nil, false)

	// Desserts
	g.add("baklava", CategoryDessert, []string{"pâte filo", "noix", "sirop"}, nil, nil, true)
	g.add("kunefe", CategoryDessert, []string{"kadaif", "fromage", "sirop"}, []string{"knafeh", "kenefeh"}, nil, true)
	g.add("halva", CategoryDessert, []string{"tahini", "sucre"}, []string{"halawa"}, nil, true)
	g.add("maamoul", CategoryDessert, []string{"semoule", "dattes", "noix"}, nil, nil, true)

	// Soups
	g.add("lentil soup", CategorySoup, []string{"lentilles", "citron"}, []string{"chorba adas"}, nil, true)

	return g
}

func (g *Graph) add(name string, category Category, keyIngredients, variations, occasions []string, isLebanese bool) {
	dish := &Dish{
		Name:           name,
		Normalized:     normalize.RecipeName(name),
		Category:       category,
		KeyIngredients: keyIngredients,
		Variations:     variations,
		Occasions:      occasions,
		IsLebanese:     isLebanese,
	}

	g.dishes[dish.Normalized] = dish
	g.keys = append(g.keys, dish.Normalized)
	for _, variation := range variations {
		key := normalize.RecipeName(variation)
		if _, exists := g.dishes[key]; !exists {
			g.dishes[key] = dish
			g.keys = append(g.keys, key)
		}
	}
}

// FindDish looks up a dish by name or variation. Falls back to partial
// matching so "recette de hummus maison" still resolves.
func (g *Graph) FindDish(query string) *Dish {
	normalized := normalize.RecipeName(query)
	if normalized == "" {
		return nil
	}

	if dish, ok := g.dishes[normalized]; ok {
		return dish
	}

	for _, key := range g.keys {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return g.dishes[key]
		}
	}

	return nil
}

// IsLebaneseDish reports whether the named dish belongs to the Lebanese
// repertoire.
func (g *Graph) IsLebaneseDish(name string) bool {
	dish := g.FindDish(name)
	return dish != nil && dish.IsLebanese
}

// DishCategory returns the category of a dish, or "" when unknown.
func (g *Graph) DishCategory(name string) Category {
	if dish := g.FindDish(name); dish != nil {
		return dish.Category
	}
	return ""
}

// KeyIngredients returns the key ingredients of a dish, or nil when unknown.
func (g *Graph) KeyIngredients(name string) []string {
	if dish := g.FindDish(name); dish != nil {
		return dish.KeyIngredients
	}
	return nil
}

// DishesByCategory returns the names of all dishes in a category.
func (g *Graph) DishesByCategory(category Category) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, dish := range g.dishes {
		if dish.Category != category {
			continue
		}
		if _, ok := seen[dish.Name]; ok {
			continue
		}
		seen[dish.Name] = struct{}{}
		names = append(names, dish.Name)
	}
	sort.Strings(names)
	return names
}

// DishesByIngredient returns dishes whose key ingredients contain the given
// term after normalization.
func (g *Graph) DishesByIngredient(ingredient string) []string {
	normalized := normalize.Text(ingredient)
	if normalized == "" {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})
	for _, dish := range g.dishes {
		if _, ok := seen[dish.Name]; ok {
			continue
		}
		for _, key := range dish.KeyIngredients {
			if strings.Contains(normalize.Text(key), normalized) {
				seen[dish.Name] = struct{}{}
				names = append(names, dish.Name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct dishes (variations excluded).
func (g *Graph) Len() int {
	seen := make(map[string]struct{})
	for _, dish := range g.dishes {
		seen[dish.Name] = struct{}{}
	}
	return len(seen)
}
