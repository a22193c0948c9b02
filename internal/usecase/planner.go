package usecase

import (
	"strings"

	"sahtein/internal/domain"
	"sahtein/internal/knowledge"
	"sahtein/internal/normalize"
)

// Planner turns a classification into a structured retrieval plan: what kind
// of answer is needed, which terms to search with, and what to resolve a
// link against.
type Planner struct {
	graph *knowledge.Graph
}

// NewPlanner wires a planner over the culinary graph.
func NewPlanner(graph *knowledge.Graph) *Planner {
	return &Planner{graph: graph}
}

// Plan derives the query plan for one classified query.
func (p *Planner) Plan(classification domain.ClassificationResult, originalQuery string) domain.QueryPlan {
	slots := classification.Slots
	needType := determineNeedType(classification.Intent, slots)

	primaryDish := ""
	if len(slots.Dishes) > 0 {
		primaryDish = slots.Dishes[0]
	}

	constraints := make([]string, 0, len(slots.Methods)+len(slots.Occasions))
	constraints = append(constraints, slots.Methods...)
	constraints = append(constraints, slots.Occasions...)

	return domain.QueryPlan{
		NeedType:       needType,
		PrimaryDish:    primaryDish,
		Ingredients:    slots.Ingredients,
		Constraints:    constraints,
		Language:       classification.Language,
		RetrievalQuery: buildRetrievalQuery(originalQuery, slots),
		LinkQuery:      p.buildLinkQuery(needType, primaryDish, slots.Ingredients),
	}
}

func determineNeedType(intent domain.Intent, slots domain.Slots) domain.NeedType {
	switch intent {
	case domain.IntentGreeting, domain.IntentFarewell:
		return domain.NeedGreeting
	case domain.IntentAboutBot:
		return domain.NeedAboutBot
	case domain.IntentOffTopic, domain.IntentAntiInjection:
		return domain.NeedOffTopic
	}

	switch {
	case len(slots.Dishes) > 0:
		return domain.NeedRecipeByName
	case len(slots.Ingredients) > 0:
		return domain.NeedRecipeByIngredients
	default:
		return domain.NeedSuggestions
	}
}

// buildRetrievalQuery prefers extracted terms over the raw query; the raw
// query is only used when nothing was extracted.
func buildRetrievalQuery(originalQuery string, slots domain.Slots) string {
	var parts []string
	parts = append(parts, slots.Dishes...)
	parts = append(parts, slots.Ingredients...)
	parts = append(parts, slots.Methods...)
	parts = append(parts, slots.Occasions...)

	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return normalize.Text(originalQuery)
}

// buildLinkQuery picks the term to resolve an article against. Empty for
// intents that never carry a link target.
func (p *Planner) buildLinkQuery(needType domain.NeedType, primaryDish string, ingredients []string) string {
	switch needType {
	case domain.NeedGreeting, domain.NeedAboutBot, domain.NeedOffTopic:
		return ""
	case domain.NeedRecipeByName:
		if primaryDish != "" {
			return primaryDish
		}
	case domain.NeedRecipeByIngredients:
		if len(ingredients) > 0 {
			// A dish known to feature one of the ingredients makes a better
			// link target than the bare ingredient list.
			for _, ingredient := range ingredients {
				if dishes := p.graph.DishesByIngredient(ingredient); len(dishes) > 0 {
					return dishes[0]
				}
			}
			return strings.Join(ingredients, " ")
		}
	case domain.NeedSuggestions:
		return "recettes libanaises"
	}
	return "recettes"
}
