package retrieval

import (
	"strings"

	"sahtein/internal/domain"
	"sahtein/internal/normalize"
)

// lebaneseIndicators mark documents as Lebanese or Mediterranean cuisine.
// Stored pre-normalized so containment checks line up with normalized text.
var lebaneseIndicators = []string{
	"liban", "libanais", "beyrouth", "mediterraneen",
	"mezze", "tahini", "zaatar", "sumac", "grenade",
	"arak", "laban", "kishk",
}

// Reranker refines retrieval candidates with multiplicative boosts on top of
// the base cosine score: cuisine relevance, ingredient overlap, primary dish
// match, constraint satisfaction, and a per-need source preference.
type Reranker struct {
	topK int
}

// NewReranker returns a reranker cutting to topK candidates.
func NewReranker(topK int) *Reranker {
	return &Reranker{topK: topK}
}

// Rerank rescores and reorders the candidates, returning the top slice.
// The input slice is not modified.
func (r *Reranker) Rerank(candidates []domain.RetrievalCandidate, plan domain.QueryPlan) []domain.RetrievalCandidate {
	if len(candidates) == 0 {
		return nil
	}

	reranked := make([]domain.RetrievalCandidate, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		reranked[i].Score = r.finalScore(reranked[i], plan)
	}

	sortByScore(reranked)
	return cut(reranked, r.topK)
}

func (r *Reranker) finalScore(c domain.RetrievalCandidate, plan domain.QueryPlan) float64 {
	score := c.Score

	if isLebaneseRelevant(c) {
		score *= 1.1
	}

	if plan.NeedType == domain.NeedRecipeByIngredients && len(plan.Ingredients) > 0 {
		score *= 1.0 + ingredientOverlap(c, plan.Ingredients)*0.2
	}

	if plan.PrimaryDish != "" && matchesPrimaryDish(c, plan.PrimaryDish) {
		score *= 1.3
	}

	if len(plan.Constraints) > 0 {
		score *= 1.0 + constraintSatisfaction(c, plan.Constraints)*0.15
	}

	switch plan.NeedType {
	case domain.NeedRecipeByIngredients:
		if c.Source == domain.SourceRecipes {
			score *= 1.15
		}
	case domain.NeedRecipeByName:
		if c.Source == domain.SourceArticles {
			score *= 1.05
		}
	}

	return score
}

func isLebaneseRelevant(c domain.RetrievalCandidate) bool {
	combined := normalize.Text(c.Content + " " + c.Meta.SearchText())
	for _, indicator := range lebaneseIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}

// ingredientOverlap returns the fraction of query ingredients present in
// the candidate's content or structured ingredient list.
func ingredientOverlap(c domain.RetrievalCandidate, ingredients []string) float64 {
	haystack := c.Content
	if c.Source == domain.SourceRecipes && len(c.Meta.Ingredients) > 0 {
		haystack += " " + strings.Join(c.Meta.Ingredients, " ")
	}
	normalized := normalize.Text(haystack)

	matches := 0
	for _, ingredient := range ingredients {
		if strings.Contains(normalized, normalize.Text(ingredient)) {
			matches++
		}
	}
	return float64(matches) / float64(len(ingredients))
}

func matchesPrimaryDish(c domain.RetrievalCandidate, primaryDish string) bool {
	dish := normalize.RecipeName(primaryDish)
	if containsNormalized(c.Content, dish) {
		return true
	}
	switch c.Source {
	case domain.SourceArticles:
		return containsNormalized(c.Meta.Title, dish)
	case domain.SourceRecipes:
		return containsNormalized(c.Meta.Name, dish)
	}
	return false
}

func constraintSatisfaction(c domain.RetrievalCandidate, constraints []string) float64 {
	combined := normalize.Text(c.Content + " " + c.Meta.SearchText())
	satisfied := 0
	for _, constraint := range constraints {
		if strings.Contains(combined, normalize.Text(constraint)) {
			satisfied++
		}
	}
	return float64(satisfied) / float64(len(constraints))
}

func containsNormalized(haystack, normalizedNeedle string) bool {
	if normalizedNeedle == "" {
		return false
	}
	return strings.Contains(normalize.RecipeName(haystack), normalizedNeedle)
}

// Deduplicate drops later candidates that share a key with an earlier one.
// The same dish can surface from both corpora; those are distinct keys and
// both survive.
func Deduplicate(candidates []domain.RetrievalCandidate) []domain.RetrievalCandidate {
	seen := make(map[string]struct{}, len(candidates))
	deduped := make([]domain.RetrievalCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, c)
	}
	return deduped
}

// Diversify caps how many candidates each corpus may contribute, preserving
// order.
func Diversify(candidates []domain.RetrievalCandidate, maxPerSource int) []domain.RetrievalCandidate {
	counts := make(map[domain.Source]int, 2)
	diversified := make([]domain.RetrievalCandidate, 0, len(candidates))
	for _, c := range candidates {
		if counts[c.Source] >= maxPerSource {
			continue
		}
		counts[c.Source]++
		diversified = append(diversified, c)
	}
	return diversified
}
