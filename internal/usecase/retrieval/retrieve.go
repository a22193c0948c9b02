// Package retrieval turns a query plan into a ranked candidate list: corpus
// search routed by need type, followed by heuristic reranking.
package retrieval

import (
	"log/slog"
	"sort"

	"sahtein/internal/domain"
	"sahtein/internal/index"
	"sahtein/internal/normalize"
)

// Retriever routes a query plan to the corpus search strategy its need type
// calls for. Conversational need types retrieve nothing.
type Retriever struct {
	index  *index.ContentIndex
	topK   int
	logger *slog.Logger
}

// NewRetriever wires a retriever over the content index. topK bounds the
// result size. Retrieval applies no similarity cutoff; weak candidates are
// left for the reranker and the scenario thresholds downstream.
func NewRetriever(ix *index.ContentIndex, topK int, logger *slog.Logger) *Retriever {
	return &Retriever{
		index:  ix,
		topK:   topK,
		logger: logger,
	}
}

// Retrieve returns up to topK scored candidates for the plan, best first.
func (r *Retriever) Retrieve(plan domain.QueryPlan) []domain.RetrievalCandidate {
	var candidates []domain.RetrievalCandidate

	switch plan.NeedType {
	case domain.NeedGreeting, domain.NeedAboutBot, domain.NeedOffTopic:
		return nil
	case domain.NeedRecipeByIngredients:
		candidates = r.byIngredients(plan)
	case domain.NeedRecipeByName:
		candidates = r.byName(plan)
	default:
		candidates = r.index.Search(plan.RetrievalQuery, r.topK)
	}

	r.logger.Debug("retrieval_completed",
		slog.String("need_type", string(plan.NeedType)),
		slog.Int("candidates", len(candidates)),
	)
	return candidates
}

// byIngredients favors the structured corpus: the specialized ingredient
// search gets a 1.2 boost, while a smaller editorial search rides along at
// 0.8 for storytelling context.
func (r *Retriever) byIngredients(plan domain.QueryPlan) []domain.RetrievalCandidate {
	var candidates []domain.RetrievalCandidate

	if len(plan.Ingredients) > 0 {
		for _, c := range r.index.SearchByIngredients(plan.Ingredients, r.topK) {
			c.Score *= 1.2
			candidates = append(candidates, c)
		}
	}

	articleK := r.topK / 2
	if articleK < 3 {
		articleK = 3
	}
	for _, c := range r.index.SearchSource(plan.RetrievalQuery, articleK, domain.SourceArticles) {
		c.Score *= 0.8
		candidates = append(candidates, c)
	}

	sortByScore(candidates)
	return cut(candidates, r.topK)
}

// byName searches both corpora wide, boosting documents that mention the
// primary dish by 1.3.
func (r *Retriever) byName(plan domain.QueryPlan) []domain.RetrievalCandidate {
	candidates := r.index.Search(plan.RetrievalQuery, r.topK*2)

	if plan.PrimaryDish != "" {
		dish := normalize.RecipeName(plan.PrimaryDish)
		for i := range candidates {
			if containsNormalized(candidates[i].Content, dish) {
				candidates[i].Score *= 1.3
			}
		}
	}

	sortByScore(candidates)
	return cut(candidates, r.topK)
}

// FilterByConstraints reorders candidates by constraint satisfaction.
// Matching candidates get a 1.1 boost, the rest are demoted to 0.9 but kept;
// constraints are soft preferences, not filters.
func (r *Retriever) FilterByConstraints(candidates []domain.RetrievalCandidate, constraints []string) []domain.RetrievalCandidate {
	if len(constraints) == 0 {
		return candidates
	}

	for i := range candidates {
		haystack := candidates[i].Content + " " + candidates[i].Meta.SearchText()
		satisfied := false
		for _, constraint := range constraints {
			if containsNormalized(haystack, normalize.Text(constraint)) {
				satisfied = true
				break
			}
		}
		if satisfied {
			candidates[i].Score *= 1.1
		} else {
			candidates[i].Score *= 0.9
		}
	}

	sortByScore(candidates)
	return candidates
}

func sortByScore(candidates []domain.RetrievalCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Key() < candidates[j].Key()
	})
}

func cut(candidates []domain.RetrievalCandidate, topK int) []domain.RetrievalCandidate {
	if len(candidates) > topK {
		return candidates[:topK]
	}
	return candidates
}
