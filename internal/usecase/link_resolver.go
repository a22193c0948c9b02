package usecase

import (
	"log/slog"
	"strings"

	"sahtein/internal/domain"
	"sahtein/internal/index"
)

// Resolution strategies, from strongest to weakest.
const (
	StrategyExact              = "exact"
	StrategyFromRetrieval      = "from_retrieval"
	StrategyHighSimilarity     = "high_similarity"
	StrategyModerateSimilarity = "moderate_similarity"
	StrategyLowSimilarity      = "low_similarity"
	StrategyGreetingFallback   = "greeting_fallback"
	StrategyAboutFallback      = "about_fallback"
	StrategyOffTopicFallback   = "offtopic_fallback"
	StrategyNoMatchFallback    = "no_match_fallback"
)

const fallbackConfidence = 0.5

// LinkResolver turns a query plan into exactly one verifiable article link
// plus suggestions. Every URL it returns comes from the link index, never
// from generation.
type LinkResolver struct {
	linkIndex     *index.LinkIndex
	allowedDomain string
	minSimilarity float64
	logger        *slog.Logger
}

// NewLinkResolver wires a resolver. minSimilarity is the floor below which
// similarity hits are discarded in favor of fallback selection.
func NewLinkResolver(linkIndex *index.LinkIndex, allowedDomain string, minSimilarity float64, logger *slog.Logger) *LinkResolver {
	return &LinkResolver{
		linkIndex:     linkIndex,
		allowedDomain: allowedDomain,
		minSimilarity: minSimilarity,
		logger:        logger,
	}
}

// Resolve finds the primary article for a plan. Priority order: exact title
// match, article referenced by a retrieval candidate, similarity search,
// then a fallback pick so conversational answers can still showcase an
// article.
func (r *LinkResolver) Resolve(plan domain.QueryPlan, candidates []domain.RetrievalCandidate) domain.LinkResolutionResult {
	// Conversational plans carry no link target; they get a fallback pick.
	if plan.LinkQuery == "" {
		return r.fallback(plan.NeedType)
	}

	if article := r.linkIndex.FindExact(plan.LinkQuery); article != nil {
		return r.withSuggestions(domain.LinkResolutionResult{
			PrimaryArticle: article,
			Strategy:       StrategyExact,
			Confidence:     1.0,
		}, plan.LinkQuery)
	}

	if result, ok := r.fromRetrieval(candidates); ok {
		return r.withSuggestions(result, plan.LinkQuery)
	}

	if result, ok := r.bySimilarity(plan.LinkQuery); ok {
		return r.withSuggestions(result, plan.LinkQuery)
	}

	return r.fallback(plan.NeedType)
}

// fromRetrieval resolves directly when a candidate already references a
// known article.
func (r *LinkResolver) fromRetrieval(candidates []domain.RetrievalCandidate) (domain.LinkResolutionResult, bool) {
	for _, c := range candidates {
		if c.Source != domain.SourceArticles || c.ArticleID == "" {
			continue
		}
		article := r.linkIndex.FindByID(c.ArticleID)
		if article == nil {
			continue
		}
		return domain.LinkResolutionResult{
			PrimaryArticle: article,
			Strategy:       StrategyFromRetrieval,
			Confidence:     clampConfidence(c.Score),
		}, true
	}
	return domain.LinkResolutionResult{}, false
}

func (r *LinkResolver) bySimilarity(linkQuery string) (domain.LinkResolutionResult, bool) {
	article, score := r.linkIndex.FindBest(linkQuery)
	if article == nil || score < r.minSimilarity {
		return domain.LinkResolutionResult{}, false
	}

	strategy := StrategyLowSimilarity
	switch {
	case score > 0.7:
		strategy = StrategyHighSimilarity
	case score > 0.4:
		strategy = StrategyModerateSimilarity
	}

	return domain.LinkResolutionResult{
		PrimaryArticle: article,
		Strategy:       strategy,
		Confidence:     clampConfidence(score),
	}, true
}

// fallback picks from the full article pool: recency for greetings and
// misses, popularity for bot questions, editor picks for redirects.
func (r *LinkResolver) fallback(needType domain.NeedType) domain.LinkResolutionResult {
	var strategy string
	var pool []domain.Article

	switch needType {
	case domain.NeedGreeting:
		strategy = StrategyGreetingFallback
		pool = r.linkIndex.Recent(3)
	case domain.NeedAboutBot:
		strategy = StrategyAboutFallback
		pool = r.linkIndex.Popular(3)
	case domain.NeedOffTopic:
		strategy = StrategyOffTopicFallback
		pool = r.linkIndex.EditorPicks(3)
		if len(pool) == 0 {
			pool = r.linkIndex.Recent(3)
		}
	default:
		strategy = StrategyNoMatchFallback
		pool = r.linkIndex.Recent(3)
	}

	result := domain.LinkResolutionResult{
		Strategy:   strategy,
		Confidence: fallbackConfidence,
	}
	if len(pool) == 0 {
		result.Confidence = 0
		return result
	}

	result.PrimaryArticle = &pool[0]
	result.SuggestedArticles = dedupeArticles(pool[1:], pool[0].ArticleID, 2)
	return result
}

// withSuggestions fills the suggestion list from similarity neighbors,
// excluding the primary and any duplicates.
func (r *LinkResolver) withSuggestions(result domain.LinkResolutionResult, linkQuery string) domain.LinkResolutionResult {
	primaryID := ""
	if result.PrimaryArticle != nil {
		primaryID = result.PrimaryArticle.ArticleID
	}

	neighbors := r.linkIndex.TopMatches(linkQuery, 4, 0)
	pool := make([]domain.Article, 0, len(neighbors))
	for _, n := range neighbors {
		pool = append(pool, n.Article)
	}
	result.SuggestedArticles = dedupeArticles(pool, primaryID, 2)

	r.logger.Debug("link_resolved",
		slog.String("strategy", result.Strategy),
		slog.Float64("confidence", result.Confidence),
	)
	return result
}

func dedupeArticles(pool []domain.Article, excludeID string, limit int) []domain.Article {
	seen := map[string]struct{}{excludeID: {}}
	var out []domain.Article
	for _, a := range pool {
		if _, ok := seen[a.ArticleID]; ok {
			continue
		}
		seen[a.ArticleID] = struct{}{}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}

// ValidateURL reports whether a URL points at the allowed domain over the
// required scheme.
func (r *LinkResolver) ValidateURL(url string) bool {
	return url != "" && strings.HasPrefix(url, r.allowedDomain)
}

func clampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
