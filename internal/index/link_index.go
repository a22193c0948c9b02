package index

import (
	"sort"
	"strings"

	"sahtein/internal/domain"
	"sahtein/internal/normalize"
)

// LinkIndexConfig sizes the link index vectorizer.
type LinkIndexConfig struct {
	MaxFeatures int
	MaxDFRatio  float64
}

// DefaultLinkIndexConfig mirrors the production link index sizing. The link
// index matches short dish names against short title profiles, so it needs a
// smaller vocabulary than the content index.
func DefaultLinkIndexConfig() LinkIndexConfig {
	return LinkIndexConfig{MaxFeatures: 2000, MaxDFRatio: 0.9}
}

// LinkIndex maps queries to editorial articles for link resolution. It only
// ever returns articles that exist in the corpus, so every URL it yields is
// verifiable. Build once at startup; read-only afterwards.
type LinkIndex struct {
	cfg        LinkIndexConfig
	vectorizer *Vectorizer
	articles   []domain.Article
	vectors    []Vector
	byTitle    map[string]int
	byID       map[string]int
	built      bool
}

// NewLinkIndex returns an empty link index.
func NewLinkIndex(cfg LinkIndexConfig) *LinkIndex {
	return &LinkIndex{
		cfg: cfg,
		vectorizer: NewVectorizer(VectorizerConfig{
			MaxFeatures: cfg.MaxFeatures,
			MaxDFRatio:  cfg.MaxDFRatio,
			SublinearTF: true,
		}),
		byTitle: make(map[string]int),
		byID:    make(map[string]int),
	}
}

// Build indexes the articles: one profile per article built from the
// normalized title, tags, chef, and URL slug. When two articles share a
// normalized title, the exact-match table keeps the most recent one.
func (ix *LinkIndex) Build(articles []domain.Article) error {
	ix.articles = make([]domain.Article, 0, len(articles))
	profiles := make([]string, 0, len(articles))

	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		profile := normalize.SearchableText(
			normalize.RecipeName(a.Title),
			strings.Join(a.Tags, " "),
			a.Chef,
			strings.ReplaceAll(normalize.SlugFromURL(a.URL), "-", " "),
		)
		if profile == "" {
			continue
		}

		i := len(ix.articles)
		ix.articles = append(ix.articles, a)
		profiles = append(profiles, profile)
		ix.byID[a.ArticleID] = i

		title := normalize.RecipeName(a.Title)
		if prev, ok := ix.byTitle[title]; !ok || a.LatestDate().After(ix.articles[prev].LatestDate()) {
			ix.byTitle[title] = i
		}
	}

	vectors, err := ix.vectorizer.Fit(profiles)
	if err != nil {
		return err
	}
	ix.vectors = vectors
	ix.built = true
	return nil
}

// Len reports the number of indexed articles.
func (ix *LinkIndex) Len() int { return len(ix.articles) }

// FindExact returns the article whose normalized title equals the normalized
// query, or nil. Duplicate titles resolve to the most recent article.
func (ix *LinkIndex) FindExact(query string) *domain.Article {
	i, ok := ix.byTitle[normalize.RecipeName(query)]
	if !ok {
		return nil
	}
	a := ix.articles[i]
	return &a
}

// FindByID returns the indexed article with the given id, or nil.
func (ix *LinkIndex) FindByID(articleID string) *domain.Article {
	i, ok := ix.byID[articleID]
	if !ok {
		return nil
	}
	a := ix.articles[i]
	return &a
}

// ScoredArticle pairs an article with its similarity to a query.
type ScoredArticle struct {
	Article domain.Article
	Score   float64
}

// FindBest returns the article whose profile is most similar to the query,
// with its cosine similarity. Returns nil when nothing overlaps at all.
func (ix *LinkIndex) FindBest(query string) (*domain.Article, float64) {
	top := ix.TopMatches(query, 1, 0)
	if len(top) == 0 {
		return nil, 0
	}
	return &top[0].Article, top[0].Score
}

// TopMatches returns up to k articles by profile similarity, best first,
// dropping scores at or below minScore.
func (ix *LinkIndex) TopMatches(query string, k int, minScore float64) []ScoredArticle {
	if !ix.built || k <= 0 {
		return nil
	}

	queryVec := ix.vectorizer.Transform(normalize.RecipeName(query))
	if len(queryVec) == 0 {
		return nil
	}

	var scored []ScoredArticle
	for i, vec := range ix.vectors {
		score := CosineSimilarity(queryVec, vec)
		if score <= 0 || score < minScore {
			continue
		}
		scored = append(scored, ScoredArticle{Article: ix.articles[i], Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Article.ArticleID < scored[j].Article.ArticleID
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Recent returns up to n articles ordered by latest date, newest first.
func (ix *LinkIndex) Recent(n int) []domain.Article {
	return ix.topBy(n, func(a, b domain.Article) bool {
		return a.LatestDate().After(b.LatestDate())
	})
}

// Popular returns up to n articles ordered by popularity score, highest
// first.
func (ix *LinkIndex) Popular(n int) []domain.Article {
	return ix.topBy(n, func(a, b domain.Article) bool {
		return a.PopularityScore > b.PopularityScore
	})
}

// EditorPicks returns up to n editor-picked articles, newest first.
func (ix *LinkIndex) EditorPicks(n int) []domain.Article {
	picks := make([]domain.Article, 0, n)
	for _, a := range ix.articles {
		if a.IsEditorPick {
			picks = append(picks, a)
		}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].LatestDate().After(picks[j].LatestDate())
	})
	if len(picks) > n {
		picks = picks[:n]
	}
	return picks
}

func (ix *LinkIndex) topBy(n int, less func(a, b domain.Article) bool) []domain.Article {
	if n <= 0 {
		return nil
	}
	sorted := make([]domain.Article, len(ix.articles))
	copy(sorted, ix.articles)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
