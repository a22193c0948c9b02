package index

import (
	"sort"
	"strings"

	"sahtein/internal/domain"
	"sahtein/internal/normalize"
)

// ContentIndexConfig sizes the content index vectorizer.
type ContentIndexConfig struct {
	MaxFeatures int
	MaxDFRatio  float64
}

// DefaultContentIndexConfig mirrors the production index sizing.
func DefaultContentIndexConfig() ContentIndexConfig {
	return ContentIndexConfig{MaxFeatures: 5000, MaxDFRatio: 0.8}
}

// ContentIndex is the unified vector index over both corpora: editorial
// articles and structured recipes. Add documents, call Build once, then
// search concurrently.
type ContentIndex struct {
	cfg        ContentIndexConfig
	vectorizer *Vectorizer
	expander   *normalize.IngredientExpander
	docs       []domain.ContentDocument
	vectors    []Vector
	built      bool
}

// NewContentIndex returns an empty index.
func NewContentIndex(cfg ContentIndexConfig, expander *normalize.IngredientExpander) *ContentIndex {
	return &ContentIndex{
		cfg: cfg,
		vectorizer: NewVectorizer(VectorizerConfig{
			MaxFeatures: cfg.MaxFeatures,
			MaxDFRatio:  cfg.MaxDFRatio,
			SublinearTF: true,
		}),
		expander: expander,
	}
}

// AddArticles registers editorial articles as searchable documents.
func (ix *ContentIndex) AddArticles(articles []domain.Article) {
	for _, a := range articles {
		content := normalize.SearchableText(
			a.Title,
			strings.Join(a.Tags, " "),
			a.Chef,
			a.ShortSummary,
			a.Description,
		)
		if content == "" {
			continue
		}
		ix.docs = append(ix.docs, domain.ContentDocument{
			DocID:   string(domain.SourceArticles) + "_" + a.ArticleID,
			Source:  domain.SourceArticles,
			Content: content,
			Meta: domain.DocumentMeta{
				ArticleID: a.ArticleID,
				Title:     a.Title,
				URL:       a.URL,
				Chef:      a.Chef,
				Tags:      a.Tags,
			},
		})
	}
}

// AddRecipes registers structured recipes as searchable documents.
func (ix *ContentIndex) AddRecipes(recipes []domain.StructuredRecipe) {
	for _, r := range recipes {
		ingredientNames := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ingredientNames = append(ingredientNames, ing.Name)
		}
		content := normalize.SearchableText(
			r.Name,
			r.Category,
			strings.Join(ingredientNames, " "),
			strings.Join(r.Tags, " "),
			strings.Join(r.Steps, " "),
		)
		if content == "" {
			continue
		}
		ix.docs = append(ix.docs, domain.ContentDocument{
			DocID:   string(domain.SourceRecipes) + "_" + r.RecipeID,
			Source:  domain.SourceRecipes,
			Content: content,
			Meta: domain.DocumentMeta{
				RecipeID:    r.RecipeID,
				Name:        r.Name,
				Category:    r.Category,
				Difficulty:  r.Difficulty,
				Tags:        r.Tags,
				Ingredients: ingredientNames,
			},
		})
	}
}

// Build fits the vectorizer over every added document. Must be called once
// after the Add calls and before any search.
func (ix *ContentIndex) Build() error {
	contents := make([]string, len(ix.docs))
	for i, d := range ix.docs {
		contents[i] = d.Content
	}
	vectors, err := ix.vectorizer.Fit(contents)
	if err != nil {
		return err
	}
	ix.vectors = vectors
	ix.built = true
	return nil
}

// Len reports the number of indexed documents.
func (ix *ContentIndex) Len() int { return len(ix.docs) }

// Search ranks documents from both corpora by cosine similarity against the
// query and returns up to topK candidates, best first. There is no score
// cutoff; weak hits rank last and get trimmed by topK.
func (ix *ContentIndex) Search(query string, topK int) []domain.RetrievalCandidate {
	return ix.SearchSource(query, topK, "")
}

// SearchSource is Search restricted to one corpus. An empty source searches
// both.
func (ix *ContentIndex) SearchSource(query string, topK int, source domain.Source) []domain.RetrievalCandidate {
	if !ix.built || topK <= 0 {
		return nil
	}

	queryVec := ix.vectorizer.Transform(normalize.Text(query))
	if len(queryVec) == 0 {
		return nil
	}

	candidates := make([]domain.RetrievalCandidate, 0, topK)
	for i, docVec := range ix.vectors {
		if source != "" && ix.docs[i].Source != source {
			continue
		}
		score := CosineSimilarity(queryVec, docVec)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, ix.candidate(i, score))
	}

	sortCandidates(candidates)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// SearchByIngredients searches with the ingredient list expanded through the
// equivalence table, then rescores each hit by blending the cosine score
// with the fraction of query ingredients the document actually contains.
// The overlap dominates: score = 0.4*cosine + 0.6*ratio.
func (ix *ContentIndex) SearchByIngredients(ingredients []string, topK int) []domain.RetrievalCandidate {
	if len(ingredients) == 0 {
		return nil
	}

	expanded := ix.expander.ExpandList(ingredients)
	query := strings.Join(expanded, " ")

	// Only the structured corpus carries ingredient lists worth rescoring.
	// Over-fetch so the rescore can reorder beyond the final cut. No cosine
	// cutoff here: a recipe holding every query ingredient must survive even
	// when a long ingredient list dilutes its cosine score.
	hits := ix.SearchSource(query, topK*2, domain.SourceRecipes)
	for i := range hits {
		_, ratio := ix.expander.Match(ingredients, hits[i].Meta.Ingredients)
		hits[i].Score = 0.4*hits[i].Score + 0.6*ratio
	}

	sortCandidates(hits)
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func (ix *ContentIndex) candidate(i int, score float64) domain.RetrievalCandidate {
	doc := ix.docs[i]
	return domain.RetrievalCandidate{
		Source:    doc.Source,
		Content:   doc.Content,
		Score:     score,
		Meta:      doc.Meta,
		ArticleID: doc.Meta.ArticleID,
		RecipeID:  doc.Meta.RecipeID,
	}
}

// sortCandidates orders by score descending with the document key as a
// deterministic tiebreaker.
func sortCandidates(candidates []domain.RetrievalCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Key() < candidates[j].Key()
	})
}
