package domain

import "strings"

// Source identifies which corpus a document came from.
type Source string

const (
	// SourceArticles is the editorial article corpus (base 1).
	SourceArticles Source = "olj"
	// SourceRecipes is the structured recipe corpus (base 2).
	SourceRecipes Source = "base2"
)

// DocumentMeta carries the per-document fields retrieval and reranking
// consult. Article documents fill ArticleID/Title/URL/Chef; recipe documents
// fill RecipeID/Name/Category/Ingredients.
type DocumentMeta struct {
	ArticleID   string
	RecipeID    string
	Title       string
	Name        string
	URL         string
	Chef        string
	Category    string
	Difficulty  string
	Tags        []string
	Ingredients []string
}

// SearchText flattens the metadata into a single lowercase string for
// containment checks (constraint matching, cuisine indicators).
func (m DocumentMeta) SearchText() string {
	parts := []string{m.Title, m.Name, m.Chef, m.Category, m.Difficulty}
	parts = append(parts, m.Tags...)
	parts = append(parts, m.Ingredients...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ContentDocument is one entry in the content index.
type ContentDocument struct {
	DocID   string
	Source  Source
	Content string
	Meta    DocumentMeta
}

// RetrievalCandidate is an ephemeral scored hit produced per query.
// Scores are relative rankings only: multiplicative boosts compound, so a
// candidate score is not guaranteed to stay within [0,1].
type RetrievalCandidate struct {
	Source    Source
	Content   string
	Score     float64
	Meta      DocumentMeta
	ArticleID string
	RecipeID  string
}

// Key identifies a candidate for deduplication: same corpus, same item.
func (c RetrievalCandidate) Key() string {
	if c.Source == SourceArticles {
		return string(SourceArticles) + "_" + c.ArticleID
	}
	return string(SourceRecipes) + "_" + c.RecipeID
}

// LinkResolutionResult is the outcome of resolving a query to one verifiable
// article URL. Confidence is always normalized to [0,1]; PrimaryArticle never
// appears among SuggestedArticles.
type LinkResolutionResult struct {
	PrimaryArticle    *Article
	SuggestedArticles []Article
	Strategy          string
	Confidence        float64
}
