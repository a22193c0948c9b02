package dataset

import (
	"sync"

	"sahtein/internal/domain"
)

// Store memoizes the loaded corpora so every consumer shares one copy.
// Construct it explicitly and inject it; there is no package-level instance.
type Store struct {
	articlesPath string
	recipesPath  string
	goldenPath   string

	mu       sync.Mutex
	articles []domain.Article
	recipes  []domain.StructuredRecipe
	golden   []domain.GoldenExample
}

// NewStore returns a store over the given file paths. Nothing is read until
// the first accessor call.
func NewStore(articlesPath, recipesPath, goldenPath string) *Store {
	return &Store{
		articlesPath: articlesPath,
		recipesPath:  recipesPath,
		goldenPath:   goldenPath,
	}
}

// Articles returns the editorial corpus, loading it on first use.
func (s *Store) Articles() ([]domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.articles == nil {
		articles, err := LoadArticles(s.articlesPath)
		if err != nil {
			return nil, err
		}
		s.articles = articles
	}
	return s.articles, nil
}

// Recipes returns the structured corpus, loading it on first use.
func (s *Store) Recipes() ([]domain.StructuredRecipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recipes == nil {
		recipes, err := LoadRecipes(s.recipesPath)
		if err != nil {
			return nil, err
		}
		s.recipes = recipes
	}
	return s.recipes, nil
}

// GoldenExamples returns the evaluation set, loading it on first use.
func (s *Store) GoldenExamples() ([]domain.GoldenExample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.golden == nil {
		golden, err := LoadGoldenExamples(s.goldenPath)
		if err != nil {
			return nil, err
		}
		s.golden = golden
	}
	return s.golden, nil
}
