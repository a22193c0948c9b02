// Package app assembles the full answering stack from configuration: data
// loading, index construction, and pipeline wiring.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sahtein/internal/adapter/dataset"
	"sahtein/internal/adapter/llm"
	"sahtein/internal/index"
	"sahtein/internal/infra/config"
	"sahtein/internal/knowledge"
	"sahtein/internal/normalize"
	"sahtein/internal/usecase"
	"sahtein/internal/usecase/retrieval"
)

const classifierCacheSize = 256

// App is the assembled system plus the handles the surfaces need for
// status reporting and evaluation.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *dataset.Store
	Pipeline *usecase.Pipeline

	ContentIndex *index.ContentIndex
	LinkIndex    *index.LinkIndex
}

// New loads both corpora, builds the indexes in parallel, and wires the
// pipeline.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store := dataset.NewStore(cfg.ArticlesPath, cfg.RecipesPath, cfg.GoldenExamplesPath)

	articles, err := store.Articles()
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	recipes, err := store.Recipes()
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	logger.Info("corpora_loaded",
		slog.Int("articles", len(articles)),
		slog.Int("recipes", len(recipes)),
	)

	contentIndex := index.NewContentIndex(index.DefaultContentIndexConfig(), normalize.NewIngredientExpander())
	contentIndex.AddArticles(articles)
	contentIndex.AddRecipes(recipes)
	linkIndex := index.NewLinkIndex(index.DefaultLinkIndexConfig())

	g, _ := errgroup.WithContext(ctx)
	g.Go(contentIndex.Build)
	g.Go(func() error { return linkIndex.Build(articles) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build indexes: %w", err)
	}
	logger.Info("indexes_built",
		slog.Int("content_documents", contentIndex.Len()),
		slog.Int("link_articles", linkIndex.Len()),
	)

	llmClient, err := llm.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	graph := knowledge.NewGraph()
	classifier, err := usecase.NewClassifier(llmClient, graph, classifierCacheSize, logger)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	pipeline := usecase.NewPipeline(
		classifier,
		usecase.NewPlanner(graph),
		retrieval.NewRetriever(contentIndex, cfg.RetrievalTopK, logger),
		retrieval.NewReranker(cfg.RerankTopK),
		usecase.NewLinkResolver(linkIndex, cfg.AllowedURLDomain, cfg.MinSimilarityThreshold, logger),
		usecase.NewScenarioAligner(),
		usecase.NewComposer(recipes),
		usecase.NewContentGuard(usecase.GuardConfig{
			AllowedDomain:  cfg.AllowedURLDomain,
			MaxEmojis:      cfg.MaxEmojis,
			MaxWords:       cfg.MaxResponseWords,
			MaxWordsRecipe: cfg.MaxResponseWordsRecipe,
		}),
		logger,
	)

	return &App{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Pipeline:     pipeline,
		ContentIndex: contentIndex,
		LinkIndex:    linkIndex,
	}, nil
}
