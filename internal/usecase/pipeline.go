package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sahtein/internal/domain"
	"sahtein/internal/usecase/retrieval"
)

// errorMarkup is returned verbatim whenever a stage panics; the user never
// sees an internal error.
const errorMarkup = `<p>😊 Désolé, une erreur est survenue. Veuillez réessayer.</p>`

// maxCandidatesPerSource caps how many hits one corpus may contribute after
// reranking.
const maxCandidatesPerSource = 3

// Pipeline chains the answer stages for one user message: classify, plan,
// retrieve, rerank, resolve link, align scenario, compose, guard.
type Pipeline struct {
	classifier *Classifier
	planner    *Planner
	retriever  *retrieval.Retriever
	reranker   *retrieval.Reranker
	links      *LinkResolver
	aligner    *ScenarioAligner
	composer   *Composer
	guard      *ContentGuard
	logger     *slog.Logger
}

func NewPipeline(
	classifier *Classifier,
	planner *Planner,
	retriever *retrieval.Retriever,
	reranker *retrieval.Reranker,
	links *LinkResolver,
	aligner *ScenarioAligner,
	composer *Composer,
	guard *ContentGuard,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		planner:    planner,
		retriever:  retriever,
		reranker:   reranker,
		links:      links,
		aligner:    aligner,
		composer:   composer,
		guard:      guard,
		logger:     logger,
	}
}

// Process answers one user message. It never returns an error: any stage
// failure degrades to a fixed apology so the conversation can continue.
func (p *Pipeline) Process(ctx context.Context, message string, debug bool) (resp domain.ChatResponse) {
	requestID := uuid.NewString()
	started := time.Now()
	logger := p.logger.With(slog.String("request_id", requestID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline_panic", slog.Any("panic", r))
			resp = domain.ChatResponse{
				HTML:         errorMarkup,
				ScenarioID:   0,
				ScenarioName: "error",
				UsedBase:     domain.UseBaseNone,
			}
		}
		logger.Info("request_completed",
			slog.Int("scenario_id", resp.ScenarioID),
			slog.Duration("latency", time.Since(started)),
		)
	}()

	classification := p.classifier.Classify(ctx, message)
	plan := p.planner.Plan(classification, message)

	candidates := p.retriever.Retrieve(plan)
	candidates = p.retriever.FilterByConstraints(candidates, plan.Constraints)
	candidates = p.reranker.Rerank(candidates, plan)
	candidates = retrieval.Deduplicate(candidates)
	candidates = retrieval.Diversify(candidates, maxCandidatesPerSource)

	link := p.links.Resolve(plan, candidates)
	scenario := p.aligner.Align(classification, plan, link, candidates)

	markup := p.composer.Compose(scenario, plan, classification, link, candidates)

	validation := p.guard.Validate(markup, scenario)
	if !validation.IsValid {
		logger.Warn("response_sanitized",
			slog.Int("scenario_id", scenario.ScenarioID),
			slog.Any("errors", validation.Errors),
		)
		markup = p.guard.Sanitize(markup, scenario)
		validation = p.guard.Validate(markup, scenario)
	}

	resp = domain.ChatResponse{
		HTML:         markup,
		ScenarioID:   scenario.ScenarioID,
		ScenarioName: scenario.ScenarioName,
		UsedBase:     scenario.UseBase,
	}
	if link.PrimaryArticle != nil {
		resp.PrimaryURL = link.PrimaryArticle.URL
	}
	if debug {
		resp.Debug = debugInfo(classification, plan, candidates, link, scenario, validation)
	}
	return resp
}

func debugInfo(
	classification domain.ClassificationResult,
	plan domain.QueryPlan,
	candidates []domain.RetrievalCandidate,
	link domain.LinkResolutionResult,
	scenario domain.ScenarioContext,
	validation domain.ValidationResult,
) map[string]any {
	hits := make([]map[string]any, 0, len(candidates))
	for _, c := range candidates {
		hits = append(hits, map[string]any{
			"key":    c.Key(),
			"source": string(c.Source),
			"score":  c.Score,
		})
	}
	return map[string]any{
		"intent":              string(classification.Intent),
		"language":            string(classification.Language),
		"intent_confidence":   classification.Confidence,
		"need_type":           string(plan.NeedType),
		"retrieval_query":     plan.RetrievalQuery,
		"link_query":          plan.LinkQuery,
		"candidates":          hits,
		"link_strategy":       link.Strategy,
		"link_confidence":     link.Confidence,
		"scenario_name":       scenario.ScenarioName,
		"validation_valid":    validation.IsValid,
		"validation_errors":   validation.Errors,
		"validation_warnings": validation.Warnings,
	}
}
