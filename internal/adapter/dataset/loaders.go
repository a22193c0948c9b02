// Package dataset loads the JSON corpora from disk: the editorial article
// base, the structured recipe base, and the golden evaluation examples.
// Loading happens once at startup; a Store memoizes the results.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"sahtein/internal/domain"
	"sahtein/internal/normalize"
)

// recipeCategories lists the top-level keys of the structured recipe file,
// in serving order.
var recipeCategories = []string{
	"mezzes_froids",
	"mezzes_chauds",
	"plats_principaux",
	"soupes_potages",
	"salades",
	"desserts",
	"boissons",
}

type articleFile struct {
	Articles []articleRecord `json:"articles"`
}

type articleRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	Tags        json.RawMessage `json:"tags"`
	Published   string          `json:"published"`
	Modified    string          `json:"modified"`
	EditorPick  bool            `json:"editor_pick"`
	Recipe      *articleRecipe  `json:"recipe"`
}

type articleRecipe struct {
	Name         string   `json:"name"`
	Instructions []string `json:"instructions"`
}

// LoadArticles reads the editorial article corpus. Records that cannot be
// parsed are skipped rather than failing the whole load.
func LoadArticles(path string) ([]domain.Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read articles: %w", err)
	}

	var file articleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("dataset: parse articles: %w", err)
	}

	now := time.Now()
	articles := make([]domain.Article, 0, len(file.Articles))
	for _, rec := range file.Articles {
		title := rec.Title
		if title == "" && rec.Recipe != nil {
			title = rec.Recipe.Name
		}
		if title == "" && rec.URL == "" {
			continue
		}

		id := rec.ID
		if id == "" {
			id = rec.URL
		}

		published := parseDate(rec.Published)
		modified := parseDate(rec.Modified)

		articles = append(articles, domain.Article{
			ArticleID:       id,
			Title:           title,
			NormalizedTitle: normalize.RecipeName(title),
			Slug:            normalize.SlugFromURL(rec.URL),
			URL:             rec.URL,
			Chef:            extractChef(title),
			Author:          rec.Author,
			Section:         "Liban à table",
			Tags:            parseTags(rec.Tags),
			PublishDate:     published,
			ModifiedDate:    modified,
			PopularityScore: popularityScore(now, published, modified),
			ShortSummary:    truncateRunes(rec.Description, 200),
			Description:     rec.Description,
			Anecdote:        extractAnecdote(rec.Description),
			Tips:            extractTips(rec.Recipe),
			IsEditorPick:    rec.EditorPick,
		})
	}
	return articles, nil
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// chefRe finds "de Prénom Nom" or "par Prénom Nom" in article titles.
var chefRe = regexp.MustCompile(`(?:de|par) ([A-ZÀ-Ý][a-zà-ÿ]+ [A-ZÀ-Ý][a-zà-ÿ]+(?:-[A-ZÀ-Ý][a-zà-ÿ]+)?)`)

func extractChef(title string) string {
	if m := chefRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		tags := make([]string, 0, len(list))
		for _, t := range list {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var tags []string
		for _, t := range strings.Split(s, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	return nil
}

// popularityScore favors recency: linear decay over a year from the publish
// date, with a bonus for articles touched in the last 30 days. Articles
// without a publish date sit at the neutral 0.5.
func popularityScore(now, published, modified time.Time) float64 {
	if published.IsZero() {
		return 0.5
	}

	daysOld := now.Sub(published).Hours() / 24
	score := 1.0 - daysOld/365.0
	if score < 0 {
		score = 0
	}

	if !modified.IsZero() && modified.After(published) && now.Sub(modified).Hours()/24 < 30 {
		score += 0.2
	}

	if score > 1 {
		score = 1
	}
	return score
}

func extractAnecdote(description string) string {
	if len([]rune(description)) > 100 {
		return truncateRunes(description, 150) + "..."
	}
	return description
}

func extractTips(recipe *articleRecipe) []string {
	if recipe == nil {
		return nil
	}
	var tips []string
	for _, instruction := range recipe.Instructions {
		lower := strings.ToLower(instruction)
		if strings.Contains(lower, "astuce") || strings.Contains(lower, "secret") {
			tips = append(tips, instruction)
		}
	}
	return tips
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

type recipeRecord struct {
	Nom              string            `json:"nom"`
	Ingredients      []json.RawMessage `json:"ingredients"`
	Etapes           []string          `json:"etapes"`
	NombreDePersonne int               `json:"nombre_de_personnes"`
	TempsPreparation string            `json:"temps_preparation"`
	TempsCuisson     string            `json:"temps_cuisson"`
	Difficulte       string            `json:"difficulte"`
}

type structuredIngredient struct {
	Nom      string  `json:"nom"`
	Quantite float64 `json:"quantite"`
	Unite    string  `json:"unite"`
}

// LoadRecipes reads the structured recipe corpus, organized by category.
// Recipe ids are assigned sequentially across categories in serving order so
// they stay stable between runs.
func LoadRecipes(path string) ([]domain.StructuredRecipe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read recipes: %w", err)
	}

	var file map[string][]recipeRecord
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("dataset: parse recipes: %w", err)
	}

	var recipes []domain.StructuredRecipe
	counter := 1
	for _, category := range recipeCategories {
		for _, rec := range file[category] {
			if rec.Nom == "" {
				continue
			}
			recipes = append(recipes, domain.StructuredRecipe{
				RecipeID:       fmt.Sprintf("base2_%d", counter),
				Name:           rec.Nom,
				NormalizedName: normalize.RecipeName(rec.Nom),
				Category:       categoryLabel(category),
				Ingredients:    parseIngredients(rec.Ingredients),
				Steps:          rec.Etapes,
				Servings:       rec.NombreDePersonne,
				PrepTime:       rec.TempsPreparation,
				CookTime:       rec.TempsCuisson,
				Difficulty:     rec.Difficulte,
				Tags:           []string{category},
			})
			counter++
		}
	}
	return recipes, nil
}

// parseIngredients accepts both structured objects and bare strings.
func parseIngredients(raw []json.RawMessage) []domain.Ingredient {
	ingredients := make([]domain.Ingredient, 0, len(raw))
	for _, r := range raw {
		var structured structuredIngredient
		if err := json.Unmarshal(r, &structured); err == nil && structured.Nom != "" {
			ingredients = append(ingredients, domain.Ingredient{
				Name:     structured.Nom,
				Quantity: structured.Quantite,
				Unit:     structured.Unite,
			})
			continue
		}
		var name string
		if err := json.Unmarshal(r, &name); err == nil && name != "" {
			ingredients = append(ingredients, domain.Ingredient{Name: name})
		}
	}
	return ingredients
}

// categoryLabel turns "mezzes_froids" into "Mezzes Froids".
func categoryLabel(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type goldenFile struct {
	Examples []struct {
		ID        string `json:"id"`
		Scenario  string `json:"scenario"`
		Title     string `json:"title"`
		UserQuery string `json:"user_query"`
		Response  string `json:"response"`
		Metadata  struct {
			Intent string `json:"intent"`
			URL    string `json:"url"`
		} `json:"metadata"`
	} `json:"examples"`
}

// LoadGoldenExamples reads the curated evaluation set.
func LoadGoldenExamples(path string) ([]domain.GoldenExample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read golden examples: %w", err)
	}

	var file goldenFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("dataset: parse golden examples: %w", err)
	}

	examples := make([]domain.GoldenExample, 0, len(file.Examples))
	for _, rec := range file.Examples {
		examples = append(examples, domain.GoldenExample{
			ID:             rec.ID,
			Scenario:       rec.Scenario,
			Title:          rec.Title,
			UserQuery:      rec.UserQuery,
			Response:       rec.Response,
			ExpectedIntent: rec.Metadata.Intent,
			ExpectedURL:    rec.Metadata.URL,
		})
	}
	return examples, nil
}
