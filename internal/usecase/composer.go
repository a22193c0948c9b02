package usecase

import (
	"fmt"
	"hash/fnv"
	"strings"

	"sahtein/internal/domain"
)

// allowedEmojis are food and emotion emojis; flags are never used.
var allowedEmojis = []string{
	"🍽️", "🥗", "🍴", "👨‍🍳", "👩‍🍳", "🌿", "🥙", "🥘", "🍲",
	"😋", "😊", "👌", "✨", "💚", "🌟", "🎉",
}

var greetingVariants = []string{
	"Bonjour ! 😊 Je suis Sahtein, votre assistant culinaire libanais.",
	"Salut ! 🍽️ Ravie de vous rencontrer. Je suis Sahtein, spécialiste de la cuisine libanaise.",
	"Bonjour ! 👨‍🍳 Bienvenue chez Sahtein, votre guide de la gastronomie libanaise.",
}

var offTopicVariants = []string{
	"Je suis spécialisé dans la cuisine libanaise et méditerranéenne. Puis-je vous suggérer une recette ?",
	"Ma spécialité, c'est la gastronomie libanaise ! Que diriez-vous de découvrir un délicieux mezze ?",
}

// Composer renders the French HTML answer for a scenario. Variant and emoji
// choices are keyed off the inputs, so the same request always renders the
// same markup.
type Composer struct {
	recipes map[string]domain.StructuredRecipe
}

// NewComposer indexes the structured recipes so scenario 2 can render full
// recipe bodies by id.
func NewComposer(recipes []domain.StructuredRecipe) *Composer {
	byID := make(map[string]domain.StructuredRecipe, len(recipes))
	for _, r := range recipes {
		byID[r.RecipeID] = r
	}
	return &Composer{recipes: byID}
}

// Compose renders the markup for the chosen scenario.
func (c *Composer) Compose(
	scenario domain.ScenarioContext,
	plan domain.QueryPlan,
	classification domain.ClassificationResult,
	link domain.LinkResolutionResult,
	candidates []domain.RetrievalCandidate,
) string {
	switch scenario.ScenarioID {
	case 1:
		return c.composeArticleStory(link)
	case 2:
		return c.composeFullRecipe(link, candidates)
	case 3:
		return c.composeNoMatch(link)
	case 4:
		return c.composeGreeting(link)
	case 5:
		return c.composeAboutBot(link)
	case 6:
		return c.composeOffTopic(link)
	case 7:
		return c.composeNonFrench()
	case 8:
		return c.composeIngredientSuggestions(link, candidates)
	default:
		return c.composeUnavailable()
	}
}

// composeArticleStory renders storytelling only: title, anecdote, chef, and
// the mandatory article link. Never the recipe body.
func (c *Composer) composeArticleStory(link domain.LinkResolutionResult) string {
	if link.PrimaryArticle == nil {
		return c.composeUnavailable()
	}
	article := link.PrimaryArticle

	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s <strong>%s</strong></p>\n", pickEmoji(article.ArticleID), article.Title)

	switch {
	case article.Description != "":
		fmt.Fprintf(&b, "<p>%s</p>\n", truncate(article.Description, 180))
	case article.Anecdote != "":
		fmt.Fprintf(&b, "<p>%s</p>\n", article.Anecdote)
	}

	if article.Chef != "" {
		fmt.Fprintf(&b, "<p>Une recette de %s.</p>\n", article.Chef)
	}

	fmt.Fprintf(&b, `<p><a href="%s">Découvrez la recette complète ici</a></p>`, article.URL)

	if len(link.SuggestedArticles) > 0 {
		s := link.SuggestedArticles[0]
		fmt.Fprintf(&b, "\n<p>Vous aimerez aussi : <a href=%q>%s</a></p>", s.URL, s.Title)
	}
	return b.String()
}

// composeFullRecipe renders a structured recipe in full, with the editorial
// article as a companion suggestion.
func (c *Composer) composeFullRecipe(link domain.LinkResolutionResult, candidates []domain.RetrievalCandidate) string {
	recipe, ok := c.findRecipe(candidates)
	if !ok {
		return c.composeUnavailable()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s <strong>%s</strong></p>\n", pickEmoji(recipe.RecipeID), recipe.Name)

	var meta []string
	if recipe.Servings > 0 {
		meta = append(meta, fmt.Sprintf("%d personnes", recipe.Servings))
	}
	if recipe.PrepTime != "" {
		meta = append(meta, "Préparation : "+recipe.PrepTime)
	}
	if recipe.Difficulty != "" {
		meta = append(meta, "Difficulté : "+recipe.Difficulty)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "<p><em>%s</em></p>\n", strings.Join(meta, " | "))
	}

	b.WriteString("<p><strong>Ingrédients :</strong><br>\n")
	for i, ing := range recipe.Ingredients {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "• %s<br>\n", ing.Text())
	}
	b.WriteString("</p>\n")

	b.WriteString("<p><strong>Préparation :</strong><br>\n")
	for i, step := range recipe.Steps {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s<br>\n", i+1, truncateEllipsis(step, 100))
	}
	b.WriteString("</p>")

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p>Découvrez aussi sur L'Orient-Le Jour : <a href=%q>%s</a></p>", a.URL, a.Title)
	}
	return b.String()
}

func (c *Composer) findRecipe(candidates []domain.RetrievalCandidate) (domain.StructuredRecipe, bool) {
	for _, candidate := range candidates {
		if candidate.Source != domain.SourceRecipes || candidate.RecipeID == "" {
			continue
		}
		if recipe, ok := c.recipes[candidate.RecipeID]; ok {
			return recipe, true
		}
	}
	return domain.StructuredRecipe{}, false
}

func (c *Composer) composeNoMatch(link domain.LinkResolutionResult) string {
	var b strings.Builder
	b.WriteString("<p>😊 Je n'ai pas trouvé exactement ce que vous cherchez, mais voici une suggestion !</p>")

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p><a href=%q><strong>%s</strong></a></p>", a.URL, a.Title)
		if a.Description != "" {
			fmt.Fprintf(&b, "\n<p>%s...</p>", truncate(a.Description, 120))
		}
	}
	return b.String()
}

func (c *Composer) composeGreeting(link domain.LinkResolutionResult) string {
	seed := ""
	if link.PrimaryArticle != nil {
		seed = link.PrimaryArticle.ArticleID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>\n", pick(greetingVariants, seed))
	b.WriteString("<p>Demandez-moi une recette, des suggestions avec vos ingrédients, ou des idées de mezze ! 🌿</p>")

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p>Pour commencer : <a href=%q>%s</a></p>", a.URL, a.Title)
	}
	return b.String()
}

func (c *Composer) composeAboutBot(link domain.LinkResolutionResult) string {
	var b strings.Builder
	b.WriteString("<p>😊 Je suis Sahtein, votre assistant culinaire pour la cuisine libanaise et méditerranéenne orientale.</p>\n")
	b.WriteString("<p>Je vous aide à découvrir les recettes de L'Orient-Le Jour, et je peux vous suggérer des plats selon vos envies ou vos ingrédients.</p>")

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p>Par exemple : <a href=%q>%s</a></p>", a.URL, a.Title)
	}
	return b.String()
}

func (c *Composer) composeOffTopic(link domain.LinkResolutionResult) string {
	seed := ""
	if link.PrimaryArticle != nil {
		seed = link.PrimaryArticle.ArticleID
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<p>😊 %s</p>", pick(offTopicVariants, seed))

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p>Voici une suggestion : <a href=%q>%s</a></p>", a.URL, a.Title)
	}
	return b.String()
}

func (c *Composer) composeNonFrench() string {
	return "<p>😊 Bonjour ! Je réponds uniquement en français.</p>" +
		"<p>Pour découvrir nos recettes libanaises, posez-moi votre question en français !</p>"
}

func (c *Composer) composeIngredientSuggestions(link domain.LinkResolutionResult, candidates []domain.RetrievalCandidate) string {
	var b strings.Builder
	b.WriteString("<p>😋 Avec ces ingrédients, vous pouvez préparer plusieurs plats !</p>")

	shown := 0
	for _, candidate := range candidates {
		if shown == 3 {
			break
		}
		switch candidate.Source {
		case domain.SourceRecipes:
			name := candidate.Meta.Name
			if name == "" {
				name = "Recette"
			}
			fmt.Fprintf(&b, "\n<p>%d. %s</p>", shown+1, name)
			shown++
		case domain.SourceArticles:
			if candidate.Meta.URL == "" {
				continue
			}
			title := candidate.Meta.Title
			if title == "" {
				title = "Recette"
			}
			fmt.Fprintf(&b, "\n<p>%d. <a href=%q>%s</a></p>", shown+1, candidate.Meta.URL, title)
			shown++
		}
	}

	if link.PrimaryArticle != nil {
		a := link.PrimaryArticle
		fmt.Fprintf(&b, "\n<p>Sur L'Orient-Le Jour : <a href=%q>%s</a></p>", a.URL, a.Title)
	}
	return b.String()
}

func (c *Composer) composeUnavailable() string {
	return "<p>😊 Désolé, je n'ai pas pu traiter votre demande.</p>" +
		"<p>Demandez-moi une recette libanaise ou méditerranéenne, et je serai ravi de vous aider ! 🍽️</p>"
}

// pick selects a variant deterministically from a seed.
func pick(variants []string, seed string) string {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return variants[int(h.Sum32())%len(variants)]
}

func pickEmoji(seed string) string {
	return pick(allowedEmojis, seed)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func truncateEllipsis(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return truncate(s, n) + "..."
}
