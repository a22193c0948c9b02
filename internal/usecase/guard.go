package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"sahtein/internal/domain"
)

// GuardConfig carries the editorial budgets the guard enforces.
type GuardConfig struct {
	AllowedDomain  string
	MaxEmojis      int
	MaxWords       int
	MaxWordsRecipe int
}

// wordBuffer is the tolerance above the word budget before a warning fires;
// sanitize allows twice that before trimming.
const wordBuffer = 50

var (
	// English markers that should not appear in a French response.
	nonFrenchRes = compile(
		`\bthe\b`, `\band\b`, `\bwith\b`, `\bfor\b`,
		`\brecipe\b`, `\bcooking\b`, `\bingredients?\b`,
	)

	frenchIndicators = []string{"le", "la", "les", "de", "du", "des", "une", "un", "pour", "avec"}

	ingredientListRes = compile(
		`ingrédients?\s*:`,
		`\d+\s*(g|ml|c\.\s*à\s*(soupe|café))`,
	)

	stepsListRes = compile(
		`(préparation|étapes?)\s*:`,
		`(?m)^\s*\d+\.\s*(faire|mettre|ajouter|mélanger|cuire)`,
	)

	markdownRes = compile(
		`\*\*[^*]+\*\*`,
		`\*[^*]+\*`,
		`(?m)^\s*#\s+`,
		`(?m)^\s*-\s+`,
		`(?m)^\s*\d+\.\s+`,
		`\[[^\]]+\]\([^)]+\)`,
	)

	urlRe = regexp.MustCompile(`https?://[^\s<>"]+|www\.[^\s<>"]+`)
)

// ContentGuard validates composed markup against the active scenario policy
// and applies one bounded sanitize pass when asked.
type ContentGuard struct {
	cfg GuardConfig
}

// NewContentGuard returns a guard with the given budgets.
func NewContentGuard(cfg GuardConfig) *ContentGuard {
	return &ContentGuard{cfg: cfg}
}

// Validate runs every check independently and collects all findings.
func (g *ContentGuard) Validate(markup string, scenario domain.ScenarioContext) domain.ValidationResult {
	result := domain.ValidationResult{IsValid: true}
	text := stripTags(markup)

	if !isFrench(text) {
		result.AddWarning("response may not be in French")
	}

	if !scenario.ShowFullContent {
		lower := strings.ToLower(text)
		if matchesAny(ingredientListRes, lower) {
			result.AddError("storytelling scenario must not contain ingredient lists")
		}
		if matchesAny(stepsListRes, lower) {
			result.AddError("storytelling scenario must not contain cooking steps")
		}
	}

	for _, url := range urlRe.FindAllString(markup, -1) {
		if !strings.HasPrefix(url, g.cfg.AllowedDomain) {
			result.AddError(fmt.Sprintf("url outside allowed domain: %s", url))
			break
		}
	}

	if matchesAny(markdownRes, text) {
		result.AddWarning("response contains markdown formatting, should be HTML only")
	}

	if count := countEmojis(markup); count > g.cfg.MaxEmojis {
		result.AddError(fmt.Sprintf("too many emojis (%d), max is %d", count, g.cfg.MaxEmojis))
	}

	if containsFlags(markup) {
		result.AddError("response contains flag emojis")
	}

	maxWords := g.wordBudget(scenario)
	if count := CountWords(markup); count > maxWords+wordBuffer {
		result.AddWarning(fmt.Sprintf("response is long (%d words), target is ~%d", count, maxWords))
	}

	if scenario.IncludeLink && !containsLink(markup) {
		result.AddError("scenario requires a link but none found")
	}

	return result
}

// Sanitize applies best-effort fixes: strip flags, trim excess emojis from
// the end, and cut to the word budget at paragraph boundaries. Clean input
// passes through unchanged.
func (g *ContentGuard) Sanitize(markup string, scenario domain.ScenarioContext) string {
	sanitized := stripFlags(markup)
	sanitized = limitEmojis(sanitized, g.cfg.MaxEmojis)
	return trimToWords(sanitized, g.wordBudget(scenario)+2*wordBuffer)
}

func (g *ContentGuard) wordBudget(scenario domain.ScenarioContext) int {
	if scenario.ShowFullContent {
		return g.cfg.MaxWordsRecipe
	}
	return g.cfg.MaxWords
}

func matchesAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func isFrench(text string) bool {
	lower := strings.ToLower(text)
	if matchesAny(nonFrenchRes, lower) {
		return false
	}
	for _, indicator := range frenchIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// blockTags are the elements that end a text line when stripped. Keeping
// the line breaks matters: several guard patterns are anchored at line
// starts and must see each paragraph on its own line.
var blockTags = map[string]struct{}{
	"p": {}, "br": {}, "div": {}, "li": {}, "ul": {}, "ol": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"blockquote": {}, "section": {}, "article": {},
}

// stripTags renders the markup to plain text. Block-level tags become line
// breaks, inline tags become spaces so words do not merge across them.
func stripTags(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseLines(b.String())
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if _, block := blockTags[string(name)]; block {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		default:
			b.WriteByte(' ')
		}
	}
}

// collapseLines squeezes whitespace within each line and drops blank lines.
func collapseLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// containsLink reports whether the markup has at least one anchor with an
// href attribute.
func containsLink(markup string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tokenizer.TagName()
		if string(name) != "a" || !hasAttr {
			continue
		}
		for {
			key, _, more := tokenizer.TagAttr()
			if string(key) == "href" {
				return true
			}
			if !more {
				break
			}
		}
	}
}

// CountWords counts words in the markup with tags stripped.
func CountWords(markup string) int {
	return len(strings.Fields(stripTags(markup)))
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F:
		return true
	case r >= 0x1F300 && r <= 0x1F5FF:
		return true
	case r >= 0x1F680 && r <= 0x1F6FF:
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF:
		return true
	case r >= 0x2702 && r <= 0x27B0:
		return true
	case r >= 0x24C2 && r <= 0x1F251:
		return true
	}
	return false
}

// countEmojis counts maximal runs of emoji runes, the way a character-class
// regex with a + quantifier would.
func countEmojis(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		if isEmojiRune(r) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

func containsFlags(text string) bool {
	prev := false
	for _, r := range text {
		current := isRegionalIndicator(r)
		if current && prev {
			return true
		}
		prev = current
	}
	return false
}

// stripFlags removes pairs of regional indicator symbols.
func stripFlags(text string) string {
	runes := []rune(text)
	var out []rune
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) && isRegionalIndicator(runes[i]) && isRegionalIndicator(runes[i+1]) {
			i++
			continue
		}
		out = append(out, runes[i])
	}
	return string(out)
}

// limitEmojis removes emoji runs beyond the maximum, starting from the end.
func limitEmojis(text string, maxEmojis int) string {
	total := countEmojis(text)
	if total <= maxEmojis {
		return text
	}

	excess := total - maxEmojis
	runes := []rune(text)
	var kept []rune
	// Walk backwards, dropping whole runs while excess remains.
	for i := len(runes) - 1; i >= 0; i-- {
		if excess > 0 && isEmojiRune(runes[i]) {
			// Skip the whole run.
			for i >= 0 && isEmojiRune(runes[i]) {
				i--
			}
			i++
			excess--
			continue
		}
		kept = append(kept, runes[i])
	}
	// Reverse back.
	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return string(kept)
}

// trimToWords keeps leading complete paragraphs until the budget is
// reached. Input within budget passes through untouched.
func trimToWords(markup string, maxWords int) string {
	if CountWords(markup) <= maxWords {
		return markup
	}

	paragraphs := strings.Split(markup, "</p>")
	var kept []string
	words := 0
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		block := p + "</p>"
		blockWords := CountWords(block)
		if words+blockWords > maxWords {
			break
		}
		kept = append(kept, block)
		words += blockWords
	}
	if len(kept) == 0 {
		return markup
	}
	return strings.Join(kept, "\n")
}
