package domain

// UseBase says which corpus a scenario draws its content from.
type UseBase string

const (
	UseBaseArticles UseBase = "olj"
	UseBaseRecipes  UseBase = "base2"
	UseBaseMixed    UseBase = "mixed"
	UseBaseNone     UseBase = "none"
)

// ScenarioContext is the editorial policy chosen for a request. Exactly one
// is produced per request by a pure function of the upstream signals.
type ScenarioContext struct {
	ScenarioID      int
	ScenarioName    string
	UseBase         UseBase
	ShowFullContent bool
	IncludeLink     bool
}

// ValidationResult collects the outcome of the content guard checks.
type ValidationResult struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// AddError records a blocking violation and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-blocking observation.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ChatResponse is the final pipeline output for one user message.
type ChatResponse struct {
	HTML         string
	ScenarioID   int
	ScenarioName string
	UsedBase     UseBase
	PrimaryURL   string
	Debug        map[string]any
}
