package domain

// Source is a documentation location with sample query templates.
type Source struct {
	Name    string   `json:"name" yaml:"name"`
	URL     string   `json:"url" yaml:"url"`
	Prompts []string `json:"prompts" yaml:"prompts"`
}

// SourceSummary is the listing view of a Source.
type SourceSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PromptTemplate is a parameterized instruction text.
type PromptTemplate struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Template    string   `json:"template" yaml:"template"`
	Parameters  []string `json:"parameters" yaml:"parameters"`
}

// PromptSummary is the listing view of a PromptTemplate.
type PromptSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CatalogReader exposes read-only lookups over the static catalogs.
type CatalogReader interface {
	Sources() []Source
	Source(name string) (Source, bool)
	Prompts() []PromptTemplate
	Prompt(name string) (PromptTemplate, bool)
}
