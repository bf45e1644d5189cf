package catalog

import "latticemcp/internal/domain"

// Catalog holds the static sources and prompt templates. It is never mutated
// after Parse returns, so concurrent readers need no locking.
type Catalog struct {
	sources     []domain.Source
	prompts     []domain.PromptTemplate
	sourceIndex map[string]int
	promptIndex map[string]int
}

func (c *Catalog) Sources() []domain.Source {
	out := make([]domain.Source, len(c.sources))
	for i, src := range c.sources {
		out[i] = cloneSource(src)
	}
	return out
}

func (c *Catalog) Source(name string) (domain.Source, bool) {
	i, ok := c.sourceIndex[name]
	if !ok {
		return domain.Source{}, false
	}
	return cloneSource(c.sources[i]), true
}

func (c *Catalog) Prompts() []domain.PromptTemplate {
	out := make([]domain.PromptTemplate, len(c.prompts))
	for i, p := range c.prompts {
		out[i] = clonePrompt(p)
	}
	return out
}

func (c *Catalog) Prompt(name string) (domain.PromptTemplate, bool) {
	i, ok := c.promptIndex[name]
	if !ok {
		return domain.PromptTemplate{}, false
	}
	return clonePrompt(c.prompts[i]), true
}

func cloneSource(src domain.Source) domain.Source {
	src.Prompts = append([]string{}, src.Prompts...)
	return src
}

func clonePrompt(p domain.PromptTemplate) domain.PromptTemplate {
	p.Parameters = append([]string{}, p.Parameters...)
	return p
}

var _ domain.CatalogReader = (*Catalog)(nil)
