package catalog

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"latticemcp/internal/domain"
)

//go:embed data/sources.yaml data/prompts.yaml
var dataFS embed.FS

const (
	sourcesFile = "data/sources.yaml"
	promptsFile = "data/prompts.yaml"
)

type Loader struct {
	logger *zap.Logger
}

type rawSources struct {
	Sources []domain.Source `yaml:"sources"`
}

type rawPrompts struct {
	Prompts []domain.PromptTemplate `yaml:"prompts"`
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("catalog")}
}

// Load decodes the catalogs compiled into the binary.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	sources, err := dataFS.ReadFile(sourcesFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sourcesFile, err)
	}
	prompts, err := dataFS.ReadFile(promptsFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", promptsFile, err)
	}
	cat, err := Parse(sources, prompts)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("catalog loaded",
		zap.Int("sources", len(cat.sources)),
		zap.Int("prompts", len(cat.prompts)),
	)
	return cat, ctx.Err()
}

// Parse builds a Catalog from YAML documents, rejecting unknown fields and duplicate names.
func Parse(sourcesYAML, promptsYAML []byte) (*Catalog, error) {
	var rs rawSources
	if err := decodeStrict(sourcesYAML, &rs); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	var rp rawPrompts
	if err := decodeStrict(promptsYAML, &rp); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}

	var errs []string
	sourceIndex := make(map[string]int, len(rs.Sources))
	for i, src := range rs.Sources {
		if strings.TrimSpace(src.Name) == "" {
			errs = append(errs, fmt.Sprintf("sources[%d]: name is required", i))
			continue
		}
		if _, dup := sourceIndex[src.Name]; dup {
			errs = append(errs, fmt.Sprintf("sources[%d]: duplicate name %q", i, src.Name))
			continue
		}
		if src.Prompts == nil {
			rs.Sources[i].Prompts = []string{}
		}
		sourceIndex[src.Name] = i
	}
	promptIndex := make(map[string]int, len(rp.Prompts))
	for i, p := range rp.Prompts {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Sprintf("prompts[%d]: name is required", i))
			continue
		}
		if _, dup := promptIndex[p.Name]; dup {
			errs = append(errs, fmt.Sprintf("prompts[%d]: duplicate name %q", i, p.Name))
			continue
		}
		if p.Parameters == nil {
			rp.Prompts[i].Parameters = []string{}
		}
		promptIndex[p.Name] = i
	}
	if len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}

	return &Catalog{
		sources:     rs.Sources,
		prompts:     rp.Prompts,
		sourceIndex: sourceIndex,
		promptIndex: promptIndex,
	}, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
