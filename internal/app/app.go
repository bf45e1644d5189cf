package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"latticemcp/internal/domain"
	"latticemcp/internal/infra/mcpcodec"
)

type App struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *App {
	return &App{
		logger: NewAppLogger(logger),
	}
}

// Serve builds the application from cfg and runs it until ctx ends.
func (a *App) Serve(ctx context.Context, cfg Config) error {
	application, err := InitializeApplication(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	return application.Serve(ctx)
}

// WriteTools prints the advertised tool descriptors as JSON.
func (a *App) WriteTools(ctx context.Context, cfg Config, w io.Writer) error {
	application, err := InitializeApplication(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	return writePretty(w, application.Dispatcher().Tools())
}

type catalogDump struct {
	Sources []domain.Source         `json:"sources"`
	Prompts []domain.PromptTemplate `json:"prompts"`
}

// WriteCatalog prints the embedded source and prompt catalogs as JSON.
func (a *App) WriteCatalog(ctx context.Context, cfg Config, w io.Writer) error {
	application, err := InitializeApplication(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	cat := application.Catalog()
	return writePretty(w, catalogDump{
		Sources: cat.Sources(),
		Prompts: cat.Prompts(),
	})
}

func writePretty(w io.Writer, v any) error {
	text, err := mcpcodec.MarshalPretty(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}
