package di

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-docsite/internal/check"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const gettingStartedDoc = `---
type: doc
layout: guide
category: basics
title: Getting Started
slug: getting-started
weight: 10
---

# Getting Started

Install the toolchain and run your first build.
`

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Title = "Docs"
	cfg.Site.BaseURL = "https://docs.example.com"
	cfg.Docs.ContentDir = "docs"
	cfg.Docs.Locales = []string{"en", "es"}
	cfg.Generator.Incremental = false
	cfg.Generator.CleanBuild = false
	return cfg
}

func testContentFS() fstest.MapFS {
	// Rooted at the content directory, as WithContentFS documents.
	return fstest.MapFS{
		"getting-started.md": &fstest.MapFile{
			Data:    []byte(gettingStartedDoc),
			ModTime: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Docs.ContentDir = ""

	if _, err := NewContainer(cfg); err != runtimeconfig.ErrDocsContentDirRequired {
		t.Fatalf("expected ErrDocsContentDirRequired, got %v", err)
	}
}

func TestNewContainer_DefaultsToMemoryCatalog(t *testing.T) {
	container, err := NewContainer(testConfig(), WithContentFS(testContentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if container.DocsService() == nil {
		t.Fatalf("expected docs service")
	}
	if container.MarkdownService() == nil {
		t.Fatalf("expected markdown service")
	}
	if container.Importer() == nil {
		t.Fatalf("expected importer")
	}
	if container.CheckService() == nil {
		t.Fatalf("expected check service")
	}
}

func TestContainer_SyncAndBuild(t *testing.T) {
	writer := generator.NewMemoryWriter()
	container, err := NewContainer(testConfig(),
		WithContentFS(testContentFS()),
		WithArtifactWriter(writer),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	ctx := context.Background()
	documents, err := container.MarkdownService().LoadDirectory(ctx, "", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(documents) != 1 {
		t.Fatalf("expected 1 document, got %d", len(documents))
	}

	result, err := container.Importer().SyncDocuments(ctx, documents, interfaces.SyncOptions{})
	if err != nil {
		t.Fatalf("SyncDocuments: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 page created, got %+v", result)
	}

	build, err := container.GeneratorService().Build(ctx, generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if build.PagesBuilt != 1 {
		t.Fatalf("expected 1 page built, got %d", build.PagesBuilt)
	}

	html, ok := writer.File("getting-started/index.html")
	if !ok {
		t.Fatalf("expected generated page, have %v", writer.Paths())
	}
	if !strings.Contains(string(html), "Getting Started") {
		t.Fatalf("expected rendered title, got %q", string(html))
	}

	report, err := container.CheckService().Run(ctx, check.Options{})
	if err != nil {
		t.Fatalf("check run: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected clean check report, got %v", report.Issues)
	}
}

func TestContainer_GeneratorDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Generator = false

	container, err := NewContainer(cfg, WithContentFS(testContentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{}); err != generator.ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestContainer_CheckDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Features.Check = false

	container, err := NewContainer(cfg, WithContentFS(testContentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.CheckService().Run(context.Background(), check.Options{}); err != check.ErrServiceDisabled {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestContainer_UnknownSnippetLanguage(t *testing.T) {
	cfg := testConfig()
	cfg.Check.SnippetLanguages = []string{"kotlin", "cobol"}

	if _, err := NewContainer(cfg, WithContentFS(testContentFS())); !errors.Is(err, runtimeconfig.ErrCheckLanguageUnknown) {
		t.Fatalf("expected ErrCheckLanguageUnknown, got %v", err)
	}
}

func TestContainer_WatcherRequiresWatchFeature(t *testing.T) {
	container, err := NewContainer(testConfig(), WithContentFS(testContentFS()))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}

	if _, err := container.NewWatcher(nil); err != ErrWatchDisabled {
		t.Fatalf("expected ErrWatchDisabled, got %v", err)
	}
}

func TestContainer_LoggerProviderOverride(t *testing.T) {
	provider := &countingProvider{}
	cfg := testConfig()
	cfg.Features.Logger = true

	container, err := NewContainer(cfg,
		WithContentFS(testContentFS()),
		WithLoggerProvider(provider),
	)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if container.LoggerProvider() != provider {
		t.Fatalf("expected supplied provider to win")
	}
	if provider.requests == 0 {
		t.Fatalf("expected services to request module loggers")
	}
}

type countingProvider struct {
	requests int
}

func (p *countingProvider) GetLogger(string) interfaces.Logger {
	p.requests++
	return nil
}
