package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"omnitutor/internal/chunker"
	"omnitutor/internal/config"
	"omnitutor/internal/course"
	"omnitutor/internal/domain"
	"omnitutor/internal/embedding/openai"
	"omnitutor/internal/embedding/tfidf"
	"omnitutor/internal/llm"
	llmopenai "omnitutor/internal/llm/openai"
	"omnitutor/internal/retriever"
	"omnitutor/internal/summarizer"
	"omnitutor/internal/tui"
	"omnitutor/internal/vectorindex"
	"omnitutor/internal/vectorindex/memory"
	"omnitutor/internal/vectorindex/qdrant"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath   string
		lessons   int
		language  string
		outputDir string
		noChat    bool
	)

	root := &cobra.Command{
		Use:   "omnitutor file1.md [file2.md ...]",
		Short: "Generate a multi-lesson course from knowledge documents and chat about it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cfgPath, lessons, language, outputDir, noChat, args)
		},
	}
	root.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/omnitutor/config.yaml if not provided)")
	root.Flags().IntVar(&lessons, "lessons", 0, "Number of lessons to generate (overrides config)")
	root.Flags().StringVar(&language, "language", "", "Output language (overrides config)")
	root.Flags().StringVar(&outputDir, "output", "course", "Directory to write the outline and lesson scripts to")
	root.Flags().BoolVar(&noChat, "no-chat", false, "Skip the interactive QA chat after generation")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfgPath string, lessons int, language, outputDir string, noChat bool, inputs []string) error {
	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if lessons > 0 {
		cfg.Course.Lessons = lessons
	}
	if language != "" {
		cfg.Course.Language = language
	}
	if cfg.Course.Lessons < cfg.Course.MinLessons {
		cfg.Course.Lessons = cfg.Course.MinLessons
	}
	if cfg.Course.Lessons > cfg.Course.MaxLessons {
		cfg.Course.Lessons = cfg.Course.MaxLessons
	}

	session, err := assemble(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	log.Printf("loading %d documents", len(inputs))
	if err := session.LoadDocuments(inputs); err != nil {
		return err
	}
	for _, p := range session.Skipped() {
		log.Printf("skipped unreadable document: %s", p)
	}

	log.Printf("constructing vector index from provided materials")
	if err := session.BuildIndex(ctx); err != nil {
		return err
	}

	log.Printf("generating course outline (%d lessons, %s)", cfg.Course.Lessons, cfg.Course.Language)
	entries, err := session.GenerateOutline(ctx, cfg.Course.Lessons, cfg.Course.Language)
	if err != nil {
		return err
	}
	if len(entries) == 1 && entries[0].IsSentinel() {
		log.Printf("warning: outline response could not be parsed; continuing with degraded output")
	}
	for i, e := range entries {
		fmt.Printf("%d. %s\n   %s\n", i+1, e.Name, e.Abstract)
	}

	log.Printf("writing content for %d lessons", len(entries))
	scripts, err := session.GenerateLessons(ctx, entries, cfg.Course.Language)
	if err != nil {
		return err
	}
	if err := writeCourse(outputDir, entries, scripts); err != nil {
		return err
	}
	log.Printf("course written to %s", outputDir)

	if noChat {
		return nil
	}
	m := tui.New(session)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

// assemble wires the session components according to the config.
func assemble(cfg *config.AppConfig) (*course.Session, error) {
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var idx vectorindex.Index
	switch cfg.Index.Type {
	case "memory", "":
		idx = memory.NewIndex(emb)
	case "qdrant":
		if cfg.Index.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		idx = qdrant.NewIndex(emb, qdrant.Config{
			URL:        cfg.Index.Qdrant.URL,
			APIKey:     cfg.Index.Qdrant.APIKey,
			Collection: cfg.Index.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Index.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown index: %s", cfg.Index.Type)
	}

	completer, err := llmopenai.NewClient(llmopenai.Config{
		BaseURL:     cfg.Completion.BaseURL,
		APIKeyEnv:   cfg.Completion.APIKeyEnv,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		Timeout:     time.Duration(cfg.Completion.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("completion client init: %w", err)
	}

	return course.NewSession(course.Deps{
		Chunker:    chunker.NewFixedChunker(cfg.Chunker.Size),
		Summarizer: summarizer.NewKeywordSummarizer(cfg.Summarizer.TopKeywords),
		Index:      idx,
		Retriever:  retriever.New(idx),
		LLM:        completer,
		GenOpts:    llm.Options{Model: cfg.Completion.Model, Temperature: &cfg.Completion.Temperature},
		ChatOpts:   llm.Options{Model: cfg.Completion.ChatModel, Temperature: &cfg.Completion.Temperature},
		Lessons: course.LessonConfig{
			Workers:           cfg.Course.Workers,
			RequestsPerSecond: cfg.Course.RequestsPerSecond,
		},
	}), nil
}

func writeCourse(dir string, entries []domain.OutlineEntry, scripts []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var outline string
	for i, e := range entries {
		outline += fmt.Sprintf("%d. %s\n%s\n\n", i+1, e.Name, e.Abstract)
	}
	if err := os.WriteFile(filepath.Join(dir, "outline.md"), []byte(outline), 0o644); err != nil {
		return err
	}
	for i, script := range scripts {
		name := fmt.Sprintf("lesson-%02d.md", i+1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o644); err != nil {
			return err
		}
	}
	return nil
}
