package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/llm"
	"docchat/internal/service"
	"docchat/internal/summarizer"
	"docchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docchat [--config=config.yaml] file1.txt [file2.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	ch, err := chunker.NewWordChunker(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		log.Fatalf("invalid chunking config: %v", err)
	}

	generator := llm.NewGenerator(llm.Config{
		BaseURL:         cfg.LLM.BaseURL,
		APIKey:          os.Getenv(cfg.LLM.APIKeyEnv),
		Model:           cfg.LLM.Model,
		Timeout:         time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		HistoryWindow:   cfg.LLM.HistoryWindow,
		MaxContextChars: cfg.LLM.MaxContextChars,
	})

	svc := service.NewService(ch, generator, summarizer.NewFrequencySummarizer(),
		cfg.Search.TopK, cfg.Search.MinScore, cfg.Summary.MaxSentences)

	sources, err := service.LoadSources(inputs)
	if err != nil {
		log.Fatalf("load documents: %v", err)
	}
	result, err := svc.Process(sources)
	if err != nil {
		log.Fatalf("process documents: %v", err)
	}
	for _, name := range result.EmptySources {
		log.Printf("skipped %s: no readable text", name)
	}

	m := tui.New(svc, fmt.Sprintf("Indexed %d chunk(s). %s", len(result.Chunks), result.Summary))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
