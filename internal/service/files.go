package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docchat/internal/domain"
)

// LoadSources reads plain-text files (optionally via glob patterns) into
// sources for processing. Extraction from binary formats like PDF or DOCX
// is an upstream concern; only .txt files are accepted here.
func LoadSources(paths []string) ([]domain.Source, error) {
	var sources []domain.Source
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", m, err)
			}
			sources = append(sources, domain.Source{Name: filepath.Base(m), Text: string(data)})
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no .txt documents found")
	}
	return sources, nil
}
