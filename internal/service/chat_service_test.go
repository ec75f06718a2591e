package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/chunker"
	"docchat/internal/domain"
	"docchat/internal/llm"
	"docchat/internal/summarizer"
)

// recordingGenerator captures the inputs Ask forwards to the generator.
type recordingGenerator struct {
	lastQuestion string
	lastResults  []domain.SearchResult
	lastHistory  []domain.ConversationTurn
	reply        string
}

func (g *recordingGenerator) Answer(question string, results []domain.SearchResult, history []domain.ConversationTurn) domain.Answer {
	g.lastQuestion = question
	g.lastResults = results
	g.lastHistory = append([]domain.ConversationTurn(nil), history...)
	return domain.Answer{Text: g.reply, Mode: domain.ModeGenerated}
}

func newTestService(t *testing.T, g domain.Generator) *Service {
	t.Helper()
	c, err := chunker.NewWordChunker(5, 1)
	require.NoError(t, err)
	return NewService(c, g, summarizer.NewFrequencySummarizer(), 5, 0.05, 3)
}

func TestProcess_BuildsIndexAndSummary(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})

	result, err := svc.Process([]domain.Source{
		{Name: "energy.txt", Text: "Solar power output grew sharply. Wind power stayed flat. Solar is now the largest source."},
	})
	require.NoError(t, err)

	assert.True(t, svc.Ready())
	assert.NotEmpty(t, result.Chunks)
	assert.NotEmpty(t, result.Summary)
	assert.Empty(t, result.EmptySources)
	assert.Equal(t, result.Chunks, svc.Chunks())
}

func TestProcess_ReportsEmptySources(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})

	result, err := svc.Process([]domain.Source{
		{Name: "blank.txt", Text: "   "},
		{Name: "real.txt", Text: "actual words to index here"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"blank.txt"}, result.EmptySources)
}

func TestProcess_FailsWhenNothingReadable(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})

	_, err := svc.Process([]domain.Source{{Name: "blank.txt", Text: ""}})
	assert.Error(t, err)
	assert.False(t, svc.Ready())

	_, err = svc.Process(nil)
	assert.Error(t, err)
}

func TestProcess_ReplacesPreviousSession(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})

	_, err := svc.Process([]domain.Source{{Name: "old.txt", Text: "ancient forgotten topic"}})
	require.NoError(t, err)
	svc.Ask("ancient topic")
	require.NotEmpty(t, svc.History())

	_, err = svc.Process([]domain.Source{{Name: "new.txt", Text: "fresh different material entirely"}})
	require.NoError(t, err)

	assert.Empty(t, svc.History())
	assert.Empty(t, svc.Search("ancient forgotten"))
	assert.NotEmpty(t, svc.Search("fresh different material"))
}

func TestSearch_BeforeProcessReturnsNothing(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})
	assert.Empty(t, svc.Search("anything"))
	assert.False(t, svc.Ready())
}

func TestAsk_RecordsBothTurnsAndPassesPriorHistory(t *testing.T) {
	g := &recordingGenerator{reply: "first answer"}
	svc := newTestService(t, g)

	_, err := svc.Process([]domain.Source{{Name: "doc.txt", Text: "the cat sat on the mat"}})
	require.NoError(t, err)

	answer, results := svc.Ask("where did the cat sit?")
	assert.Equal(t, "first answer", answer.Text)
	assert.NotEmpty(t, results)
	assert.Empty(t, g.lastHistory, "first question should see no prior history")

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "where did the cat sit?", history[0].Text)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "first answer", history[1].Text)

	g.reply = "second answer"
	svc.Ask("and the dog?")
	require.Len(t, g.lastHistory, 2, "second question should see the first exchange")
	assert.Len(t, svc.History(), 4)
}

func TestAsk_EmptyIndexYieldsNoInformationAnswer(t *testing.T) {
	c, err := chunker.NewWordChunker(5, 1)
	require.NoError(t, err)
	svc := NewService(c, llm.NewGenerator(llm.Config{}), summarizer.NewFrequencySummarizer(), 5, 0.05, 3)

	answer, results := svc.Ask("anything at all")
	assert.Empty(t, results)
	assert.Equal(t, llm.NoInformationMessage, answer.Text)
	assert.Equal(t, domain.ModeFallback, answer.Mode)
}

func TestReset_ClearsHistoryKeepsIndex(t *testing.T) {
	svc := newTestService(t, &recordingGenerator{reply: "ok"})

	_, err := svc.Process([]domain.Source{{Name: "doc.txt", Text: "indexed text stays put"}})
	require.NoError(t, err)
	svc.Ask("a question")
	require.NotEmpty(t, svc.History())

	svc.Reset()

	assert.Empty(t, svc.History())
	assert.True(t, svc.Ready())
	assert.NotEmpty(t, svc.Search("indexed text"))
}

func TestLoadSources_ReadsOnlyTxtFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha content"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("ignored"), 0o644))

	sources, err := LoadSources([]string{filepath.Join(dir, "*")})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "a.txt", sources[0].Name)
	assert.Equal(t, "alpha content", sources[0].Text)
}

func TestLoadSources_FailsWhenNothingMatches(t *testing.T) {
	_, err := LoadSources([]string{filepath.Join(t.TempDir(), "*.txt")})
	assert.Error(t, err)
}
