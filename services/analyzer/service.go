package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"vocabtutor/models"
	"vocabtutor/services"
)

// Service extracts tracked-word usages from a conversation transcript and
// feeds them to the exposure queue. Detection runs through an LLM so
// inflected forms and in-context correctness judgements come for free;
// resolution back to a tracked word happens locally.
type Service struct {
	llm   *openai.LLM
	words *services.WordService
	queue *services.ExposureQueue
}

func NewService(openAIKey string, words *services.WordService, queue *services.ExposureQueue) *Service {
	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openAIKey),
	)
	if err != nil {
		panic(err)
	}

	return &Service{llm: llm, words: words, queue: queue}
}

type reportedUsage struct {
	Word          string `json:"word"`
	Speaker       string `json:"speaker"`
	UsedCorrectly bool   `json:"used_correctly"`
	Quality       *int   `json:"quality,omitempty"`
}

func (s *Service) AnalyzeTranscript(ctx context.Context, req models.TranscriptRequest) (*models.TranscriptReport, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	tracked, err := s.words.GetAllWords()
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked words: %w", err)
	}

	report := &models.TranscriptReport{SessionID: sessionID}
	if len(tracked) == 0 {
		return report, nil
	}

	log.Printf("[INFO] Analyzing transcript %s with %d messages against %d tracked words", sessionID, len(req.Messages), len(tracked))

	usages, err := s.detectUsages(ctx, req.Messages, tracked)
	if err != nil {
		return nil, err
	}

	for _, usage := range usages {
		speaker := models.Speaker(usage.Speaker)
		if !speaker.Valid() {
			log.Printf("[WARN] Analyzer reported unknown speaker %q for %q, skipping", usage.Speaker, usage.Word)
			continue
		}

		record, found := resolveWord(usage.Word, tracked)
		if !found {
			report.Unresolved = append(report.Unresolved, usage.Word)
			continue
		}

		detected := models.WordUsage{
			Word:          record.Word,
			Speaker:       speaker,
			UsedCorrectly: usage.UsedCorrectly,
			Quality:       usage.Quality,
		}
		if usage.Word != record.Word {
			detected.FoundForm = usage.Word
		}
		report.Detected = append(report.Detected, detected)

		if s.queue.Enqueue(models.Exposure{
			Word:          record.Word,
			UsedCorrectly: usage.UsedCorrectly,
			Speaker:       speaker,
			Quality:       usage.Quality,
			SessionID:     sessionID,
		}) {
			report.Queued++
		}
	}

	log.Printf("[INFO] Transcript %s: %d usages detected, %d queued, %d unresolved", sessionID, len(report.Detected), report.Queued, len(report.Unresolved))

	return report, nil
}

func (s *Service) detectUsages(ctx context.Context, messages []models.Message, tracked []*models.WordRecord) ([]reportedUsage, error) {
	wordList := make([]string, 0, len(tracked))
	for _, record := range tracked {
		wordList = append(wordList, record.Word)
	}

	history := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(ANALYZE_TRANSCRIPT_PROMPT, strings.Join(wordList, ", "))),
		llms.TextParts(llms.ChatMessageTypeHuman, formatTranscript(messages)),
	}

	resp, err := s.llm.GenerateContent(ctx, history,
		llms.WithTools(analyzeTranscriptTools),
		llms.WithTemperature(0.1),
		llms.WithToolChoice("required"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze transcript: %w", err)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return nil, fmt.Errorf("analyzer returned no tool call")
	}

	toolCall := resp.Choices[0].ToolCalls[0]
	if toolCall.FunctionCall.Name != reportToolName {
		return nil, fmt.Errorf("analyzer called unexpected tool %q", toolCall.FunctionCall.Name)
	}

	var payload struct {
		Usages []reportedUsage `json:"usages"`
	}
	if err := json.Unmarshal([]byte(toolCall.FunctionCall.Arguments), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analyzer response: %w", err)
	}

	return payload.Usages, nil
}

func formatTranscript(messages []models.Message) string {
	var b strings.Builder
	for _, message := range messages {
		role := message.Role
		switch role {
		case "user":
			role = "learner"
		case "assistant":
			role = "tutor"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, message.Content)
	}

	return b.String()
}
