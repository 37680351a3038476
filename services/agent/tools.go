package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vocabtutor/models"
	"vocabtutor/services"
	"vocabtutor/services/semantic"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// AgentTool interface that all tools must implement
type AgentTool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
	GetAnthropicToolSpec() anthropic.ToolInputSchemaParam
}

func generateAnthropicSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)

	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

type IntroduceWordsToolInput struct {
	Count int `json:"count" jsonschema:"required,minimum=1,description=How many new words to introduce"`
}

type IntroduceWordsTool struct {
	learningService *services.LearningService
}

func NewIntroduceWordsTool(learningService *services.LearningService) IntroduceWordsTool {
	return IntroduceWordsTool{learningService: learningService}
}

func (i IntroduceWordsTool) Name() string {
	return "introduce_words"
}

func (i IntroduceWordsTool) Description() string {
	return "Picks new vocabulary words the learner has never practiced, with part of speech and an example sentence for presenting each one"
}

func (i IntroduceWordsTool) Call(ctx context.Context, input string) (string, error) {
	var params IntroduceWordsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse introduce words tool input: %v", err)
	}

	result, err := i.learningService.IntroduceWords(params.Count)
	if err != nil {
		return "", fmt.Errorf("failed to introduce words: %v", err)
	}

	if result.NoneAvailable {
		return "No new words are available - every tracked word has already been introduced", nil
	}

	resultJSON, err := json.Marshal(result.Words)
	if err != nil {
		return "", fmt.Errorf("failed to marshal introduced words: %v", err)
	}

	return string(resultJSON), nil
}

func (i IntroduceWordsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[IntroduceWordsToolInput]()
}

type GetReviewWordsToolInput struct {
	Count int `json:"count" jsonschema:"required,minimum=1,description=Maximum number of review words to fetch"`
}

type GetReviewWordsTool struct {
	learningService *services.LearningService
}

func NewGetReviewWordsTool(learningService *services.LearningService) GetReviewWordsTool {
	return GetReviewWordsTool{learningService: learningService}
}

func (g GetReviewWordsTool) Name() string {
	return "get_review_words"
}

func (g GetReviewWordsTool) Description() string {
	return "Fetches the words most in need of practice right now, most urgent first"
}

func (g GetReviewWordsTool) Call(ctx context.Context, input string) (string, error) {
	var params GetReviewWordsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get review words tool input: %v", err)
	}

	result, err := g.learningService.GetReviewWords(params.Count)
	if err != nil {
		return "", fmt.Errorf("failed to get review words: %v", err)
	}

	if result.NoneAvailable {
		return "Nothing to review yet - no words have been introduced to the learner", nil
	}

	type ReviewWordPreview struct {
		Word            string  `json:"word"`
		PartOfSpeech    string  `json:"part_of_speech,omitempty"`
		ExampleSentence string  `json:"example_sentence,omitempty"`
		TimesUsed       int     `json:"times_used"`
		Accuracy        float64 `json:"accuracy"`
		NextDue         string  `json:"next_due,omitempty"`
		Overdue         bool    `json:"overdue"`
	}

	now := time.Now()
	var previews []ReviewWordPreview
	for _, word := range result.Words {
		preview := ReviewWordPreview{
			Word:            word.Word,
			PartOfSpeech:    word.PartOfSpeech,
			ExampleSentence: word.ExampleSentence,
			TimesUsed:       word.TotalUses,
			Accuracy:        word.Accuracy(),
			Overdue:         word.Overdue(now),
		}
		if !word.NextDue.IsZero() {
			preview.NextDue = word.NextDue.Format(time.RFC3339)
		}
		previews = append(previews, preview)
	}

	resultJSON, err := json.Marshal(previews)
	if err != nil {
		return "", fmt.Errorf("failed to marshal review words: %v", err)
	}

	return string(resultJSON), nil
}

func (g GetReviewWordsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetReviewWordsToolInput]()
}

type RecordWordUsageToolInput struct {
	Word          string `json:"word" jsonschema:"required,description=The tracked word that was used"`
	Speaker       string `json:"speaker" jsonschema:"required,enum=learner,enum=tutor,description=Who used the word"`
	UsedCorrectly bool   `json:"used_correctly" jsonschema:"required,description=Whether the word was used correctly in context"`
	Quality       *int   `json:"quality,omitempty" jsonschema:"minimum=0,maximum=5,description=Recall quality 0-5 for learner uses, omit for tutor uses"`
}

type RecordWordUsageTool struct {
	learningService *services.LearningService
}

func NewRecordWordUsageTool(learningService *services.LearningService) RecordWordUsageTool {
	return RecordWordUsageTool{learningService: learningService}
}

func (r RecordWordUsageTool) Name() string {
	return "record_word_usage"
}

func (r RecordWordUsageTool) Description() string {
	return "Records one observed use of a tracked word and updates its review schedule, call once per use"
}

func (r RecordWordUsageTool) Call(ctx context.Context, input string) (string, error) {
	var params RecordWordUsageToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse record word usage tool input: %v", err)
	}

	word, err := r.learningService.RecordExposure(models.Exposure{
		Word:          params.Word,
		UsedCorrectly: params.UsedCorrectly,
		Speaker:       models.Speaker(params.Speaker),
		Quality:       params.Quality,
	})
	if err != nil {
		return "", fmt.Errorf("failed to record word usage: %v", err)
	}

	type UsageResult struct {
		Word         string  `json:"word"`
		TimesUsed    int     `json:"times_used"`
		Accuracy     float64 `json:"accuracy"`
		Repetitions  int     `json:"repetitions"`
		IntervalDays int     `json:"interval_days"`
		NextDue      string  `json:"next_due"`
	}

	usageResult := UsageResult{
		Word:         word.Word,
		TimesUsed:    word.TotalUses,
		Accuracy:     word.Accuracy(),
		Repetitions:  word.Repetitions,
		IntervalDays: word.Interval,
		NextDue:      word.NextDue.Format(time.RFC3339),
	}

	resultJSON, err := json.Marshal(usageResult)
	if err != nil {
		return "", fmt.Errorf("failed to marshal usage result: %v", err)
	}

	return string(resultJSON), nil
}

func (r RecordWordUsageTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[RecordWordUsageToolInput]()
}

type SearchWordsToolInput struct {
	Term string `json:"term,omitempty" jsonschema:"description=Substring to match against the word or its part of speech, empty lists every tracked word"`
}

type SearchWordsTool struct {
	wordService *services.WordService
}

func NewSearchWordsTool(wordService *services.WordService) SearchWordsTool {
	return SearchWordsTool{wordService: wordService}
}

func (s SearchWordsTool) Name() string {
	return "search_words"
}

func (s SearchWordsTool) Description() string {
	return "Searches the tracked word list by text or part of speech, with usage counts for each match"
}

func (s SearchWordsTool) Call(ctx context.Context, input string) (string, error) {
	var params SearchWordsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse search words tool input: %v", err)
	}

	words, err := s.wordService.SearchWords(params.Term)
	if err != nil {
		return "", fmt.Errorf("failed to search words: %v", err)
	}

	type WordPreview struct {
		Word         string `json:"word"`
		PartOfSpeech string `json:"part_of_speech,omitempty"`
		Introduced   bool   `json:"introduced"`
		TimesUsed    int    `json:"times_used"`
	}

	var previews []WordPreview
	for _, word := range words {
		previews = append(previews, WordPreview{
			Word:         word.Word,
			PartOfSpeech: word.PartOfSpeech,
			Introduced:   word.Introduced(),
			TimesUsed:    word.TotalUses,
		})
	}

	resultJSON, err := json.Marshal(previews)
	if err != nil {
		return "", fmt.Errorf("failed to marshal word previews: %v", err)
	}

	return string(resultJSON), nil
}

func (s SearchWordsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[SearchWordsToolInput]()
}

type GetWordStatsToolInput struct {
	Word string `json:"word" jsonschema:"required,description=The tracked word to fetch full statistics for"`
}

type GetWordStatsTool struct {
	wordService *services.WordService
}

func NewGetWordStatsTool(wordService *services.WordService) GetWordStatsTool {
	return GetWordStatsTool{wordService: wordService}
}

func (g GetWordStatsTool) Name() string {
	return "get_word_stats"
}

func (g GetWordStatsTool) Description() string {
	return "Retrieves full usage counters and schedule state for one tracked word"
}

func (g GetWordStatsTool) Call(ctx context.Context, input string) (string, error) {
	var params GetWordStatsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get word stats tool input: %v", err)
	}

	word, err := g.wordService.GetWordByText(params.Word)
	if err != nil {
		return "", fmt.Errorf("failed to get word stats: %v", err)
	}

	resultJSON, err := json.Marshal(word)
	if err != nil {
		return "", fmt.Errorf("failed to marshal word stats: %v", err)
	}

	return string(resultJSON), nil
}

func (g GetWordStatsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetWordStatsToolInput]()
}

type FindRelatedWordsToolInput struct {
	Word  string `json:"word" jsonschema:"required,description=The word to find semantically related tracked words for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum number of related words to return (default: 5)"`
}

type FindRelatedWordsTool struct {
	semanticService *semantic.Service
}

func NewFindRelatedWordsTool(semanticService *semantic.Service) FindRelatedWordsTool {
	return FindRelatedWordsTool{semanticService: semanticService}
}

func (f FindRelatedWordsTool) Name() string {
	return "find_related_words"
}

func (f FindRelatedWordsTool) Description() string {
	return "Finds tracked words semantically close to a given word, useful for weaving related vocabulary into one conversation"
}

func (f FindRelatedWordsTool) Call(ctx context.Context, input string) (string, error) {
	var params FindRelatedWordsToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse find related words tool input: %v", err)
	}

	related, err := f.semanticService.QueryRelatedWords(ctx, params.Word, params.Limit)
	if err != nil {
		return "", fmt.Errorf("failed to find related words: %v", err)
	}

	if len(related) == 0 {
		return "No related words found in the tracked list", nil
	}

	resultJSON, err := json.Marshal(related)
	if err != nil {
		return "", fmt.Errorf("failed to marshal related words: %v", err)
	}

	return string(resultJSON), nil
}

func (f FindRelatedWordsTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[FindRelatedWordsToolInput]()
}

type GetMemoryToolInput struct{}

type GetMemoryTool struct {
	memoryService *services.MemoryService
}

func NewGetMemoryTool(memoryService *services.MemoryService) GetMemoryTool {
	return GetMemoryTool{memoryService: memoryService}
}

func (g GetMemoryTool) Name() string {
	return "get_memory"
}

func (g GetMemoryTool) Description() string {
	return "Retrieves the tutor's long-term notes about the learner"
}

func (g GetMemoryTool) Call(ctx context.Context, input string) (string, error) {
	var params GetMemoryToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get memory tool input: %v", err)
	}

	memory, err := g.memoryService.GetMemory()
	if err != nil {
		return "", fmt.Errorf("failed to get memory: %v", err)
	}

	if memory.MemoryContent == "" {
		return "(empty)", nil
	}

	return memory.MemoryContent, nil
}

func (g GetMemoryTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetMemoryToolInput]()
}

type UpdateMemoryToolInput struct {
	Content string `json:"content" jsonschema:"required,description=The new memory content to store"`
}

type UpdateMemoryTool struct {
	memoryService *services.MemoryService
}

func NewUpdateMemoryTool(memoryService *services.MemoryService) UpdateMemoryTool {
	return UpdateMemoryTool{memoryService: memoryService}
}

func (u UpdateMemoryTool) Name() string {
	return "update_memory"
}

func (u UpdateMemoryTool) Description() string {
	return "Replaces the tutor's long-term notes about the learner with new content"
}

func (u UpdateMemoryTool) Call(ctx context.Context, input string) (string, error) {
	var params UpdateMemoryToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse update memory tool input: %v", err)
	}

	if err := u.memoryService.UpdateMemory(params.Content); err != nil {
		return "", fmt.Errorf("failed to update memory: %v", err)
	}

	return "Memory updated successfully", nil
}

func (u UpdateMemoryTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[UpdateMemoryToolInput]()
}

type GetCurrentTimeToolInput struct{}

type GetCurrentTimeTool struct{}

func NewGetCurrentTimeTool() GetCurrentTimeTool {
	return GetCurrentTimeTool{}
}

func (t GetCurrentTimeTool) Name() string {
	return "get_current_time"
}

func (t GetCurrentTimeTool) Description() string {
	return "Gets the current timestamp in ISO format"
}

func (t GetCurrentTimeTool) Call(ctx context.Context, input string) (string, error) {
	var params GetCurrentTimeToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse get current time tool input: %v", err)
	}

	return time.Now().Format(time.RFC3339), nil
}

func (t GetCurrentTimeTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[GetCurrentTimeToolInput]()
}
