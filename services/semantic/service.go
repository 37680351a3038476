package semantic

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const indexNamespace = "vocabtutor-words"

// Service looks up tracked words by meaning rather than spelling, backed by
// a Pinecone index of word embeddings built by the indexwords tool.
type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
}

type RelatedWord struct {
	Word            string  `json:"word"`
	ExampleSentence string  `json:"example_sentence,omitempty"`
	Score           float32 `json:"score"`
}

func NewService(apiKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing semantic word index")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	service := &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
	}

	log.Printf("[INFO] Semantic word index initialized successfully")
	return service, nil
}

// QueryRelatedWords returns tracked words semantically closest to the given
// word, best match first. The word itself is excluded from the results.
func (s *Service) QueryRelatedWords(ctx context.Context, word string, limit int) ([]RelatedWord, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}
	if limit <= 0 {
		limit = 5
	}

	log.Printf("[INFO] Querying related words for %q with limit %d", word, limit)

	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: indexNamespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	queryEmbeddings, err := s.embedder.EmbedDocuments(ctx, []string{word})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding for %q: %w", word, err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryEmbeddings[0],
		TopK:            uint32(limit + 1),
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors for %q: %w", word, err)
	}

	var related []RelatedWord
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()

		matchWord, _ := metadata["word"].(string)
		if matchWord == "" || matchWord == word {
			continue
		}

		entry := RelatedWord{Word: matchWord, Score: match.Score}
		if example, ok := metadata["example_sentence"].(string); ok {
			entry.ExampleSentence = example
		}
		related = append(related, entry)

		if len(related) == limit {
			break
		}
	}

	log.Printf("[INFO] Found %d related words for %q", len(related), word)

	return related, nil
}
