package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"vocabtutor/config"
	"vocabtutor/db"
	"vocabtutor/models"
	"vocabtutor/services"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"
)

// indexNamespace must match the namespace the semantic service queries.
const indexNamespace = "vocabtutor-words"

func main() {
	log.Printf("[INFO] Starting word indexing process")

	cfg := config.Load()

	if cfg.PineconeAPIKey == "" {
		log.Fatal("[ERROR] PINECONE_API_KEY environment variable is required")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("[ERROR] OPENAI_API_KEY environment variable is required")
	}

	repo, closeRepo := buildWordRepo(cfg)
	defer closeRepo()

	wordService := services.NewWordService(repo)

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(cfg.OpenAIAPIKey),
	)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create OpenAI client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create embedder: %v", err)
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.PineconeAPIKey,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to create Pinecone client: %v", err)
	}

	if err := ensurePineconeIndex(pc, cfg.PineconeIndexName); err != nil {
		log.Fatalf("[ERROR] Failed to ensure Pinecone index: %v", err)
	}

	words, err := wordService.GetAllWords()
	if err != nil {
		log.Fatalf("[ERROR] Failed to retrieve words: %v", err)
	}

	if len(words) == 0 {
		log.Printf("[INFO] No words to index")
		return
	}

	log.Printf("[INFO] Retrieved %d words from store", len(words))

	vectors, err := createVectors(words, embedder)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create vectors: %v", err)
	}

	if err := upsertVectors(pc, cfg.PineconeIndexName, vectors); err != nil {
		log.Fatalf("[ERROR] Failed to upsert vectors: %v", err)
	}

	log.Printf("[INFO] Word indexing process completed successfully")
}

func buildWordRepo(cfg *config.Config) (db.WordRepository, func()) {
	switch cfg.StoreBackend {
	case "csv":
		repo, err := db.NewCSVWordRepository(cfg.StorePath, cfg.VocabPath)
		if err != nil {
			log.Fatalf("[ERROR] Failed to initialize word store: %v", err)
		}
		return repo, func() {}

	case "postgres":
		if cfg.DatabaseURL == "" {
			log.Fatal("[ERROR] DB_URL environment variable is required for the postgres backend")
		}
		repo, err := db.NewPostgresWordRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[ERROR] Failed to initialize word database: %v", err)
		}
		return repo, func() { repo.Close() }

	default:
		log.Fatalf("[ERROR] STORE_BACKEND %q has no words to index", cfg.StoreBackend)
		return nil, nil
	}
}

func ensurePineconeIndex(pc *pinecone.Client, indexName string) error {
	ctx := context.Background()

	indexes, err := pc.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == indexName {
			log.Printf("[INFO] Index %s already exists", indexName)
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", indexName)
	dimension := int32(1536) // OpenAI ada-002 embedding dimension
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"environment": "development", "project": "vocabtutor-indexing"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := pc.DescribeIndex(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", indexName)
			break
		}
		log.Printf("[INFO] Waiting for index %s to be ready...", indexName)
		time.Sleep(10 * time.Second)
	}

	return nil
}

func createVectors(words []*models.WordRecord, embedder embeddings.Embedder) ([]*pinecone.Vector, error) {
	ctx := context.Background()

	var texts []string
	for _, word := range words {
		texts = append(texts, embeddingText(word))
	}

	vectorValues, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	var vectors []*pinecone.Vector
	for i, word := range words {
		metadata := map[string]any{
			"word":             word.Word,
			"part_of_speech":   word.PartOfSpeech,
			"example_sentence": word.ExampleSentence,
			"difficulty_level": word.DifficultyLevel,
			"indexed_at":       time.Now().Format(time.RFC3339),
		}

		metadataStruct, err := structpb.NewStruct(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata struct for %q: %w", word.Word, err)
		}

		vectors = append(vectors, &pinecone.Vector{
			Id:       word.Word,
			Values:   &vectorValues[i],
			Metadata: metadataStruct,
		})
	}

	return vectors, nil
}

// embeddingText combines the word with its part of speech and example
// sentence so neighbors reflect meaning in context, not just spelling.
func embeddingText(word *models.WordRecord) string {
	text := word.Word
	if word.PartOfSpeech != "" {
		text = fmt.Sprintf("%s (%s)", text, word.PartOfSpeech)
	}
	if word.ExampleSentence != "" {
		text = fmt.Sprintf("%s: %s", text, word.ExampleSentence)
	}
	return text
}

func upsertVectors(pc *pinecone.Client, indexName string, vectors []*pinecone.Vector) error {
	ctx := context.Background()

	idxDesc, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: indexNamespace,
	})
	if err != nil {
		return fmt.Errorf("failed to create index connection: %w", err)
	}

	batchSize := 10
	for i := 0; i < len(vectors); i += batchSize {
		end := i + batchSize
		if end > len(vectors) {
			end = len(vectors)
		}

		count, err := idxConn.UpsertVectors(ctx, vectors[i:end])
		if err != nil {
			return fmt.Errorf("failed to upsert vector batch: %w", err)
		}
		log.Printf("[INFO] Successfully upserted %d vectors (batch %d)", count, i/batchSize+1)
	}

	return nil
}
