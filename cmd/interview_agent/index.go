package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or rebuild the context index for a resume and job description",
	Long:  "Chunks the resume and job description, embeds the chunks, and saves the retrieval index to disk. With --query, runs a similarity search against the built index and prints the matches.",
	RunE:  runIndexCmd,
}

var (
	indexResume       string
	indexJob          string
	indexPath         string
	indexForceRebuild bool
	indexChunkSize    int
	indexChunkOverlap int
	indexQuery        string
	indexTopK         int
	indexAPIKey       string
)

func init() {
	indexCmd.Flags().StringVarP(&indexResume, "resume", "r", "", "Path to candidate resume (required)")
	indexCmd.Flags().StringVarP(&indexJob, "job", "j", "", "Path to job description text file (required)")
	indexCmd.Flags().StringVar(&indexPath, "index-path", "", "Where to save the index (required)")
	indexCmd.Flags().BoolVar(&indexForceRebuild, "force-rebuild", false, "Rebuild even if a saved index exists at --index-path")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "Document chunk size in characters")
	indexCmd.Flags().IntVar(&indexChunkOverlap, "chunk-overlap", 0, "Overlap between consecutive chunks")
	indexCmd.Flags().StringVar(&indexQuery, "query", "", "Run a similarity search against the index and print matches")
	indexCmd.Flags().IntVar(&indexTopK, "top-k", 3, "Number of matches to return for --query")
	indexCmd.Flags().StringVar(&indexAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	if err := indexCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := indexCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := indexCmd.MarkFlagRequired("index-path"); err != nil {
		panic(fmt.Sprintf("failed to mark index-path flag as required: %v", err))
	}

	rootCmd.AddCommand(indexCmd)
}

func runIndexCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := indexAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	client, err := llm.NewGeminiClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	opts := session.DefaultOptions()
	if indexChunkSize > 0 {
		opts.ChunkSize = indexChunkSize
	}
	if indexChunkOverlap > 0 {
		opts.ChunkOverlap = indexChunkOverlap
	}
	opts.IndexPath = indexPath
	opts.ForceRebuild = indexForceRebuild

	wf, err := session.NewWorkflow(client, client, opts)
	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	docs, err := ingestion.LoadDocuments(indexResume, indexJob)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	idx, err := wf.BuildIndex(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Index ready with %d chunks\n", idx.Len())
	fmt.Fprintf(os.Stdout, "Index saved to: %s\n", indexPath)

	if indexQuery != "" {
		results, err := idx.Query(ctx, indexQuery, indexTopK)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		fmt.Fprintf(os.Stdout, "\nFound %d relevant chunks:\n", len(results))
		for i, result := range results {
			content := result.Content
			if len(content) > 200 {
				content = content[:200] + "..."
			}
			fmt.Fprintf(os.Stdout, "\n%d. Score: %.3f\n", i+1, result.Score)
			fmt.Fprintf(os.Stdout, "Content: %s\n", content)
			fmt.Fprintf(os.Stdout, "Source: %s\n", result.Source)
		}
	}

	return nil
}
