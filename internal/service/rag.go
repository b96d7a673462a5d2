package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/tablerag/internal/db"
	"github.com/raphaelgruber/tablerag/internal/llm"
	"github.com/raphaelgruber/tablerag/internal/metrics"
	"github.com/raphaelgruber/tablerag/internal/models"
	"github.com/raphaelgruber/tablerag/internal/prompt"
)

// ErrContextOverflow indicates a rendered prompt exceeds the chat
// model's context window even with every context row dropped.
var ErrContextOverflow = errors.New("prompt exceeds model context window")

// RAG answers queries by retrieving a job's most relevant rows and
// conditioning a chat completion on them.
type RAG struct {
	db       *db.Client
	searcher *Searcher
	chats    ChatFactory
	log      *slog.Logger
	metrics  *metrics.Collector
}

// NewRAG creates the RAG orchestrator.
func NewRAG(dbClient *db.Client, searcher *Searcher, chats ChatFactory, log *slog.Logger, collector *metrics.Collector) *RAG {
	if log == nil {
		log = slog.Default()
	}
	return &RAG{db: dbClient, searcher: searcher, chats: chats, log: log, metrics: collector}
}

// RAGRequest parameterizes one retrieval-augmented completion.
type RAGRequest struct {
	AgentName  string
	Query      string
	ChatModel  string
	Task       string
	APIKey     string
	NumContext int
	// ForceTrim drops context rows, lowest ranked first, until the
	// rendered prompt fits the chat model's context window. When false,
	// oversized prompts pass through and any provider error surfaces
	// as-is.
	ForceTrim bool
}

// Ask runs the full flow: search, render, optional trim, complete.
// Failure at any stage aborts without persisted side effects.
func (r *RAG) Ask(ctx context.Context, req RAGRequest) (*models.ChatResponse, error) {
	chatModel, err := models.ParseModel(req.ChatModel)
	if err != nil {
		return nil, err
	}

	// Searching
	job, err := r.db.GetJob(ctx, req.AgentName)
	if err != nil {
		return nil, err
	}
	results, err := r.searcher.Search(ctx, SearchRequest{
		JobName:    req.AgentName,
		Query:      req.Query,
		APIKey:     req.APIKey,
		NumResults: req.NumContext,
	})
	if err != nil {
		return nil, err
	}
	contextRows := contextTexts(job, results)

	// Rendering
	rendered, err := prompt.Render(req.Task, contextRows, req.Query)
	if err != nil {
		return nil, err
	}

	// Trimming
	if req.ForceTrim {
		window := llm.ContextWindow(chatModel)
		for llm.EstimatePromptTokens(rendered) > window {
			if len(contextRows) == 0 {
				return nil, fmt.Errorf("%w: %d tokens estimated for %s with no context rows left",
					ErrContextOverflow, llm.EstimatePromptTokens(rendered), chatModel)
			}
			contextRows = contextRows[:len(contextRows)-1]
			if rendered, err = prompt.Render(req.Task, contextRows, req.Query); err != nil {
				return nil, err
			}
		}
		if len(contextRows) < len(results) {
			r.log.Info("trimmed rag context to fit window",
				"agent", req.AgentName, "kept", len(contextRows), "retrieved", len(results))
		}
	}

	// Completing
	chat, err := r.chats(chatModel, req.APIKey)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := chat.CallChatCompletions(ctx, rendered)
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		var in, out int64
		if resp.Usage != nil {
			in, out = int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens)
		}
		r.metrics.RecordChatUsage(time.Since(start), in, out)
	}

	resp.Context = contextRows
	return resp, nil
}

// Generate is the single-shot completion path with no retrieval.
func (r *RAG) Generate(ctx context.Context, input, chatModel, apiKey string) (*models.ChatResponse, error) {
	model, err := models.ParseModel(chatModel)
	if err != nil {
		return nil, err
	}
	chat, err := r.chats(model, apiKey)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := chat.CallChatCompletions(ctx, models.RenderedPrompt{UserRendered: input})
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		var in, out int64
		if resp.Usage != nil {
			in, out = int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens)
		}
		r.metrics.RecordChatUsage(time.Since(start), in, out)
	}
	return resp, nil
}

// contextTexts extracts the prompt context from ranked results: each
// row's job columns, in registered column order, joined per row.
func contextTexts(job *models.Job, results []models.SearchResult) []string {
	texts := make([]string, 0, len(results))
	for _, res := range results {
		var parts []string
		for _, col := range job.Columns {
			if v, ok := res.Columns[col]; ok && v != nil {
				parts = append(parts, fmt.Sprint(v))
			}
		}
		if len(parts) > 0 {
			texts = append(texts, strings.Join(parts, "\n"))
		}
	}
	return texts
}
