package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// Search result bound.
const maxSearchResults = 50

// SearchService runs cross-content search scoped to what the caller
// may see: their own projects plus accepted shares. The scoping happens
// HERE, before the query — the repository never sees a project ID the
// caller can't access.
type SearchService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(store repository.Store, logger *slog.Logger) *SearchService {
	return &SearchService{store: store, logger: logger}
}

// Search finds projects, tasks and notes matching query across every
// project visible to the caller. An empty query returns no results
// rather than everything.
func (s *SearchService) Search(ctx context.Context, userID, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, nil
	}

	owned, err := s.store.ListProjectsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing owned projects for search: %w", err)
	}
	shared, err := s.store.ListProjectsSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing shared projects for search: %w", err)
	}

	projectIDs := make([]string, 0, len(owned)+len(shared))
	for _, p := range owned {
		projectIDs = append(projectIDs, p.ID)
	}
	for _, p := range shared {
		projectIDs = append(projectIDs, p.ID)
	}
	if len(projectIDs) == 0 {
		return []model.SearchResult{}, nil
	}

	results, err := s.store.SearchContent(ctx, projectIDs, query, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("searching content: %w", err)
	}
	return results, nil
}
