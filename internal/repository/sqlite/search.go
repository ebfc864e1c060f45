package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.SearchRepository
var _ repository.SearchRepository = (*DB)(nil)

// SearchContent runs a case-insensitive substring search over project
// titles/descriptions, task titles/descriptions and note contents,
// restricted to the supplied project IDs.
//
// The caller (SearchService) is responsible for only passing IDs the
// requesting user may access — this method does no access checking.
//
// LIKE with a lower-cased pattern is the whole search engine here. The
// dataset is one user's projects, so an index-backed full-text search
// (FTS5) would be overkill; revisit if content grows past that.
func (db *DB) SearchContent(ctx context.Context, projectIDs []string, query string, limit int) ([]model.SearchResult, error) {
	if len(projectIDs) == 0 || query == "" {
		return []model.SearchResult{}, nil
	}

	// Escape LIKE wildcards in the user's query, then wrap it.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	pattern := "%" + escaped + "%"

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(projectIDs)), ",")
	ids := make([]any, len(projectIDs))
	for i, id := range projectIDs {
		ids[i] = id
	}

	// One UNION over the three content types keeps this a single round
	// trip. Each branch yields the same result shape.
	sqlQuery := fmt.Sprintf(`
		SELECT * FROM (
			SELECT 'project' AS entity_type, id AS entity_id, id AS project_id,
			       title, substr(description, 1, 120) AS snippet, created_at
			FROM projects
			WHERE id IN (%[1]s)
			  AND (lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')
			UNION ALL
			SELECT 'task', id, project_id, title, substr(description, 1, 120), created_at
			FROM tasks
			WHERE project_id IN (%[1]s)
			  AND (lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\')
			UNION ALL
			SELECT 'note', id, project_id, substr(content, 1, 60), substr(content, 1, 120), created_at
			FROM project_notes
			WHERE project_id IN (%[1]s)
			  AND lower(content) LIKE ? ESCAPE '\'
		)
		ORDER BY created_at DESC
		LIMIT ?`, placeholders)

	args := []any{}
	args = append(args, ids...)
	args = append(args, pattern, pattern)
	args = append(args, ids...)
	args = append(args, pattern, pattern)
	args = append(args, ids...)
	args = append(args, pattern)
	args = append(args, limit)

	rows, err := db.q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching content: %w", err)
	}
	defer rows.Close()

	results := []model.SearchResult{}
	for rows.Next() {
		var r model.SearchResult
		if err := rows.Scan(&r.EntityType, &r.EntityID, &r.ProjectID, &r.Title, &r.Snippet, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning search result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating search results: %w", err)
	}
	return results, nil
}
