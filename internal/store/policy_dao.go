package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hireloop/questgen/internal/types"
)

// CreatePolicy inserts a policy, replacing the name and content of an
// existing policy with the same id.
func (db *DB) CreatePolicy(ctx context.Context, p *Policy) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO policies (id, name, content) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, content = excluded.content`,
		p.ID, p.Name, p.Content,
	)
	if err != nil {
		return types.WrapError(types.STORE_QUERY_FAILED, "failed to insert policy", err)
	}
	return nil
}

// GetPolicy returns the policy with the given id.
func (db *DB) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, content, created_at FROM policies WHERE id = ?`, id)

	var p Policy
	err := row.Scan(&p.ID, &p.Name, &p.Content, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(types.POLICY_NOT_FOUND, fmt.Sprintf("no policy with id %q", id))
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to query policy", err)
	}
	return &p, nil
}

// ListPolicies returns all policies ordered by name.
func (db *DB) ListPolicies(ctx context.Context) ([]Policy, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, content, created_at FROM policies ORDER BY name`)
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to list policies", err)
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Content, &p.CreatedAt); err != nil {
			return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to scan policy", err)
		}
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to iterate policies", err)
	}
	return policies, nil
}

// PolicyLoader assembles policy text for prompts. It reads from the database
// and falls back to JSON policy files in Dir when the database holds none.
type PolicyLoader struct {
	DB  *DB
	Dir string
}

// LoadPolicies returns the concatenated text of all policies, or of the one
// policy named by policyID when non-empty. Each policy renders as a
// "**Policy: name**" header followed by its content, separated by blank
// lines, matching the prompt template's expectations.
func (l *PolicyLoader) LoadPolicies(ctx context.Context, policyID string) (string, error) {
	if policyID != "" {
		p, err := l.DB.GetPolicy(ctx, policyID)
		if err != nil {
			return "", err
		}
		return renderPolicies([]Policy{*p}), nil
	}

	policies, err := l.DB.ListPolicies(ctx)
	if err != nil {
		return "", err
	}

	if len(policies) == 0 && l.Dir != "" {
		policies, err = loadPolicyFiles(l.Dir)
		if err != nil {
			return "", err
		}
	}

	if len(policies) == 0 {
		return "", types.NewError(types.POLICY_NOT_FOUND, "no policies available in database or policy directory")
	}

	return renderPolicies(policies), nil
}

// loadPolicyFiles reads *.json policy files from dir. Files that fail to
// parse or carry no content are skipped.
func loadPolicyFiles(dir string) ([]Policy, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.WrapError(types.STORE_QUERY_FAILED, "failed to read policy directory", err)
	}

	var policies []Policy
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		var p Policy
		if err := json.Unmarshal(data, &p); err != nil || p.Content == "" {
			continue
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		policies = append(policies, p)
	}
	return policies, nil
}

func renderPolicies(policies []Policy) string {
	sections := make([]string, 0, len(policies))
	for _, p := range policies {
		sections = append(sections, fmt.Sprintf("**Policy: %s**\n%s", p.Name, p.Content))
	}
	return strings.Join(sections, "\n\n")
}
