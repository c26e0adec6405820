package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"george/models"
	ai "george/services/intelligence"
)

const sqlGenPromptTemplate = `You translate a hotel guest's question into a single read-only PostgreSQL query.

Schema:
  rooms(room_type TEXT PRIMARY KEY, capacity INT, nightly_rate NUMERIC, description TEXT)
  reservations(booking_number TEXT PRIMARY KEY, room_type TEXT, check_in DATE, check_out DATE,
               guest_name TEXT, email TEXT, phone TEXT, guests INT, total_price NUMERIC,
               status TEXT, created_at TIMESTAMPTZ)

Rules:
- Output ONLY the SQL, no explanation and no markdown.
- SELECT statements only. Never modify data.
- Never select guest personal data (guest_name, email, phone).

Guest question: %s`

const sqlAnswerPromptTemplate = `You are George, the friendly AI receptionist at Chez Govinda in Brussels.

The guest asked: %s

Database result:
%s

Answer the guest's question in one or two warm, natural sentences based on the result.`

// ErrUnsafeQuery is returned when generated SQL fails the read-only guard.
var ErrUnsafeQuery = errors.New("generated query is not a read-only select")

// ReadOnlyQuerier is the read path into the relational store.
type ReadOnlyQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StructuredQueryTool answers questions about rooms and occupancy by letting
// the model write SQL, vetting it, and phrasing the result for the guest.
type StructuredQueryTool struct {
	db     ReadOnlyQuerier
	llm    ai.CompletionClient
	logger *zap.Logger
}

func NewStructuredQueryTool(db ReadOnlyQuerier, llm ai.CompletionClient, logger *zap.Logger) *StructuredQueryTool {
	return &StructuredQueryTool{db: db, llm: llm, logger: logger}
}

func (t *StructuredQueryTool) Handle(ctx context.Context, _ *ai.Session, utterance string) (models.Reply, error) {
	raw, err := t.llm.Complete(ctx, fmt.Sprintf(sqlGenPromptTemplate, utterance))
	if err != nil {
		return models.Reply{}, fmt.Errorf("sql generation failed: %w", err)
	}

	query := CleanSQL(raw)
	if err := guardReadOnly(query); err != nil {
		t.logger.Warn("rejected generated query", zap.String("query", query), zap.Error(err))
		return models.Reply{}, err
	}
	t.logger.Debug("executing generated query", zap.String("query", query))

	result, err := t.runQuery(ctx, query)
	if err != nil {
		return models.Reply{}, fmt.Errorf("query execution failed: %w", err)
	}

	answer, err := t.llm.Complete(ctx, fmt.Sprintf(sqlAnswerPromptTemplate, utterance, result))
	if err != nil {
		return models.Reply{}, fmt.Errorf("answer composition failed: %w", err)
	}
	return models.Reply{Text: strings.TrimSpace(answer)}, nil
}

func (t *StructuredQueryTool) runQuery(ctx context.Context, query string) (string, error) {
	rows, err := t.db.Query(ctx, query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var sb strings.Builder
	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f.Name)
	}
	sb.WriteString(strings.Join(names, " | "))
	sb.WriteString("\n")

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return "", err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprintf("%v", v)
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	if count == 0 {
		return "(no rows)", nil
	}
	return sb.String(), nil
}

var (
	sqlFencePattern = regexp.MustCompile("(?is)```(?:sql)?(.*?)```")
	commentPattern  = regexp.MustCompile(`(?m)--.*$`)
)

// CleanSQL strips markdown fences and line comments from model output and
// normalises it to a single trimmed statement.
func CleanSQL(raw string) string {
	if m := sqlFencePattern.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	raw = commentPattern.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, ";")
	return strings.TrimSpace(raw)
}

// forbiddenSQL lists write-affecting or multi-statement syntax that must never
// reach the database, regardless of what the model produced.
var forbiddenSQL = []string{
	"insert", "update", "delete", "drop", "alter", "create", "truncate",
	"grant", "revoke", "copy", "execute", "call", "merge", "into",
}

func guardReadOnly(query string) error {
	lower := strings.ToLower(query)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return ErrUnsafeQuery
	}
	if strings.Contains(lower, ";") {
		return ErrUnsafeQuery
	}
	for _, kw := range forbiddenSQL {
		if containsWord(lower, kw) {
			return ErrUnsafeQuery
		}
	}
	return nil
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordChar(s[i-1])
		after := i+len(word) == len(s) || !isWordChar(s[i+len(word)])
		if before && after {
			return true
		}
		idx = i + len(word)
	}
}

func isWordChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9')
}
