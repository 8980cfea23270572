package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tidwall/gjson"

	"writing_assessor/internal/assess"
)

var ErrNotFound = errors.New("assessment not found")

// timeLayout has fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

type Record struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Source    string        `json:"source"`
	WordCount int           `json:"wordCount"`
	Result    assess.Result `json:"result"`
}

type Summary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	Source          string    `json:"source"`
	CEFRLevel       string    `json:"cefrLevel"`
	Score           float64   `json:"score"`
	ConfidenceLevel float64   `json:"confidenceLevel"`
}

// NewAssessmentID generates an id in format ASM-{nanoid(10)}.
func NewAssessmentID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ASM-%s", id), nil
}

func (s *Store) Save(source string, wordCount int, result assess.Result) (Record, error) {
	id, err := NewAssessmentID()
	if err != nil {
		return Record{}, fmt.Errorf("generate id: %w", err)
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return Record{}, fmt.Errorf("marshal result: %w", err)
	}
	rec := Record{
		ID:        id,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Source:    source,
		WordCount: wordCount,
		Result:    result,
	}
	if _, err := s.db.Exec(
		`INSERT INTO assessments(id, created_at, source, word_count, result) VALUES(?,?,?,?,?)`,
		rec.ID,
		rec.CreatedAt.Format(timeLayout),
		rec.Source,
		rec.WordCount,
		string(raw),
	); err != nil {
		return Record{}, fmt.Errorf("insert assessment: %w", err)
	}
	return rec, nil
}

func (s *Store) Get(id string) (Record, error) {
	row := s.db.QueryRow(`SELECT id, created_at, source, word_count, result FROM assessments WHERE id = ?`, id)
	var (
		rec     Record
		created string
		raw     string
	)
	if err := row.Scan(&rec.ID, &created, &rec.Source, &rec.WordCount, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return Record{}, fmt.Errorf("scan assessment: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	if err := json.Unmarshal([]byte(raw), &rec.Result); err != nil {
		return Record{}, fmt.Errorf("decode result: %w", err)
	}
	return rec, nil
}

// List returns summaries newest first. A limit of zero or less returns all.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, source, result FROM assessments ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created string
			raw     string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.Source, &raw); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		fields := gjson.GetMany(raw, "cefrLevel", "score", "confidenceLevel")
		sum.CEFRLevel = fields[0].String()
		sum.Score = fields[1].Float()
		sum.ConfidenceLevel = fields[2].Float()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

func (s *Store) Count() (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM assessments`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
