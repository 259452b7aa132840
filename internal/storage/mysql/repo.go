package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"review_carousel/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertEntity(ctx context.Context, e domain.EntityDetails) error {
	_, err := r.db.ExecContext(ctx, upsertEntitySQL, e.ID, e.Name, valStr(e.ReviewGenerationURL))
	return err
}

// ReplaceReviews swaps the entity's stored reviews for rs in one transaction.
func (r *Repo) ReplaceReviews(ctx context.Context, entityID string, rs []domain.ReviewRecord) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteReviewsSQL, entityID); err != nil {
		return err
	}
	if len(rs) > 0 {
		values := make([]string, 0, len(rs))
		args := make([]any, 0, len(rs)*8) // 8 params per row
		for i, rv := range rs {
			var comments []byte
			if len(rv.Comments) > 0 {
				if comments, err = json.Marshal(rv.Comments); err != nil {
					return fmt.Errorf("marshal comments: %w", err)
				}
			}
			values = append(values, "(?,?,?,?,?,?,?,?)")
			args = append(args,
				entityID,              // entity_id
				i,                     // position
				rv.AuthorName,         // author_name
				valStr(rv.Content),    // content
				string(rv.Publisher),  // publisher
				valF64(rv.Rating),     // rating
				valStr(rv.ReviewDate), // review_date
				valJSON(comments),     // comments
			)
		}
		if _, err = tx.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repo) LogMiss(ctx context.Context, entityID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, entityID, status, reason)
	return err
}

func (r *Repo) GetEntity(ctx context.Context, id string) (domain.EntityDetails, error) {
	var e domain.EntityDetails
	var genURL sql.NullString
	if err := r.db.QueryRowContext(ctx, getEntitySQL, id).Scan(&e.ID, &e.Name, &genURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EntityDetails{}, domain.ErrNotFound
		}
		return domain.EntityDetails{}, err
	}
	e.ReviewGenerationURL = genURL.String
	return e, nil
}

func (r *Repo) ListReviews(ctx context.Context, entityID string, limit int) ([]domain.ReviewRecord, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReviewRecord{}
	for rows.Next() {
		var (
			rv          domain.ReviewRecord
			content     sql.NullString
			publisher   string
			rating      sql.NullFloat64
			reviewDate  sql.NullString
			commentsRaw sql.RawBytes
		)
		if err := rows.Scan(&rv.AuthorName, &content, &publisher, &rating, &reviewDate, &commentsRaw); err != nil {
			return nil, err
		}
		rv.Content = content.String
		rv.Publisher = domain.ParsePublisher(publisher)
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		rv.ReviewDate = reviewDate.String
		if len(commentsRaw) > 0 {
			if err := json.Unmarshal(commentsRaw, &rv.Comments); err != nil {
				return nil, fmt.Errorf("decode comments for %s: %w", entityID, err)
			}
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
