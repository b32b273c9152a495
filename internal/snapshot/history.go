package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/petitionmap/internal/db"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
)

// Record is one stored load of a petition.
type Record struct {
	ID                string    `json:"id"`
	PetitionID        string    `json:"petition_id"`
	Action            string    `json:"action"`
	SignatureCount    int       `json:"signature_count"`
	ConstituencyCount int       `json:"constituency_count"`
	MaxSignatures     int       `json:"max_signatures"`
	TopRatio          float64   `json:"top_ratio"`
	UnmatchedCount    int       `json:"unmatched_count"`
	FetchedAt         time.Time `json:"fetched_at"`
}

// timeLayout sorts lexically in UTC.
const timeLayout = "2006-01-02 15:04:05.000000000"

// History persists a summary of every successful load.
type History struct {
	db *db.DB
}

// NewHistory creates a History backed by the given database.
func NewHistory(database *db.DB) *History {
	return &History{db: database}
}

// Record stores a summary of st and returns it.
func (h *History) Record(ctx context.Context, st *State) (Record, error) {
	res := st.Rank(ranking.Options{})
	attrs := st.Petition.Data.Attributes
	rec := Record{
		ID:                uuid.New().String(),
		PetitionID:        st.PetitionID,
		Action:            attrs.Action,
		SignatureCount:    attrs.SignatureCount,
		ConstituencyCount: len(attrs.SignaturesByConstituency),
		MaxSignatures:     res.MaxSignatures,
		TopRatio:          res.TopRatio,
		UnmatchedCount:    len(res.Unmatched),
		FetchedAt:         st.LoadedAt.UTC(),
	}

	_, err := h.db.ExecContext(ctx, `
		INSERT INTO petition_snapshots (
			id, petition_id, action, signature_count, constituency_count,
			max_signatures, top_ratio, unmatched_count, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PetitionID, rec.Action, rec.SignatureCount, rec.ConstituencyCount,
		rec.MaxSignatures, rec.TopRatio, rec.UnmatchedCount, rec.FetchedAt.Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("inserting snapshot: %w", err)
	}
	return rec, nil
}

// List returns the newest records for petitionID, newest first. limit <= 0
// means 100.
func (h *History) List(ctx context.Context, petitionID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, petition_id, action, signature_count, constituency_count,
		       max_signatures, top_ratio, unmatched_count, fetched_at
		FROM petition_snapshots
		WHERE petition_id = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT ?`, petitionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r  Record
			ts string
		)
		if err := rows.Scan(&r.ID, &r.PetitionID, &r.Action, &r.SignatureCount, &r.ConstituencyCount,
			&r.MaxSignatures, &r.TopRatio, &r.UnmatchedCount, &ts); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if t, err := time.Parse(timeLayout, ts); err == nil {
			r.FetchedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
