package clickhouse

import (
	"context"
	"fmt"

	"github.com/Ticoworld/veritas/internal/storage"
)

// VerdictArchive implements storage.VerdictArchive using ClickHouse.
// Append-only: one row per completed investigation.
type VerdictArchive struct {
	conn *Conn
}

// NewVerdictArchive creates a new VerdictArchive.
func NewVerdictArchive(conn *Conn) *VerdictArchive {
	return &VerdictArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.VerdictArchive = (*VerdictArchive)(nil)

// Insert appends a completed verdict.
func (a *VerdictArchive) Insert(ctx context.Context, v *storage.ArchivedVerdict) error {
	if v == nil || v.Mint == "" {
		return storage.ErrInvalidInput
	}

	batch, err := a.conn.PrepareBatch(ctx, `
		INSERT INTO verdicts (
			mint, score, verdict, deterministic_score, ai_score,
			creator, fast_path, degraded, duration_ms, investigated_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		v.Mint,
		int32(v.Score),
		v.Verdict,
		int32(v.DeterministicScore),
		int32(v.AIScore),
		v.Creator,
		v.FastPath,
		v.Degraded,
		uint64(v.DurationMs),
		v.InvestigatedAt,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByMint retrieves all archived verdicts for a mint, oldest first.
func (a *VerdictArchive) GetByMint(ctx context.Context, mint string) ([]*storage.ArchivedVerdict, error) {
	query := `
		SELECT
			mint, score, verdict, deterministic_score, ai_score,
			creator, fast_path, degraded, duration_ms, investigated_at
		FROM verdicts
		WHERE mint = ?
		ORDER BY investigated_at ASC
	`

	rows, err := a.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}
	defer rows.Close()

	var result []*storage.ArchivedVerdict
	for rows.Next() {
		var (
			v          storage.ArchivedVerdict
			score      int32
			detScore   int32
			aiScore    int32
			durationMs uint64
		)
		err := rows.Scan(&v.Mint, &score, &v.Verdict, &detScore, &aiScore,
			&v.Creator, &v.FastPath, &v.Degraded, &durationMs, &v.InvestigatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		v.Score = int(score)
		v.DeterministicScore = int(detScore)
		v.AIScore = int(aiScore)
		v.DurationMs = int64(durationMs)
		result = append(result, &v)
	}
	return result, rows.Err()
}
