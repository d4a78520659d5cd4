package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrAlreadyRecorded = errors.New("game result already recorded")

type GameResult struct {
	GameResultId int64              `db:"game_result_id" json:"-"`
	SessionId    string             `db:"session_id" json:"session_id"`
	Size         int                `db:"size" json:"size"`
	MineCount    int                `db:"mine_count" json:"mine_count"`
	Won          bool               `db:"won" json:"won"`
	Revealed     int                `db:"revealed" json:"revealed"`
	StartedAt    time.Time          `db:"started_at" json:"started_at"`
	CreatedAt    pgtype.Timestamptz `db:"created_at" json:"-"`
}

type RecordResultParams struct {
	SessionId string
	Size      int
	MineCount int
	Won       bool
	Revealed  int
	StartedAt time.Time
}

func (q Queries) RecordResult(
	ctx context.Context, params RecordResultParams,
) (*GameResult, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_result (
			session_id, size, mine_count, won, revealed, started_at
		)
		VALUES (
			@session_id, @size, @mine_count, @won, @revealed, @started_at
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": params.SessionId,
			"size":       params.Size,
			"mine_count": params.MineCount,
			"won":        params.Won,
			"revealed":   params.Revealed,
			"started_at": params.StartedAt,
		},
	)
	result, err := pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameResult],
	)
	if isUniqueViolation(err) {
		return nil, ErrAlreadyRecorded
	}
	return result, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// FetchResult returns the latest recorded game of a session.
func (q Queries) FetchResult(ctx context.Context, sessionId string) (*GameResult, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT * FROM game_result
		WHERE session_id = $1
		ORDER BY started_at DESC
		LIMIT 1`,
		sessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameResult])
}

type Stats struct {
	Played  int64   `json:"played"`
	Won     int64   `json:"won"`
	Lost    int64   `json:"lost"`
	WinRate float64 `json:"win_rate"`
}

type StatsFilter struct {
	Size      *int
	MineCount *int
}

func (f StatsFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Size != nil {
		clauses = append(clauses, "size = @size")
		args["size"] = *f.Size
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) FetchStats(ctx context.Context, filter StatsFilter) (*Stats, error) {
	query := `
	SELECT
		count(*) played,
		count(*) FILTER (WHERE won) won,
		count(*) FILTER (WHERE NOT won) lost
	FROM game_result`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	var stats Stats
	err := q.db.QueryRow(ctx, query, args).Scan(&stats.Played, &stats.Won, &stats.Lost)
	if err != nil {
		return nil, err
	}
	if stats.Played > 0 {
		stats.WinRate = float64(stats.Won) / float64(stats.Played)
	}
	return &stats, nil
}
