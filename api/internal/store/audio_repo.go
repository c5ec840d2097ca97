package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"kid-english/api/internal/tts"
)

var ErrNotFound = sql.ErrNoRows

// AudioRepo indexes synthesized audio files by text hash so repeated
// sentences reuse the same MP3.
type AudioRepo struct{ DB *sql.DB }

func NewAudioRepo(db *sql.DB) *AudioRepo { return &AudioRepo{DB: db} }

type AudioRow struct {
	ID         int64
	CreatedAt  time.Time
	TextHash   string
	Engine     string
	FileID     string
	Text       string
	DurationMS int64
}

const schema = `
create table if not exists tts_audio (
  id          bigserial primary key,
  created_at  timestamptz not null default now(),
  text_hash   text not null,
  engine      text not null,
  file_id     text not null,
  text        text not null,
  duration_ms bigint not null default 0,
  unique (text_hash, engine)
);
create index if not exists tts_audio_created_at_idx on tts_audio (created_at);`

// EnsureSchema creates the table on first start.
func (r *AudioRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

// FindByHash returns the row for (text_hash, engine). With maxAge > 0 an
// older row counts as missing.
func (r *AudioRepo) FindByHash(ctx context.Context, textHash, engine string, maxAge time.Duration) (*AudioRow, error) {
	const q = `
select id, created_at, text_hash, engine, file_id, text, duration_ms
from tts_audio
where text_hash = $1 and engine = $2
limit 1`
	var row AudioRow
	err := r.DB.QueryRowContext(ctx, q, textHash, engine).Scan(
		&row.ID, &row.CreatedAt, &row.TextHash, &row.Engine, &row.FileID, &row.Text, &row.DurationMS)
	if err != nil {
		return nil, err
	}
	if maxAge > 0 && time.Since(row.CreatedAt) > maxAge {
		return nil, ErrNotFound
	}
	return &row, nil
}

// Upsert stores the file for (text_hash, engine), replacing an older one.
func (r *AudioRepo) Upsert(ctx context.Context, row AudioRow) error {
	const q = `
insert into tts_audio (text_hash, engine, file_id, text, duration_ms)
values ($1, $2, $3, $4, $5)
on conflict (text_hash, engine) do update
set file_id = excluded.file_id,
    text = excluded.text,
    duration_ms = excluded.duration_ms,
    created_at = now()`
	_, err := r.DB.ExecContext(ctx, q, row.TextHash, row.Engine, row.FileID, row.Text, row.DurationMS)
	return err
}

// PurgeOlderThan deletes rows whose files the janitor has already expired.
func (r *AudioRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan)
	res, err := r.DB.ExecContext(ctx, `delete from tts_audio where created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

// FindAudio implements tts.Index.
func (r *AudioRepo) FindAudio(ctx context.Context, hash, engine string, maxAge time.Duration) (string, error) {
	row, err := r.FindByHash(ctx, hash, engine, maxAge)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.FileID, nil
}

// RecordAudio implements tts.Index.
func (r *AudioRepo) RecordAudio(ctx context.Context, rec tts.Record) error {
	return r.Upsert(ctx, AudioRow{
		TextHash:   rec.Hash,
		Engine:     rec.Engine,
		FileID:     rec.FileID,
		Text:       rec.Text,
		DurationMS: rec.DurationMS,
	})
}

var _ tts.Index = (*AudioRepo)(nil)
