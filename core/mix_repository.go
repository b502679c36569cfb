package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Mix is a named, colored collection of media items owned by exactly one user.
type Mix struct {
	ID             int64     `json:"id"`
	Nome           string    `json:"nome"`
	FlowCorBase    string    `json:"flow_cor_base"`
	ProprietarioID int64     `json:"-"`
	Items          []Item    `json:"items"`
	CreatedAt      time.Time `json:"-"`
}

// Item belongs to exactly one mix; its ownership is the mix's ownership.
type Item struct {
	ID          int64  `json:"id"`
	MixID       int64  `json:"-"`
	MediaTitulo string `json:"media_titulo"`
	MediaTipo   string `json:"media_tipo"`
}

const (
	MediaTipoAudio = "audio"
	MediaTipoVideo = "video"
)

// IsValidMediaTipo reports whether tipo is one of the supported media kinds.
func IsValidMediaTipo(tipo string) bool {
	return tipo == MediaTipoAudio || tipo == MediaTipoVideo
}

var (
	// ErrMixNotFound covers both an absent mix and a mix owned by another
	// user; the two cases must be indistinguishable to the caller.
	ErrMixNotFound = errors.New("mix not found")
	// ErrItemNotFound likewise covers absent and foreign-owned items.
	ErrItemNotFound = errors.New("item not found")
)

// MixStore is the set of storage operations available inside a single
// transactional scope.
type MixStore interface {
	FindByID(ctx context.Context, id int64) (*Mix, error)
	Insert(ctx context.Context, ownerID int64, nome, flowCorBase string) (*Mix, error)
	Update(ctx context.Context, id int64, nome, flowCorBase string) error
	Delete(ctx context.Context, id int64) error
	ListItems(ctx context.Context, mixID int64) ([]Item, error)
	InsertItem(ctx context.Context, mixID int64, mediaTitulo, mediaTipo string) (*Item, error)
	DeleteItem(ctx context.Context, mixID, itemID int64) error
}

// MixRepository provides owner-scoped listing plus a per-request transactional
// scope for everything that mutates. Mutate guarantees release on every exit
// path: commit on nil, rollback on error or panic.
type MixRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]Mix, error)
	Mutate(ctx context.Context, fn func(MixStore) error) error
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, so the same store code
// serves pooled reads and transactional mutations.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgMixRepository implements MixRepository using pgxpool.
type PgMixRepository struct {
	db *pgxpool.Pool
}

func NewPgMixRepository(db *pgxpool.Pool) *PgMixRepository {
	return &PgMixRepository{db: db}
}

// ListByOwner returns the owner's mixes with their items, newest first.
func (r *PgMixRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Mix, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, nome, flow_cor_base, proprietario_id, created_at
FROM mixes
WHERE proprietario_id=$1
ORDER BY id
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mixes := make([]Mix, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var m Mix
		if err := rows.Scan(&m.ID, &m.Nome, &m.FlowCorBase, &m.ProprietarioID, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Items = make([]Item, 0)
		mixes = append(mixes, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(mixes) == 0 {
		return mixes, nil
	}

	itemRows, err := r.db.Query(ctx, `
SELECT id, mix_id, media_titulo, media_tipo
FROM itens_mix
WHERE mix_id = ANY($1)
ORDER BY id
`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	byMix := make(map[int64]int, len(mixes))
	for i, m := range mixes {
		byMix[m.ID] = i
	}
	for itemRows.Next() {
		var it Item
		if err := itemRows.Scan(&it.ID, &it.MixID, &it.MediaTitulo, &it.MediaTipo); err != nil {
			return nil, err
		}
		if i, ok := byMix[it.MixID]; ok {
			mixes[i].Items = append(mixes[i].Items, it)
		}
	}
	return mixes, itemRows.Err()
}

// Mutate runs fn inside one transaction; any error rolls the whole change
// back so partial writes never become visible.
func (r *PgMixRepository) Mutate(ctx context.Context, fn func(MixStore) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&pgMixStore{q: tx})
	})
}

type pgMixStore struct {
	q dbtx
}

func (s *pgMixStore) FindByID(ctx context.Context, id int64) (*Mix, error) {
	const q = `SELECT id, nome, flow_cor_base, proprietario_id, created_at FROM mixes WHERE id=$1`
	var m Mix
	if err := s.q.QueryRow(ctx, q, id).Scan(&m.ID, &m.Nome, &m.FlowCorBase, &m.ProprietarioID, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMixNotFound
		}
		return nil, err
	}
	m.Items = make([]Item, 0)
	return &m, nil
}

func (s *pgMixStore) Insert(ctx context.Context, ownerID int64, nome, flowCorBase string) (*Mix, error) {
	const q = `INSERT INTO mixes (nome, flow_cor_base, proprietario_id) VALUES ($1,$2,$3) RETURNING id, created_at`
	m := Mix{Nome: nome, FlowCorBase: flowCorBase, ProprietarioID: ownerID, Items: make([]Item, 0)}
	if err := s.q.QueryRow(ctx, q, nome, flowCorBase, ownerID).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *pgMixStore) Update(ctx context.Context, id int64, nome, flowCorBase string) error {
	const q = `UPDATE mixes SET nome=$1, flow_cor_base=$2 WHERE id=$3`
	_, err := s.q.Exec(ctx, q, nome, flowCorBase, id)
	return err
}

func (s *pgMixStore) Delete(ctx context.Context, id int64) error {
	// ON DELETE CASCADE removes the mix's items with it.
	const q = `DELETE FROM mixes WHERE id=$1`
	_, err := s.q.Exec(ctx, q, id)
	return err
}

func (s *pgMixStore) ListItems(ctx context.Context, mixID int64) ([]Item, error) {
	rows, err := s.q.Query(ctx, `SELECT id, mix_id, media_titulo, media_tipo FROM itens_mix WHERE mix_id=$1 ORDER BY id`, mixID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.MixID, &it.MediaTitulo, &it.MediaTipo); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *pgMixStore) InsertItem(ctx context.Context, mixID int64, mediaTitulo, mediaTipo string) (*Item, error) {
	const q = `INSERT INTO itens_mix (mix_id, media_titulo, media_tipo) VALUES ($1,$2,$3) RETURNING id`
	it := Item{MixID: mixID, MediaTitulo: mediaTitulo, MediaTipo: mediaTipo}
	if err := s.q.QueryRow(ctx, q, mixID, mediaTitulo, mediaTipo).Scan(&it.ID); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *pgMixStore) DeleteItem(ctx context.Context, mixID, itemID int64) error {
	const q = `DELETE FROM itens_mix WHERE id=$1 AND mix_id=$2`
	tag, err := s.q.Exec(ctx, q, itemID, mixID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
