package core

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// memMixRepo is an in-memory MixRepository for tests. Mutate has no real
// transaction; guard behaviour is what is under test here.
type memMixRepo struct {
	mixSeq, itemSeq int64
	mixes           map[int64]*Mix
	items           map[int64]*Item
}

func newMemMixRepo() *memMixRepo {
	return &memMixRepo{mixes: make(map[int64]*Mix), items: make(map[int64]*Item)}
}

func (r *memMixRepo) ListByOwner(_ context.Context, ownerID int64) ([]Mix, error) {
	out := make([]Mix, 0)
	for _, m := range r.mixes {
		if m.ProprietarioID != ownerID {
			continue
		}
		cp := *m
		cp.Items, _ = r.ListItems(context.Background(), m.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMixRepo) Mutate(_ context.Context, fn func(MixStore) error) error {
	return fn(r)
}

func (r *memMixRepo) FindByID(_ context.Context, id int64) (*Mix, error) {
	m, ok := r.mixes[id]
	if !ok {
		return nil, ErrMixNotFound
	}
	cp := *m
	cp.Items = make([]Item, 0)
	return &cp, nil
}

func (r *memMixRepo) Insert(_ context.Context, ownerID int64, nome, flowCorBase string) (*Mix, error) {
	r.mixSeq++
	m := &Mix{ID: r.mixSeq, Nome: nome, FlowCorBase: flowCorBase, ProprietarioID: ownerID, CreatedAt: time.Now()}
	r.mixes[m.ID] = m
	cp := *m
	cp.Items = make([]Item, 0)
	return &cp, nil
}

func (r *memMixRepo) Update(_ context.Context, id int64, nome, flowCorBase string) error {
	m, ok := r.mixes[id]
	if !ok {
		return ErrMixNotFound
	}
	m.Nome = nome
	m.FlowCorBase = flowCorBase
	return nil
}

func (r *memMixRepo) Delete(_ context.Context, id int64) error {
	delete(r.mixes, id)
	for itemID, it := range r.items {
		if it.MixID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *memMixRepo) ListItems(_ context.Context, mixID int64) ([]Item, error) {
	out := make([]Item, 0)
	for _, it := range r.items {
		if it.MixID == mixID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMixRepo) InsertItem(_ context.Context, mixID int64, mediaTitulo, mediaTipo string) (*Item, error) {
	r.itemSeq++
	it := &Item{ID: r.itemSeq, MixID: mixID, MediaTitulo: mediaTitulo, MediaTipo: mediaTipo}
	r.items[it.ID] = it
	cp := *it
	return &cp, nil
}

func (r *memMixRepo) DeleteItem(_ context.Context, mixID, itemID int64) error {
	it, ok := r.items[itemID]
	if !ok || it.MixID != mixID {
		return ErrItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

var (
	alice = User{ID: 1, Nome: "Alice", Email: "alice@example.com"}
	bob   = User{ID: 2, Nome: "Bob", Email: "bob@example.com"}
)

func TestMixOwnerCRUD(t *testing.T) {
	svc := NewMixService(newMemMixRepo())
	ctx := context.Background()

	mix, err := svc.Create(ctx, alice, "Treino", "#FF8800")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	item, err := svc.AddItem(ctx, alice, mix.ID, "Track One", MediaTipoAudio)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	updated, err := svc.Update(ctx, alice, mix.ID, "Treino Intenso", "#FF0000")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Nome != "Treino Intenso" || updated.FlowCorBase != "#FF0000" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if len(updated.Items) != 1 || updated.Items[0].ID != item.ID {
		t.Fatalf("updated mix missing items: %+v", updated.Items)
	}

	list, err := svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || len(list[0].Items) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := svc.RemoveItem(ctx, alice, mix.ID, item.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if err := svc.Delete(ctx, alice, mix.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	list, err = svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("mix not deleted: %+v", list)
	}
}

func TestMixForeignOwnerLooksAbsent(t *testing.T) {
	svc := NewMixService(newMemMixRepo())
	ctx := context.Background()

	mix, err := svc.Create(ctx, alice, "Treino", "#FF8800")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	item, err := svc.AddItem(ctx, alice, mix.ID, "Track One", MediaTipoVideo)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// Every operation Bob attempts on Alice's mix must report not-found,
	// never a permission error.
	if _, err := svc.Update(ctx, bob, mix.ID, "Hijacked", "#000000"); !errors.Is(err, ErrMixNotFound) {
		t.Fatalf("update: expected ErrMixNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, bob, mix.ID); !errors.Is(err, ErrMixNotFound) {
		t.Fatalf("delete: expected ErrMixNotFound, got %v", err)
	}
	if _, err := svc.AddItem(ctx, bob, mix.ID, "Intruder", MediaTipoAudio); !errors.Is(err, ErrMixNotFound) {
		t.Fatalf("add item: expected ErrMixNotFound, got %v", err)
	}
	if err := svc.RemoveItem(ctx, bob, mix.ID, item.ID); !errors.Is(err, ErrMixNotFound) {
		t.Fatalf("remove item: expected ErrMixNotFound, got %v", err)
	}

	// Bob's listing stays empty; Alice's mix is untouched.
	bobList, err := svc.List(ctx, bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bobList) != 0 {
		t.Fatalf("bob sees foreign mixes: %+v", bobList)
	}
	aliceList, err := svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(aliceList) != 1 || aliceList[0].Nome != "Treino" || len(aliceList[0].Items) != 1 {
		t.Fatalf("alice's mix was modified: %+v", aliceList)
	}
}

func TestRemoveItemAbsent(t *testing.T) {
	svc := NewMixService(newMemMixRepo())
	ctx := context.Background()

	mix, err := svc.Create(ctx, alice, "Treino", "#FF8800")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.RemoveItem(ctx, alice, mix.ID, 999); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveItemFromOtherMix(t *testing.T) {
	svc := NewMixService(newMemMixRepo())
	ctx := context.Background()

	first, err := svc.Create(ctx, alice, "Primeiro", "#111111")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.Create(ctx, alice, "Segundo", "#222222")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	item, err := svc.AddItem(ctx, alice, first.ID, "Track", MediaTipoAudio)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	// The item exists, but addressed through the wrong parent mix.
	if err := svc.RemoveItem(ctx, alice, second.ID, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
