package core

import "context"

// MixService applies the ownership rule on top of the repository: every read
// or mutation of a mix (and, transitively, of its items) is gated on the
// mix's owner matching the authenticated principal. A foreign-owned resource
// behaves exactly like an absent one, so the service never confirms that
// another user's mix exists.
type MixService struct {
	repo MixRepository
}

func NewMixService(repo MixRepository) *MixService {
	return &MixService{repo: repo}
}

// ownsResource is the ownership guard: a principal may act on a resource only
// when the resource's owner id equals the principal's id.
func ownsResource(principal User, ownerID int64) bool {
	return principal.ID == ownerID
}

// guardedMix loads a mix inside the current transaction and applies the
// ownership guard. A mismatch returns ErrMixNotFound, same as absence.
func guardedMix(ctx context.Context, st MixStore, principal User, mixID int64) (*Mix, error) {
	m, err := st.FindByID(ctx, mixID)
	if err != nil {
		return nil, err
	}
	if !ownsResource(principal, m.ProprietarioID) {
		return nil, ErrMixNotFound
	}
	return m, nil
}

// List returns the principal's mixes with their items.
func (s *MixService) List(ctx context.Context, principal User) ([]Mix, error) {
	return s.repo.ListByOwner(ctx, principal.ID)
}

// Create inserts a mix owned by the principal.
func (s *MixService) Create(ctx context.Context, principal User, nome, flowCorBase string) (*Mix, error) {
	var created *Mix
	err := s.repo.Mutate(ctx, func(st MixStore) error {
		m, err := st.Insert(ctx, principal.ID, nome, flowCorBase)
		if err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update renames/recolors a mix the principal owns and returns it with its
// items. Guard and write happen in one transaction.
func (s *MixService) Update(ctx context.Context, principal User, mixID int64, nome, flowCorBase string) (*Mix, error) {
	var updated *Mix
	err := s.repo.Mutate(ctx, func(st MixStore) error {
		m, err := guardedMix(ctx, st, principal, mixID)
		if err != nil {
			return err
		}
		if err := st.Update(ctx, mixID, nome, flowCorBase); err != nil {
			return err
		}
		items, err := st.ListItems(ctx, mixID)
		if err != nil {
			return err
		}
		m.Nome = nome
		m.FlowCorBase = flowCorBase
		m.Items = items
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a mix the principal owns, items included.
func (s *MixService) Delete(ctx context.Context, principal User, mixID int64) error {
	return s.repo.Mutate(ctx, func(st MixStore) error {
		if _, err := guardedMix(ctx, st, principal, mixID); err != nil {
			return err
		}
		return st.Delete(ctx, mixID)
	})
}

// AddItem appends a media item to a mix the principal owns. Item ownership is
// the parent mix's ownership, so the guard runs against the mix.
func (s *MixService) AddItem(ctx context.Context, principal User, mixID int64, mediaTitulo, mediaTipo string) (*Item, error) {
	var created *Item
	err := s.repo.Mutate(ctx, func(st MixStore) error {
		if _, err := guardedMix(ctx, st, principal, mixID); err != nil {
			return err
		}
		it, err := st.InsertItem(ctx, mixID, mediaTitulo, mediaTipo)
		if err != nil {
			return err
		}
		created = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveItem deletes an item from a mix the principal owns.
func (s *MixService) RemoveItem(ctx context.Context, principal User, mixID, itemID int64) error {
	return s.repo.Mutate(ctx, func(st MixStore) error {
		if _, err := guardedMix(ctx, st, principal, mixID); err != nil {
			return err
		}
		return st.DeleteItem(ctx, mixID, itemID)
	})
}
