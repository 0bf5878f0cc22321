package client

import (
	"Drive/internal/dto"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"strings"
	"sync"
	"time"
)

// Notifier surfaces mutation failures to the end user.
type Notifier interface {
	Notify(message string)
}

type MutationState int

const (
	MutationPending MutationState = iota
	MutationCommitted
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationCommitted:
		return "committed"
	case MutationRolledBack:
		return "rolled back"
	}
	return fmt.Sprintf("MutationState(%d)", int(s))
}

type patch struct {
	parent   string
	snapshot *dto.DriveListingDTO
	version  uint64
}

// Mutation tracks one optimistic change from the local patch to its single
// terminal reconciliation.
type Mutation struct {
	Kind    string
	mutex   sync.Mutex
	state   MutationState
	patches []patch
	// refetched lists the listings that could not be restored from their
	// snapshot and were reloaded instead.
	refetched []string
}

func newMutation(kind string) *Mutation {
	return &Mutation{Kind: kind}
}

func (m *Mutation) State() MutationState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.state
}

func (m *Mutation) Refetched() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string(nil), m.refetched...)
}

// settle moves a pending mutation to its terminal state. It reports false if
// the mutation was already settled.
func (m *Mutation) settle(state MutationState) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.state != MutationPending {
		return false
	}
	m.state = state
	return true
}

// Reconciler applies mutations to the listing cache before the server
// confirms them, then either refreshes the affected listings or rolls the
// cache back.
type Reconciler struct {
	api      DriveAPI
	cache    *ListingCache
	notifier Notifier
	log      *logrus.Logger
	now      func() time.Time
}

func NewReconciler(api DriveAPI, cache *ListingCache, notifier Notifier, log *logrus.Logger) *Reconciler {
	return &Reconciler{
		api:      api,
		cache:    cache,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Move moves ids out of the listing for parent listing into parent. Entries
// only disappear from the cached listing when they actually leave it.
func (r *Reconciler) Move(ctx context.Context, listing string, ids []string, parent string) (*Mutation, error) {
	m := newMutation("move")
	if parent != listing {
		r.apply(m, listing, func(l *dto.DriveListingDTO) {
			removed := toSet(ids)
			l.Folders = removeEntries(l.Folders, removed)
			l.Files = removeEntries(l.Files, removed)
		})
	}
	if err := r.api.MoveFilesOrFolders(ctx, ids, parent); err != nil {
		r.rollback(ctx, m, err, "Could not move the selected items")
		return m, err
	}
	r.commit(ctx, m, listing, parent)
	return m, nil
}

func (r *Reconciler) Delete(ctx context.Context, listing string, ids []string) (*Mutation, error) {
	m := newMutation("delete")
	r.apply(m, listing, func(l *dto.DriveListingDTO) {
		removed := toSet(ids)
		l.Folders = removeEntries(l.Folders, removed)
		l.Files = removeEntries(l.Files, removed)
	})
	if err := r.api.DeleteFilesOrFolders(ctx, ids); err != nil {
		r.rollback(ctx, m, err, "Could not delete the selected items")
		return m, err
	}
	r.commit(ctx, m, listing)
	return m, nil
}

// CreateFolder shows a provisional folder in listing until the server
// confirms or rejects it.
func (r *Reconciler) CreateFolder(ctx context.Context, listing, name, actor string) (*Mutation, *dto.EntryDTO, error) {
	m := newMutation("create folder")
	name = strings.TrimSpace(name)
	provisional := dto.EntryDTO{
		ID:        uuid.NewString(),
		Kind:      dto.KindFolder,
		Parent:    listing,
		Name:      name,
		CreatedBy: actor,
		CreatedAt: r.now(),
	}
	r.apply(m, listing, func(l *dto.DriveListingDTO) {
		l.Folders = insertByName(l.Folders, provisional)
	})
	folder, err := r.api.CreateFolder(ctx, listing, name)
	if err != nil {
		r.rollback(ctx, m, err, fmt.Sprintf("Could not create folder %q", name))
		return m, nil, err
	}
	r.commit(ctx, m, listing)
	return m, folder, nil
}

func (r *Reconciler) Rename(ctx context.Context, listing, id, name string) (*Mutation, error) {
	m := newMutation("rename")
	name = strings.TrimSpace(name)
	r.apply(m, listing, func(l *dto.DriveListingDTO) {
		l.Folders = renameEntry(l.Folders, id, name)
		l.Files = renameEntry(l.Files, id, name)
	})
	if err := r.api.RenameFileOrFolder(ctx, id, name); err != nil {
		r.rollback(ctx, m, err, fmt.Sprintf("Could not rename to %q", name))
		return m, err
	}
	r.commit(ctx, m, listing)
	return m, nil
}

// renameEntry renames id in entries and moves it to its new place in name
// order.
func renameEntry(entries []dto.EntryDTO, id, name string) []dto.EntryDTO {
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		entry := entries[i]
		entry.Name = name
		entries = removeEntries(entries, map[string]struct{}{id: {}})
		return insertByName(entries, entry)
	}
	return entries
}

func (r *Reconciler) apply(m *Mutation, parent string, fn func(*dto.DriveListingDTO)) {
	snapshot, version, ok := r.cache.patch(parent, fn)
	if !ok {
		return
	}
	m.patches = append(m.patches, patch{parent: parent, snapshot: snapshot, version: version})
}

// commit refreshes every affected listing that is cached. A refresh that
// fails evicts the listing so the next read goes to the server.
func (r *Reconciler) commit(ctx context.Context, m *Mutation, parents ...string) {
	if !m.settle(MutationCommitted) {
		return
	}
	seen := make(map[string]struct{}, len(parents))
	for _, parent := range parents {
		if _, ok := seen[parent]; ok {
			continue
		}
		seen[parent] = struct{}{}
		if !r.cache.contains(parent) {
			continue
		}
		if _, err := r.cache.Fetch(ctx, parent); err != nil {
			r.cache.Invalidate(parent)
			r.log.WithFields(logrus.Fields{
				"mutation": m.Kind,
				"listing":  parent,
				"error":    err.Error(),
			}).Warn("refresh after mutation failed")
		}
	}
}

// rollback restores every patched listing to its snapshot. A listing that was
// replaced or evicted since the patch is refetched instead.
func (r *Reconciler) rollback(ctx context.Context, m *Mutation, cause error, message string) {
	if !m.settle(MutationRolledBack) {
		return
	}
	for _, p := range m.patches {
		if r.cache.restore(p.parent, p.snapshot, p.version) {
			continue
		}
		m.mutex.Lock()
		m.refetched = append(m.refetched, p.parent)
		m.mutex.Unlock()
		if _, err := r.cache.Fetch(ctx, p.parent); err != nil {
			r.cache.Invalidate(p.parent)
		}
	}
	r.log.WithFields(logrus.Fields{
		"mutation": m.Kind,
		"error":    cause.Error(),
	}).Warn("mutation rolled back")
	r.notifier.Notify(failureMessage(message, cause))
}

func failureMessage(message string, err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", message, apiErr.Message)
	}
	return fmt.Sprintf("%s: %v", message, err)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
