package client

import (
	"Drive/internal/dto"
	"context"
	"sort"
	"sync"
)

type cacheEntry struct {
	listing *dto.DriveListingDTO
	version uint64
}

// ListingCache holds one listing snapshot per parent. Every write stamps the
// entry with a new version, so a holder of an old version can tell that the
// entry was replaced or evicted in the meantime. Callers only ever see copies.
type ListingCache struct {
	api     DriveAPI
	mutex   sync.Mutex
	entries map[string]*cacheEntry
	clock   uint64
}

func NewListingCache(api DriveAPI) *ListingCache {
	return &ListingCache{
		api:     api,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns a copy of the cached listing and its version.
func (c *ListingCache) Get(parent string) (*dto.DriveListingDTO, uint64, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	entry, ok := c.entries[parent]
	if !ok {
		return nil, 0, false
	}
	return copyListing(entry.listing), entry.version, true
}

func (c *ListingCache) Set(parent string, listing *dto.DriveListingDTO) uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.set(parent, copyListing(listing))
}

func (c *ListingCache) Invalidate(parent string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, parent)
}

// Fetch reads the listing from the server and replaces the cached entry.
func (c *ListingCache) Fetch(ctx context.Context, parent string) (*dto.DriveListingDTO, error) {
	listing, err := c.api.GetDrive(ctx, parent)
	if err != nil {
		return nil, err
	}
	c.Set(parent, listing)
	return copyListing(listing), nil
}

// Load returns the cached listing, fetching it on a miss.
func (c *ListingCache) Load(ctx context.Context, parent string) (*dto.DriveListingDTO, error) {
	if listing, _, ok := c.Get(parent); ok {
		return listing, nil
	}
	return c.Fetch(ctx, parent)
}

// patch applies fn to the cached listing and returns the listing as it was
// before, together with the version written by the patch.
func (c *ListingCache) patch(parent string, fn func(*dto.DriveListingDTO)) (*dto.DriveListingDTO, uint64, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	entry, ok := c.entries[parent]
	if !ok {
		return nil, 0, false
	}
	snapshot := copyListing(entry.listing)
	patched := copyListing(entry.listing)
	fn(patched)
	return snapshot, c.set(parent, patched), true
}

// restore puts snapshot back if the entry is still the one written at
// version.
func (c *ListingCache) restore(parent string, snapshot *dto.DriveListingDTO, version uint64) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	entry, ok := c.entries[parent]
	if !ok || entry.version != version {
		return false
	}
	c.set(parent, copyListing(snapshot))
	return true
}

func (c *ListingCache) contains(parent string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, ok := c.entries[parent]
	return ok
}

func (c *ListingCache) set(parent string, listing *dto.DriveListingDTO) uint64 {
	c.clock++
	c.entries[parent] = &cacheEntry{listing: listing, version: c.clock}
	return c.clock
}

func copyListing(listing *dto.DriveListingDTO) *dto.DriveListingDTO {
	if listing == nil {
		return nil
	}
	out := *listing
	out.Folders = copyEntries(listing.Folders)
	out.Files = copyEntries(listing.Files)
	if listing.ParentFolder != nil {
		parent := *listing.ParentFolder
		out.ParentFolder = &parent
	}
	return &out
}

func copyEntries(entries []dto.EntryDTO) []dto.EntryDTO {
	if entries == nil {
		return nil
	}
	out := make([]dto.EntryDTO, len(entries))
	copy(out, entries)
	return out
}

func removeEntries(entries []dto.EntryDTO, ids map[string]struct{}) []dto.EntryDTO {
	kept := entries[:0]
	for _, entry := range entries {
		if _, ok := ids[entry.ID]; !ok {
			kept = append(kept, entry)
		}
	}
	return kept
}

// insertByName keeps entries ordered by name, as the server lists them.
func insertByName(entries []dto.EntryDTO, entry dto.EntryDTO) []dto.EntryDTO {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Name > entry.Name })
	entries = append(entries, dto.EntryDTO{})
	copy(entries[i+1:], entries[i:])
	entries[i] = entry
	return entries
}
