package graph

import "slices"

// ContractLinks is the validated type/holder relation table.
// A link is recorded only when the owner names the holder with [ContractClass]
// and the holder names the owner back with [ContractClassFor].
type ContractLinks struct {
	holders map[string][]string // owner ID -> holder IDs
	owners  map[string]string   // holder ID -> owner ID
}

// NewContractLinks returns an empty table.
func NewContractLinks() *ContractLinks {
	return &ContractLinks{
		holders: make(map[string][]string),
		owners:  make(map[string]string),
	}
}

// Add records a confirmed link.
func (l *ContractLinks) Add(owner, holder string) {
	if !slices.Contains(l.holders[owner], holder) {
		l.holders[owner] = append(l.holders[owner], holder)
	}
	l.owners[holder] = owner
}

// Reset removes every link.
func (l *ContractLinks) Reset() {
	clear(l.holders)
	clear(l.owners)
}

// HoldersOf returns the holder type IDs linked from owner.
func (l *ContractLinks) HoldersOf(owner string) []string {
	if l == nil {
		return nil
	}
	return l.holders[owner]
}

// OwnerOf returns the owner type ID of a holder.
func (l *ContractLinks) OwnerOf(holder string) (string, bool) {
	if l == nil {
		return "", false
	}
	owner, ok := l.owners[holder]
	return owner, ok
}

// IsHolder reports whether id is a confirmed contract holder.
func (l *ContractLinks) IsHolder(id string) bool {
	_, ok := l.OwnerOf(id)
	return ok
}

// Len returns the number of confirmed links.
func (l *ContractLinks) Len() int {
	if l == nil {
		return 0
	}
	return len(l.owners)
}
