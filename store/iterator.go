package store

import (
	"bytes"
)

// mergeIterator combines a snapshot of cached entries with an iterator of
// the parent store. When both sides hold the same key the cached entry wins.
// Deleted entries are never exposed.
type mergeIterator struct {
	local      []cacheEntry
	parent     Iterator
	descending bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(local []cacheEntry, parent Iterator, descending bool) (*mergeIterator, error) {
	it := &mergeIterator{
		local:      local,
		parent:     parent,
		descending: descending,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// side tells which of the merged sources holds the current element.
type side uint8

const (
	sideNone side = iota
	sideLocal
	sideParent
	sideBoth
)

func (m *mergeIterator) current() side {
	hasLocal := len(m.local) > 0
	hasParent := m.parent != nil && m.parent.Valid()
	switch {
	case !hasLocal && !hasParent:
		return sideNone
	case !hasParent:
		return sideLocal
	case !hasLocal:
		return sideParent
	}

	cmp := bytes.Compare(m.local[0].key, m.parent.Key())
	if m.descending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return sideLocal
	case cmp > 0:
		return sideParent
	default:
		return sideBoth
	}
}

func (m *mergeIterator) Valid() bool {
	return m.current() != sideNone
}

func (m *mergeIterator) Next() error {
	switch m.current() {
	case sideLocal:
		m.local = m.local[1:]
	case sideParent:
		if err := m.parent.Next(); err != nil {
			return err
		}
	case sideBoth:
		m.local = m.local[1:]
		if err := m.parent.Next(); err != nil {
			return err
		}
	default:
		panic("iterator exhausted")
	}
	return m.skipDeleted()
}

// skipDeleted advances past all deleted cache entries together with the
// parent values they shadow.
func (m *mergeIterator) skipDeleted() error {
	for {
		s := m.current()
		if s != sideLocal && s != sideBoth {
			return nil
		}
		if !m.local[0].deleted {
			return nil
		}
		m.local = m.local[1:]
		if s == sideBoth {
			if err := m.parent.Next(); err != nil {
				return err
			}
		}
	}
}

func (m *mergeIterator) Key() []byte {
	switch m.current() {
	case sideLocal, sideBoth:
		return m.local[0].key
	case sideParent:
		return m.parent.Key()
	default:
		panic("iterator exhausted")
	}
}

func (m *mergeIterator) Value() []byte {
	switch m.current() {
	case sideLocal, sideBoth:
		return m.local[0].value
	case sideParent:
		return m.parent.Value()
	default:
		panic("iterator exhausted")
	}
}

func (m *mergeIterator) Close() {
	if m.parent != nil {
		m.parent.Close()
	}
	m.local = nil
}
