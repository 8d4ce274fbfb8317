package diagram

import (
	"fmt"

	"phosmap/geometry"
)

// Store is the sole authority over entity creation, mutation and invariant
// enforcement. Every mutating operation validates against the document
// invariants before committing; on violation the whole operation is rejected
// and the store is unchanged.
type Store struct {
	doc *Document

	boxIndex   map[string]int    // box id -> index in doc.Boxes
	groupIndex map[string]int    // group id -> index in doc.Groups
	parent     map[string]string // member id -> direct containing group id

	nextGroup int    // sequence for generated group ids
	version   uint64 // bumped on every successful mutation
}

// NewStore wraps a document that has already passed layout validation. The
// store adopts the document; callers must not mutate it directly afterwards.
func NewStore(doc *Document) *Store {
	s := &Store{doc: doc}
	s.rebuildIndex()
	return s
}

// Version returns the monotonically increasing mutation counter. The render
// layer compares it against the version of its last draw to detect staleness.
func (s *Store) Version() uint64 {
	return s.version
}

// Document returns the live document. Read-only for callers.
func (s *Store) Document() *Document {
	return s.doc
}

// Replace swaps in a new document wholesale (load, undo, redo).
func (s *Store) Replace(doc *Document) {
	s.doc = doc
	s.rebuildIndex()
	s.version++
}

func (s *Store) rebuildIndex() {
	s.boxIndex = make(map[string]int, len(s.doc.Boxes))
	for i, b := range s.doc.Boxes {
		s.boxIndex[b.ID] = i
	}
	s.groupIndex = make(map[string]int, len(s.doc.Groups))
	s.parent = make(map[string]string)
	for i, g := range s.doc.Groups {
		s.groupIndex[g.ID] = i
		for _, m := range g.Members {
			s.parent[m] = g.ID
		}
	}
}

// Box returns the box with the given id.
func (s *Store) Box(id string) (ProtBox, bool) {
	i, ok := s.boxIndex[id]
	if !ok {
		return ProtBox{}, false
	}
	return s.doc.Boxes[i], true
}

// Group returns the group with the given id.
func (s *Store) Group(id string) (Group, bool) {
	i, ok := s.groupIndex[id]
	if !ok {
		return Group{}, false
	}
	return s.doc.Groups[i], true
}

// Has reports whether id resolves to a box or a group.
func (s *Store) Has(id string) bool {
	_, box := s.boxIndex[id]
	_, group := s.groupIndex[id]
	return box || group
}

// IsGroup reports whether id names a group.
func (s *Store) IsGroup(id string) bool {
	_, ok := s.groupIndex[id]
	return ok
}

// TopLevel walks the parent chain and returns the outermost entity containing
// id (id itself when top-level). Used by hit testing: members of a group are
// addressed through the group until it is dissolved.
func (s *Store) TopLevel(id string) string {
	for {
		p, ok := s.parent[id]
		if !ok {
			return id
		}
		id = p
	}
}

// TopLevelIDs returns every box and group id that is not a member of any
// group, in document order (boxes first).
func (s *Store) TopLevelIDs() []string {
	var ids []string
	for _, b := range s.doc.Boxes {
		if _, nested := s.parent[b.ID]; !nested {
			ids = append(ids, b.ID)
		}
	}
	for _, g := range s.doc.Groups {
		if _, nested := s.parent[g.ID]; !nested {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// Bounds returns the bounding rectangle of an entity: the box rectangle for
// a ProtBox, or the union of all transitive member boxes for a group.
func (s *Store) Bounds(id string) (geometry.Rect, bool) {
	if i, ok := s.boxIndex[id]; ok {
		return s.doc.Boxes[i].Bounds(), true
	}
	if _, ok := s.groupIndex[id]; ok {
		boxes := s.memberBoxes(id)
		if len(boxes) == 0 {
			return geometry.Rect{}, false
		}
		r := s.doc.Boxes[boxes[0]].Bounds()
		for _, bi := range boxes[1:] {
			r = r.Union(s.doc.Boxes[bi].Bounds())
		}
		return r, true
	}
	return geometry.Rect{}, false
}

// memberBoxes returns the indexes of every box transitively contained in the
// group. Membership is validated acyclic, so plain recursion terminates.
func (s *Store) memberBoxes(groupID string) []int {
	var out []int
	gi, ok := s.groupIndex[groupID]
	if !ok {
		return nil
	}
	for _, m := range s.doc.Groups[gi].Members {
		if bi, ok := s.boxIndex[m]; ok {
			out = append(out, bi)
		} else if _, ok := s.groupIndex[m]; ok {
			out = append(out, s.memberBoxes(m)...)
		}
	}
	return out
}

// MoveEntity shifts a box, or every transitive member box of a group, by the
// same delta. Relative offsets between group members are preserved exactly.
func (s *Store) MoveEntity(id string, dx, dy float64) error {
	if bi, ok := s.boxIndex[id]; ok {
		s.doc.Boxes[bi].X += dx
		s.doc.Boxes[bi].Y += dy
		s.version++
		return nil
	}
	if _, ok := s.groupIndex[id]; ok {
		for _, bi := range s.memberBoxes(id) {
			s.doc.Boxes[bi].X += dx
			s.doc.Boxes[bi].Y += dy
		}
		s.version++
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidReference, id)
}

// reaches reports whether the membership relation can walk from id to target.
func (s *Store) reaches(id, target string) bool {
	if id == target {
		return true
	}
	gi, ok := s.groupIndex[id]
	if !ok {
		return false
	}
	for _, m := range s.doc.Groups[gi].Members {
		if s.reaches(m, target) {
			return true
		}
	}
	return false
}

// CreateGroup makes a new group from the given member ids, removing each
// member from any group it previously belonged to. A donor group emptied by
// the theft is dissolved along with its arrows; the dissolved ids are
// returned next to the new group id so callers can prune selections. Fails
// with ErrInvalidReference on an unresolved id and with ErrCycleDetected if
// the resulting membership would be cyclic.
func (s *Store) CreateGroup(memberIDs []string) (string, []string, error) {
	if len(memberIDs) == 0 {
		return "", nil, fmt.Errorf("%w: empty member list", ErrInvalidReference)
	}
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if !s.Has(id) {
			return "", nil, fmt.Errorf("%w: %s", ErrInvalidReference, id)
		}
		if seen[id] {
			return "", nil, fmt.Errorf("%w: duplicate member %s", ErrInvalidReference, id)
		}
		seen[id] = true
	}
	// A member group that contains another listed member would end up
	// reachable twice through the new group; grouping an entity together
	// with one of its own ancestors is a cycle in the flattened relation.
	for _, id := range memberIDs {
		for _, other := range memberIDs {
			if id != other && s.reaches(id, other) {
				return "", nil, fmt.Errorf("%w: %s already contains %s", ErrCycleDetected, id, other)
			}
		}
	}

	groupID := s.freshGroupID()
	for _, id := range memberIDs {
		s.detachFromParent(id)
	}
	s.doc.Groups = append(s.doc.Groups, Group{ID: groupID, Members: append([]string(nil), memberIDs...)})
	s.rebuildIndex()
	pruned := s.pruneEmptyGroups()
	s.version++
	return groupID, pruned, nil
}

func (s *Store) freshGroupID() string {
	for {
		s.nextGroup++
		id := fmt.Sprintf("group_%d", s.nextGroup)
		if !s.Has(id) {
			return id
		}
	}
}

// AddToGroup appends an existing entity to a group, detaching it from its
// previous group first. A previous group emptied by the detach is dissolved;
// the dissolved ids are returned. Adding a group to one of its own
// descendants fails with ErrCycleDetected and leaves the store unchanged.
func (s *Store) AddToGroup(groupID, memberID string) ([]string, error) {
	gi, ok := s.groupIndex[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, groupID)
	}
	if !s.Has(memberID) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, memberID)
	}
	if s.reaches(memberID, groupID) {
		return nil, fmt.Errorf("%w: %s contains %s", ErrCycleDetected, memberID, groupID)
	}
	s.detachFromParent(memberID)
	s.doc.Groups[gi].Members = append(s.doc.Groups[gi].Members, memberID)
	s.rebuildIndex()
	pruned := s.pruneEmptyGroups()
	s.version++
	return pruned, nil
}

// DissolveGroup removes a group, promoting its direct members back to top
// level. Nested sub-groups survive as groups of their own.
func (s *Store) DissolveGroup(groupID string) error {
	if _, ok := s.groupIndex[groupID]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidReference, groupID)
	}
	s.detachFromParent(groupID)
	s.removeGroupRecord(groupID)
	s.rebuildIndex()
	s.version++
	return nil
}

// DeleteEntity removes a box (with its owned PTM overlays) or a group (with
// its transitive members). Arrows referencing any removed id are cascaded
// away, and a group left empty by the removal is itself dissolved. The ids of
// every removed box and group are returned so callers can prune selections.
func (s *Store) DeleteEntity(id string) ([]string, error) {
	if !s.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, id)
	}

	doomed := map[string]bool{id: true}
	if s.IsGroup(id) {
		s.collectMembers(id, doomed)
	}

	s.detachFromParent(id)

	var removed []string
	keepBoxes := s.doc.Boxes[:0]
	for _, b := range s.doc.Boxes {
		if doomed[b.ID] {
			removed = append(removed, b.ID)
			continue
		}
		keepBoxes = append(keepBoxes, b)
	}
	s.doc.Boxes = keepBoxes

	keepGroups := s.doc.Groups[:0]
	for _, g := range s.doc.Groups {
		if doomed[g.ID] {
			removed = append(removed, g.ID)
			continue
		}
		keepGroups = append(keepGroups, g)
	}
	s.doc.Groups = keepGroups

	s.dropDanglingArrows(doomed)
	s.rebuildIndex()

	// A parent group emptied by the removal dissolves too.
	removed = append(removed, s.pruneEmptyGroups()...)

	s.version++
	return removed, nil
}

func (s *Store) collectMembers(groupID string, into map[string]bool) {
	gi, ok := s.groupIndex[groupID]
	if !ok {
		return
	}
	for _, m := range s.doc.Groups[gi].Members {
		if into[m] {
			continue
		}
		into[m] = true
		if s.IsGroup(m) {
			s.collectMembers(m, into)
		}
	}
}

// detachFromParent removes id from its containing group's member list, if
// any. Index maps are left stale; callers rebuild when done.
func (s *Store) detachFromParent(id string) {
	parentID, ok := s.parent[id]
	if !ok {
		return
	}
	gi := s.groupIndex[parentID]
	members := s.doc.Groups[gi].Members
	for i, m := range members {
		if m == id {
			s.doc.Groups[gi].Members = append(members[:i], members[i+1:]...)
			break
		}
	}
	delete(s.parent, id)
}

func (s *Store) removeGroupRecord(groupID string) {
	gi := s.groupIndex[groupID]
	s.doc.Groups = append(s.doc.Groups[:gi], s.doc.Groups[gi+1:]...)
}

func (s *Store) dropDanglingArrows(doomed map[string]bool) {
	keep := s.doc.Arrows[:0]
	for _, a := range s.doc.Arrows {
		if doomed[a.Source] || doomed[a.Target] {
			continue
		}
		keep = append(keep, a)
	}
	s.doc.Arrows = keep
}

// pruneEmptyGroups repeatedly removes groups with no members, cascading
// upward (a dissolved group may empty its own parent). Arrows referencing a
// pruned group go with it. Returns the pruned group ids.
func (s *Store) pruneEmptyGroups() []string {
	var removed []string
	for {
		pruned := false
		for _, g := range s.doc.Groups {
			if len(g.Members) != 0 {
				continue
			}
			s.detachFromParent(g.ID)
			s.removeGroupRecord(g.ID)
			s.dropDanglingArrows(map[string]bool{g.ID: true})
			s.rebuildIndex()
			removed = append(removed, g.ID)
			pruned = true
			break
		}
		if !pruned {
			return removed
		}
	}
}

// CycleProteins rotates the protein list of a multi-protein box so the next
// protein becomes the displayed one. A box with fewer than two proteins is
// left alone.
func (s *Store) CycleProteins(boxID string) error {
	bi, ok := s.boxIndex[boxID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidReference, boxID)
	}
	ps := s.doc.Boxes[bi].Proteins
	if len(ps) < 2 {
		return nil
	}
	s.doc.Boxes[bi].Proteins = append(ps[1:], ps[0])
	s.version++
	return nil
}
