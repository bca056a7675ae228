// Package crmfake is an in-memory stand-in for the HubSpot v4 associations
// API: labels, cardinality limits and record associations. It serves the
// same paths and error documents as the real API.
package crmfake

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	errNotFound   = errors.New("not found")
	errValidation = errors.New("validation")
)

type pair struct{ from, to string }

// Label is an association type registered in the fake.
type Label struct {
	TypeID    int     `json:"typeId"`
	Label     *string `json:"label"`
	Category  string  `json:"category"`
	name      string
	inverseID int
}

type edge struct{ fromType, fromID, toType, toID string }

type failure struct {
	status  int
	message string
}

// Server holds the fake CRM state. The zero value is not usable; use New.
type Server struct {
	token string

	mu         sync.Mutex
	nextTypeID int
	labels     map[pair][]*Label
	typePairs  map[int]pair
	limits     map[int]int
	edges      map[edge]map[int]bool
	failures   map[string][]failure

	requests atomic.Int64
}

// New returns a fake seeded with the platform-defined association types.
// When token is non-empty every request must carry it as a bearer token.
func New(token string) *Server {
	s := &Server{token: token}
	s.Reset()
	return s
}

// Reset drops every label, limit, association and queued failure and
// reseeds the platform-defined association types. The request count is kept.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTypeID = firstCustomTypeID
	s.labels = map[pair][]*Label{}
	s.typePairs = map[int]pair{}
	s.limits = map[int]int{}
	s.edges = map[edge]map[int]bool{}
	s.failures = map[string][]failure{}
	for _, st := range standardTypes {
		l := &Label{TypeID: st.ID, Category: "HUBSPOT_DEFINED", inverseID: st.Inverse}
		if st.Label != "" {
			label := st.Label
			l.Label = &label
		}
		p := pair{st.From, st.To}
		s.labels[p] = append(s.labels[p], l)
		s.typePairs[st.ID] = p
	}
}

// Requests returns how many requests the fake has served.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// FailNext makes the next request routed to pattern fail with status and
// message. Patterns are the ServeMux patterns in RegisterRoutes, e.g.
// "POST /crm/v4/associations/{from}/{to}/labels".
func (s *Server) FailNext(pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[pattern] = append(s.failures[pattern], failure{status: status, message: message})
}

func (s *Server) takeFailure(pattern string) (failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queued := s.failures[pattern]
	if len(queued) == 0 {
		return failure{}, false
	}
	s.failures[pattern] = queued[1:]
	return queued[0], true
}

// Labels returns the association types registered from one object type to
// another.
func (s *Server) Labels(fromType, toType string) []Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLabels(pair{normalizeType(fromType), normalizeType(toType)})
}

func (s *Server) listLabels(p pair) []Label {
	out := make([]Label, 0, len(s.labels[p]))
	for _, l := range s.labels[p] {
		out = append(out, *l)
	}
	return out
}

// AssociationTypes returns the type IDs associating two records, sorted.
func (s *Server) AssociationTypes(fromType, fromID, toType, toID string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedTypes(s.edges[edge{normalizeType(fromType), fromID, normalizeType(toType), toID}])
}

// Limit returns the cardinality limit configured for a type ID.
func (s *Server) Limit(typeID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.limits[typeID]
	return n, ok
}

func sortedTypes(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s *Server) createLabel(p pair, label, name string, inverse *string) ([]Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if label == "" {
		return nil, fmt.Errorf("%w: label is required", errValidation)
	}
	for _, l := range s.labels[p] {
		if name != "" && l.name == name {
			return nil, fmt.Errorf("%w: a label named %q already exists", errValidation, name)
		}
	}

	forward := &Label{TypeID: s.nextTypeID, Label: &label, Category: "USER_DEFINED", name: name}
	s.nextTypeID++
	s.labels[p] = append(s.labels[p], forward)
	s.typePairs[forward.TypeID] = p
	created := []Label{*forward}

	if inverse != nil {
		inv := *inverse
		back := &Label{TypeID: s.nextTypeID, Label: &inv, Category: "USER_DEFINED", inverseID: forward.TypeID}
		s.nextTypeID++
		forward.inverseID = back.TypeID
		rp := pair{p.to, p.from}
		s.labels[rp] = append(s.labels[rp], back)
		s.typePairs[back.TypeID] = rp
		created[0].inverseID = back.TypeID
		created = append(created, *back)
	}
	return created, nil
}

func (s *Server) lookup(p pair, typeID int) (*Label, error) {
	for _, l := range s.labels[p] {
		if l.TypeID == typeID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: association type %d between %s and %s", errNotFound, typeID, p.from, p.to)
}

func (s *Server) updateLabel(p pair, typeID int, label string, inverse *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.lookup(p, typeID)
	if err != nil {
		return err
	}
	if l.Category == "HUBSPOT_DEFINED" {
		return fmt.Errorf("%w: association type %d is platform defined", errValidation, typeID)
	}
	if label != "" {
		l.Label = &label
	}
	if inverse != nil && l.inverseID != 0 {
		if back, err := s.lookup(pair{p.to, p.from}, l.inverseID); err == nil {
			inv := *inverse
			back.Label = &inv
		}
	}
	return nil
}

func (s *Server) deleteLabel(p pair, typeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.lookup(p, typeID)
	if err != nil {
		return err
	}
	if l.Category == "HUBSPOT_DEFINED" {
		return fmt.Errorf("%w: association type %d is platform defined", errValidation, typeID)
	}
	s.removeType(typeID)
	if l.inverseID != 0 {
		s.removeType(l.inverseID)
	}
	return nil
}

// removeType drops a type with its limit and every association using it.
func (s *Server) removeType(typeID int) {
	p, ok := s.typePairs[typeID]
	if !ok {
		return
	}
	kept := s.labels[p][:0]
	for _, l := range s.labels[p] {
		if l.TypeID != typeID {
			kept = append(kept, l)
		}
	}
	s.labels[p] = kept
	delete(s.typePairs, typeID)
	delete(s.limits, typeID)
	for e, types := range s.edges {
		delete(types, typeID)
		if len(types) == 0 {
			delete(s.edges, e)
		}
	}
}

// TypeRef names an association type in an associate request.
type TypeRef struct {
	Category string `json:"associationCategory"`
	TypeID   int    `json:"associationTypeId"`
}

// associate links two records with every type in refs. Types must belong
// to the object type pair and respect configured limits. Inverse types are
// applied to the reverse edge.
func (s *Server) associate(e edge, refs []TypeRef) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pair{e.fromType, e.toType}
	resolved := make([]*Label, 0, len(refs))
	for _, ref := range refs {
		l, err := s.lookup(p, ref.TypeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errValidation, err)
		}
		if limit, ok := s.limits[l.TypeID]; ok && !s.edges[e][l.TypeID] && s.countFrom(e, l.TypeID) >= limit {
			return nil, fmt.Errorf("%w: record %s already has %d associations of type %d", errValidation, e.fromID, limit, l.TypeID)
		}
		resolved = append(resolved, l)
	}

	var labels []string
	for _, l := range resolved {
		s.link(e, l.TypeID)
		if l.inverseID != 0 {
			s.link(edge{e.toType, e.toID, e.fromType, e.fromID}, l.inverseID)
		}
		if l.Label != nil {
			labels = append(labels, *l.Label)
		}
	}
	if labels == nil {
		labels = []string{}
	}
	return labels, nil
}

func (s *Server) link(e edge, typeID int) {
	if s.edges[e] == nil {
		s.edges[e] = map[int]bool{}
	}
	s.edges[e][typeID] = true
}

func (s *Server) countFrom(e edge, typeID int) int {
	n := 0
	for other, types := range s.edges {
		if other.fromType == e.fromType && other.fromID == e.fromID && other.toType == e.toType && types[typeID] {
			n++
		}
	}
	return n
}

// archive removes every association between two records, both directions.
func (s *Server) archive(e edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.edges, e)
	delete(s.edges, edge{e.toType, e.toID, e.fromType, e.fromID})
}

// Limit input and output of the cardinality endpoints.
type limitConfig struct {
	TypeID         int    `json:"typeId"`
	Category       string `json:"category"`
	MaxToObjectIDs int    `json:"maxToObjectIds"`
}

func (s *Server) setLimits(p pair, inputs []limitConfig, mustExist bool) ([]limitConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, in := range inputs {
		if _, err := s.lookup(p, in.TypeID); err != nil {
			return nil, err
		}
		if in.MaxToObjectIDs < 1 {
			return nil, fmt.Errorf("%w: maxToObjectIds must be positive", errValidation)
		}
		if _, ok := s.limits[in.TypeID]; mustExist && !ok {
			return nil, fmt.Errorf("%w: no limit configured for type %d", errNotFound, in.TypeID)
		}
	}
	out := make([]limitConfig, 0, len(inputs))
	for _, in := range inputs {
		s.limits[in.TypeID] = in.MaxToObjectIDs
		out = append(out, in)
	}
	return out, nil
}
