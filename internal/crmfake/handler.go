package crmfake

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/johnwards/assocsync/internal/api"
)

type labelCreateBody struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	InverseLabel *string `json:"inverseLabel"`
}

type labelUpdateBody struct {
	AssociationTypeID int     `json:"associationTypeId"`
	Label             string  `json:"label"`
	InverseLabel      *string `json:"inverseLabel"`
}

type objectID struct {
	ID string `json:"id"`
}

type batchCreateInput struct {
	From  objectID  `json:"from"`
	To    objectID  `json:"to"`
	Types []TypeRef `json:"types"`
}

type batchArchiveInput struct {
	From objectID   `json:"from"`
	To   []objectID `json:"to"`
}

type associationResult struct {
	FromObjectTypeID string   `json:"fromObjectTypeId"`
	FromObjectID     string   `json:"fromObjectId"`
	ToObjectTypeID   string   `json:"toObjectTypeId"`
	ToObjectID       string   `json:"toObjectId"`
	Labels           []string `json:"labels"`
}

type batchError struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

func typePair(r *http.Request) pair {
	return pair{normalizeType(r.PathValue("from")), normalizeType(r.PathValue("to"))}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, categoryValidation, "Invalid input JSON")
		return false
	}
	return true
}

func writeResults(w http.ResponseWriter, status int, results any) {
	api.WriteJSON(w, status, map[string]any{"results": results})
}

// ListLabels handles listing association labels between two object types.
func (s *Server) ListLabels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	labels := s.listLabels(typePair(r))
	s.mu.Unlock()
	writeResults(w, http.StatusOK, labels)
}

// CreateLabel handles registering a label, and its inverse when one is given.
func (s *Server) CreateLabel(w http.ResponseWriter, r *http.Request) {
	var body labelCreateBody
	if !decode(w, r, &body) {
		return
	}
	created, err := s.createLabel(typePair(r), body.Label, body.Name, body.InverseLabel)
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	writeResults(w, http.StatusOK, created)
}

// UpdateLabel handles renaming a label.
func (s *Server) UpdateLabel(w http.ResponseWriter, r *http.Request) {
	var body labelUpdateBody
	if !decode(w, r, &body) {
		return
	}
	if body.AssociationTypeID == 0 {
		writeError(w, r, http.StatusBadRequest, categoryValidation, "associationTypeId is required")
		return
	}
	if err := s.updateLabel(typePair(r), body.AssociationTypeID, body.Label, body.InverseLabel); err != nil {
		writeStateError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteLabel handles deleting a label with its inverse and associations.
func (s *Server) DeleteLabel(w http.ResponseWriter, r *http.Request) {
	typeID, err := strconv.Atoi(r.PathValue("typeId"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, categoryValidation, "Invalid typeId")
		return
	}
	if err := s.deleteLabel(typePair(r), typeID); err != nil {
		writeStateError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Associate handles associating two records with the labels in the body.
func (s *Server) Associate(w http.ResponseWriter, r *http.Request) {
	var refs []TypeRef
	if !decode(w, r, &refs) {
		return
	}
	p := typePair(r)
	e := edge{p.from, r.PathValue("fromId"), p.to, r.PathValue("toId")}
	labels, err := s.associate(e, refs)
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, associationResult{
		FromObjectTypeID: objectTypeID(e.fromType),
		FromObjectID:     e.fromID,
		ToObjectTypeID:   objectTypeID(e.toType),
		ToObjectID:       e.toID,
		Labels:           labels,
	})
}

// Archive handles removing every association between two records.
func (s *Server) Archive(w http.ResponseWriter, r *http.Request) {
	p := typePair(r)
	s.archive(edge{p.from, r.PathValue("fromId"), p.to, r.PathValue("toId")})
	w.WriteHeader(http.StatusNoContent)
}

// BatchCreate handles associating many record pairs. Inputs that fail are
// reported per input with a 207 status.
func (s *Server) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs []batchCreateInput `json:"inputs"`
	}
	if !decode(w, r, &body) {
		return
	}

	p := typePair(r)
	results := []associationResult{}
	var errs []batchError
	for _, in := range body.Inputs {
		e := edge{p.from, in.From.ID, p.to, in.To.ID}
		labels, err := s.associate(e, in.Types)
		if err != nil {
			errs = append(errs, batchError{Status: "error", Category: categoryValidation, Message: err.Error()})
			continue
		}
		results = append(results, associationResult{
			FromObjectTypeID: objectTypeID(p.from),
			FromObjectID:     in.From.ID,
			ToObjectTypeID:   objectTypeID(p.to),
			ToObjectID:       in.To.ID,
			Labels:           labels,
		})
	}

	status := http.StatusCreated
	out := map[string]any{"status": "COMPLETE", "results": results}
	if len(errs) > 0 {
		status = http.StatusMultiStatus
		out["numErrors"] = len(errs)
		out["errors"] = errs
	}
	api.WriteJSON(w, status, out)
}

// BatchArchive handles removing associations for many record pairs.
func (s *Server) BatchArchive(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Inputs []batchArchiveInput `json:"inputs"`
	}
	if !decode(w, r, &body) {
		return
	}
	p := typePair(r)
	for _, in := range body.Inputs {
		for _, to := range in.To {
			s.archive(edge{p.from, in.From.ID, p.to, to.ID})
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateLimits handles configuring cardinality limits for association types.
func (s *Server) CreateLimits(w http.ResponseWriter, r *http.Request) {
	s.limitsHandler(w, r, false)
}

// UpdateLimits handles changing existing cardinality limits.
func (s *Server) UpdateLimits(w http.ResponseWriter, r *http.Request) {
	s.limitsHandler(w, r, true)
}

func (s *Server) limitsHandler(w http.ResponseWriter, r *http.Request, mustExist bool) {
	var body struct {
		Inputs []limitConfig `json:"inputs"`
	}
	if !decode(w, r, &body) {
		return
	}
	results, err := s.setLimits(typePair(r), body.Inputs, mustExist)
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"status": "COMPLETE", "results": results})
}

// HandleReset handles returning the fake to its seeded state.
func (s *Server) HandleReset(w http.ResponseWriter, r *http.Request) {
	s.Reset()
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
