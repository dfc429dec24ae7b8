package repository

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/deppfellow/etudiants-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryStudentStore is an in-process StudentStore for dev/testing.
//
// It follows the MongoDB store closely: documents are validated before
// writes, email is unique, listing goes through BSON documents so sorting
// and projection behave the same way.
type MemoryStudentStore struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]model.Student
}

func NewMemoryStudentStore() *MemoryStudentStore {
	return &MemoryStudentStore{docs: make(map[primitive.ObjectID]model.Student)}
}

func (r *MemoryStudentStore) ExistsByName(_ context.Context, nom, prenom string, exclude *primitive.ObjectID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, s := range r.docs {
		if exclude != nil && id == *exclude {
			continue
		}
		if s.Nom == nom && s.Prenom == prenom {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryStudentStore) Create(_ context.Context, s *model.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkEmail(s.Email, primitive.NilObjectID); err != nil {
		return err
	}

	s.ID = primitive.NewObjectID()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	r.docs[s.ID] = *s
	return nil
}

func (r *MemoryStudentStore) Find(_ context.Context, opts ListOptions) ([]bson.M, error) {
	r.mu.RLock()
	docs, err := r.documents()
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sortDocuments(docs, withIDTiebreak(opts.Sort))

	start := min(max(opts.Skip, 0), int64(len(docs)))
	end := int64(len(docs))
	if opts.Limit > 0 && opts.Limit < end-start {
		end = start + opts.Limit
	}

	page := make([]bson.M, 0, end-start)
	for _, doc := range docs[start:end] {
		page = append(page, project(doc, opts.Fields))
	}
	return page, nil
}

func (r *MemoryStudentStore) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

func (r *MemoryStudentStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemoryStudentStore) UpdateByID(_ context.Context, id primitive.ObjectID, patch *model.StudentPatch) (*model.Student, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.IsEmpty() {
		return &s, nil
	}

	if patch.Email != nil {
		if err := r.checkEmail(*patch.Email, id); err != nil {
			return nil, err
		}
	}

	patch.ApplyTo(&s)
	s.UpdatedAt = now()
	r.docs[id] = s
	return &s, nil
}

func (r *MemoryStudentStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *MemoryStudentStore) Search(_ context.Context, filter StudentFilter, sortBy []SortField) ([]model.Student, error) {
	match, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	var matched []model.Student
	for _, s := range r.docs {
		if match(s) {
			matched = append(matched, s)
		}
	}
	r.mu.RUnlock()

	docs := make([]bson.M, 0, len(matched))
	byID := make(map[primitive.ObjectID]model.Student, len(matched))
	for _, s := range matched {
		doc, err := toDocument(s)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		byID[s.ID] = s
	}
	sortDocuments(docs, withIDTiebreak(sortBy))

	students := make([]model.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, byID[doc[model.FieldID].(primitive.ObjectID)])
	}
	return students, nil
}

// checkEmail reports a duplicate key error shaped like the server's when
// another student already uses email. Callers hold the write lock.
func (r *MemoryStudentStore) checkEmail(email string, self primitive.ObjectID) error {
	for id, s := range r.docs {
		if id != self && s.Email == email {
			return duplicateKeyError(model.FieldEmail, email)
		}
	}
	return nil
}

func duplicateKeyError(field, value string) error {
	raw, _ := bson.Marshal(bson.M{
		"code":     11000,
		"keyValue": bson.M{field: value},
	})
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: etudiants index: %s_1 dup key: { %s: %q }", field, field, value),
			Raw:     raw,
		}},
	}
}

// documents returns every student as a BSON document. Callers hold the lock.
func (r *MemoryStudentStore) documents() ([]bson.M, error) {
	docs := make([]bson.M, 0, len(r.docs))
	for _, s := range r.docs {
		doc, err := toDocument(s)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func toDocument(s model.Student) (bson.M, error) {
	data, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode student: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode student: %w", err)
	}
	return doc, nil
}

func project(doc bson.M, fields []string) bson.M {
	if len(fields) == 0 {
		return doc
	}
	out := bson.M{model.FieldID: doc[model.FieldID]}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

func compileFilter(f StudentFilter) (func(model.Student) bool, error) {
	var nomRe, filiereRe *regexp.Regexp
	var err error

	if f.NomContains != "" {
		if nomRe, err = regexp.Compile("(?i)" + ContainsPattern(f.NomContains)); err != nil {
			return nil, err
		}
	}
	if f.Filiere != "" {
		if filiereRe, err = regexp.Compile("(?i)" + ExactPattern(f.Filiere)); err != nil {
			return nil, err
		}
	}

	return func(s model.Student) bool {
		switch {
		case f.Actif != nil && s.Actif != *f.Actif:
			return false
		case nomRe != nil && !nomRe.MatchString(s.Nom):
			return false
		case filiereRe != nil && !filiereRe.MatchString(s.Filiere):
			return false
		case f.AnneeMin != nil && s.Annee < *f.AnneeMin:
			return false
		case f.AnneeMax != nil && s.Annee > *f.AnneeMax:
			return false
		case f.MoyenneMin != nil && s.Moyenne < *f.MoyenneMin:
			return false
		}
		return true
	}, nil
}

func sortDocuments(docs []bson.M, keys []SortField) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(docs[i][k.Field], docs[j][k.Field])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders BSON values the way the server does for the types a
// student document holds. Missing values sort first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return compareInts(int64(x), int64(y))
		}
	case primitive.ObjectID:
		if y, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(x[:], y[:])
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareInts(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
