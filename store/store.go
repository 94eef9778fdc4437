// Package store owns the four datom indexes plus the schema and meta
// sub-databases, and translates index-scan requests into key-range
// iterations over the engine. Ported from the teacher's
// datalog/storage/database.go and key_encoder_binary.go, stripped of the
// query/executor wiring (out of scope per spec.md §1) and rebuilt around
// triple.Datom and an integer entity/attribute id space instead of the
// teacher's content-hashed Entity/Attribute.
package store

import (
	"sync"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// IndexType names one of the four sorted views over the datom set.
type IndexType byte

const (
	EAVT IndexType = iota
	AEVT
	AVET
	VAET
)

func (t IndexType) String() string {
	switch t {
	case EAVT:
		return "eavt"
	case AEVT:
		return "aevt"
	case AVET:
		return "avet"
	case VAET:
		return "vaet"
	default:
		return "unknown"
	}
}

const (
	subEAV    = "eav"
	subAEV    = "aev"
	subAVE    = "ave"
	subVAE    = "vae"
	subSchema = "schema"
	subMeta   = "meta"
)

// Store is the durable storage layer for one database directory.
type Store struct {
	eng *engine.Engine

	eav, aev, ave, vae, schemaSub, metaSub engine.Sub

	mu      sync.RWMutex
	schema  map[triple.Keyword]triple.AttrSchema
	rschema *triple.RSchema

	maxAid triple.AttrId
	maxEid triple.Eid
	maxTx  triple.TxId
}

// Open opens (creating if absent) a database directory, merges userSchema
// with the implicit schema, and loads the attribute registry and
// max-eid/max-tx counters.
func Open(dir string, userSchema map[triple.Keyword]triple.AttrSchema, opts engine.Options) (*Store, error) {
	eng, err := engine.Open(dir, opts)
	if err != nil {
		return nil, err
	}

	s := &Store{eng: eng}
	for name, dst := range map[string]*engine.Sub{
		subEAV:    &s.eav,
		subAEV:    &s.aev,
		subAVE:    &s.ave,
		subVAE:    &s.vae,
		subSchema: &s.schemaSub,
		subMeta:   &s.metaSub,
	} {
		sub, err := eng.OpenSub(name)
		if err != nil {
			return nil, err
		}
		*dst = sub
	}

	if err := s.loadSchema(userSchema); err != nil {
		return nil, err
	}
	if err := s.loadMeta(); err != nil {
		return nil, err
	}
	if s.maxEid == 0 {
		eid, err := s.initMaxEid()
		if err != nil {
			return nil, err
		}
		s.maxEid = eid
	}

	return s, nil
}

// Close closes the underlying engine.
func (s *Store) Close() error {
	return s.eng.Close()
}

// Schema returns a snapshot copy of the current attribute schema map.
func (s *Store) Schema() map[triple.Keyword]triple.AttrSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[triple.Keyword]triple.AttrSchema, len(s.schema))
	for k, v := range s.schema {
		out[k] = v
	}
	return out
}

// RSchema returns the current reverse schema index.
func (s *Store) RSchema() *triple.RSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rschema
}

// AttrByIdent looks up an attribute's schema record by its keyword ident.
func (s *Store) AttrByIdent(k triple.Keyword) (triple.AttrSchema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.schema[k]
	return a, ok
}

// AttrByID looks up an attribute's schema record by its assigned aid.
func (s *Store) AttrByID(id triple.AttrId) (triple.AttrSchema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.schema {
		if a.Aid == id {
			return a, true
		}
	}
	return triple.AttrSchema{}, false
}

// MaxEid returns the largest entity id ever assigned.
func (s *Store) MaxEid() triple.Eid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxEid
}

// MaxTx returns the last committed transaction id (Tx0 if none yet).
func (s *Store) MaxTx() triple.TxId {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxTx
}

// NextEid allocates the next entity id without persisting it; it becomes
// durable only once a datom using it is committed via LoadDatoms.
func (s *Store) NextEid() triple.Eid {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxEid++
	return s.maxEid
}

// RegisterAttr ensures attr is present in the schema, assigning a fresh aid
// if it's new, validating option values per spec.md §7 (schema/validation).
func (s *Store) RegisterAttr(attr triple.AttrSchema) (triple.AttrSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.schema[attr.Ident]; ok {
		return existing, nil
	}

	if err := validateAttrSchema(attr); err != nil {
		return triple.AttrSchema{}, err
	}

	s.maxAid++
	attr.Aid = s.maxAid
	s.schema[attr.Ident] = attr
	s.rschema = triple.NewRSchema(s.schema)

	if err := s.persistAttr(attr); err != nil {
		return triple.AttrSchema{}, err
	}
	return attr, nil
}

func validateAttrSchema(attr triple.AttrSchema) error {
	if attr.IsComponent && attr.ValueType != triple.TypeRef {
		return terr.Newf(terr.KindSchemaValidation, map[string]any{"attr": attr.Ident.String()},
			"%s: isComponent requires valueType ref", attr.Ident)
	}
	return nil
}
