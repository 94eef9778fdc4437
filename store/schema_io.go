package store

import (
	"encoding/binary"
	"fmt"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

// loadSchema reads the persisted schema sub-database, merges in the
// implicit schema (spec.md §3), merges in any user-supplied attributes not
// yet persisted, and builds the in-memory mirror + reverse index.
func (s *Store) loadSchema(userSchema map[triple.Keyword]triple.AttrSchema) error {
	s.schema = make(map[triple.Keyword]triple.AttrSchema)

	cur, err := s.eng.Scan(s.schemaSub, engine.All(false))
	if err != nil {
		return err
	}
	defer cur.Close()

	for cur.Next() {
		attr, err := decodeAttrSchema(cur.Key(), cur.Value())
		if err != nil {
			return err
		}
		s.schema[attr.Ident] = attr
		if attr.Aid > s.maxAid {
			s.maxAid = attr.Aid
		}
	}

	implicit := triple.ImplicitSchema()
	for k, a := range implicit {
		if _, ok := s.schema[k]; !ok {
			s.schema[k] = a
			if a.Aid > s.maxAid {
				s.maxAid = a.Aid
			}
			if err := s.persistAttr(a); err != nil {
				return err
			}
		}
	}

	for k, a := range userSchema {
		if _, ok := s.schema[k]; ok {
			continue
		}
		a.Ident = k
		if err := validateAttrSchema(a); err != nil {
			return err
		}
		s.maxAid++
		a.Aid = s.maxAid
		s.schema[k] = a
		if err := s.persistAttr(a); err != nil {
			return err
		}
	}

	s.rschema = triple.NewRSchema(s.schema)
	return nil
}

func (s *Store) persistAttr(attr triple.AttrSchema) error {
	key := []byte(attr.Ident.String())
	val := encodeAttrSchema(attr)
	return s.eng.Write([]engine.Op{{Kind: engine.OpPut, Sub: s.schemaSub, Key: key, Val: val}})
}

func encodeAttrSchema(a triple.AttrSchema) []byte {
	buf := make([]byte, 8)
	buf[0] = byte(a.ValueType)
	buf[1] = byte(a.Cardinality)
	buf[2] = byte(a.Unique)
	if a.IsComponent {
		buf[3] = 1
	}
	binary.BigEndian.PutUint32(buf[4:8], uint32(a.Aid))
	return buf
}

func decodeAttrSchema(key, val []byte) (triple.AttrSchema, error) {
	if len(val) != 8 {
		return triple.AttrSchema{}, fmt.Errorf("store: malformed schema record for %q", key)
	}
	return triple.AttrSchema{
		Ident:       triple.NewKeyword(string(key)),
		ValueType:   triple.ValueType(val[0]),
		Cardinality: triple.Cardinality(val[1]),
		Unique:      triple.Unique(val[2]),
		IsComponent: val[3] == 1,
		Aid:         triple.AttrId(binary.BigEndian.Uint32(val[4:8])),
	}, nil
}
