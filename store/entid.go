package store

import (
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// LookupRef is the [attr value] form spec.md §4.4 resolves through AVET.
type LookupRef struct {
	Attr  triple.Keyword
	Value triple.Value
}

// Entid resolves ref to a concrete entity id, per spec.md §4.4:
//   - a positive integer (Eid/int64/int) resolves to itself
//   - a LookupRef resolves via the attribute's AVET slice; the attribute
//     must carry :db/unique, and a nil Value resolves to (0, false, nil)
//   - a Keyword k resolves as Entid(db, LookupRef{KwIdent, k})
//   - anything else is entity-id/syntax
//
// The second return is false when ref legitimately resolves to "no
// entity" (a nil-valued lookup ref), as opposed to an error.
func (s *Store) Entid(ref any) (triple.Eid, bool, error) {
	switch v := ref.(type) {
	case triple.Eid:
		return v, true, nil
	case int64:
		return triple.Eid(v), true, nil
	case int:
		return triple.Eid(v), true, nil
	case LookupRef:
		return s.resolveLookupRef(v)
	case triple.Keyword:
		return s.resolveLookupRef(LookupRef{Attr: triple.KwIdent, Value: v})
	case []any:
		if len(v) != 2 {
			return 0, false, terr.Newf(terr.KindLookupRefSyntax, nil,
				"lookup ref must have exactly 2 elements, got %d", len(v))
		}
		attrKw, ok := v[0].(triple.Keyword)
		if !ok {
			return 0, false, terr.New(terr.KindLookupRefSyntax, "lookup ref attribute must be a keyword", nil)
		}
		return s.resolveLookupRef(LookupRef{Attr: attrKw, Value: v[1]})
	default:
		return 0, false, terr.Newf(terr.KindEntityIDSyntax, map[string]any{"ref": ref}, "invalid entity reference: %v (%T)", ref, ref)
	}
}

func (s *Store) resolveLookupRef(lr LookupRef) (triple.Eid, bool, error) {
	if lr.Value == nil {
		return 0, false, nil
	}

	attr, ok := s.AttrByIdent(lr.Attr)
	if !ok {
		return 0, false, terr.Newf(terr.KindLookupRefSyntax, map[string]any{"attr": lr.Attr.String()},
			"lookup ref attribute %s is not in the schema", lr.Attr)
	}
	if attr.Unique == triple.UniqueNone {
		return 0, false, terr.Newf(terr.KindLookupRefUnique, map[string]any{"attr": lr.Attr.String()},
			"lookup ref attribute %s does not carry :db/unique", lr.Attr)
	}

	aid := attr.Aid
	v := triple.Normalize(lr.Value)
	datoms, err := s.Slice(Components{A: &aid, V: &v})
	if err != nil {
		return 0, false, err
	}
	if len(datoms) == 0 {
		return 0, false, nil
	}
	return datoms[0].E, true, nil
}

// EntidStrict is Entid, but treats "no entity" as entity-id/missing rather
// than a silent nil.
func (s *Store) EntidStrict(ref any) (triple.Eid, error) {
	e, ok, err := s.Entid(ref)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, terr.Newf(terr.KindEntityIDMissing, map[string]any{"ref": ref}, "no entity found for %v", ref)
	}
	return e, nil
}

// EntidSome is EntidStrict lifted through nil: a nil ref resolves to
// (0, false, nil) instead of raising entity-id/missing.
func (s *Store) EntidSome(ref any) (triple.Eid, bool, error) {
	if ref == nil {
		return 0, false, nil
	}
	e, err := s.EntidStrict(ref)
	if err != nil {
		return 0, false, err
	}
	return e, true, nil
}
