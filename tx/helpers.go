package tx

import (
	"fmt"
	"strings"

	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// pendingKey names an (entity, attribute) pair whose current value this
// pipeline run has an opinion about, ahead of it being visible through
// db.Fetch/db.Slice (which only ever see already-committed state).
type pendingKey struct {
	e triple.Eid
	a triple.AttrId
}

type oneState struct {
	known bool
	value triple.Value
}

type claimKey struct {
	a   triple.AttrId
	val string
}

func valueKey(v triple.Value) string { return fmt.Sprintf("%T:%v", v, v) }

// resolveRef resolves ref to a concrete entity id, tempid-aware: a
// not-yet-bound tempid allocates a fresh eid and binds it, matching
// spec.md §4.5 step 5 ("reuse prior mapping if old-eid is a tempid
// already bound, else next-eid(db)").
func (p *pipeline) resolveRef(ref any) (triple.Eid, error) {
	if eid, ok := ref.(triple.Eid); ok {
		return eid, nil
	}
	if ref == nil {
		return 0, terr.New(terr.KindTransactSyntax, "entity reference must not be nil", nil)
	}
	if IsTempId(ref) {
		if eid, ok := p.tempIds[ref]; ok {
			return eid, nil
		}
		eid := p.db.NextEid()
		p.tempIds[ref] = eid
		return eid, nil
	}
	return p.db.EntidStrict(ref)
}

// resolveRefSoft is resolveRef's no-op-on-missing counterpart, used by
// retract forms where "missing entity is a no-op" (spec.md §4.5).
func (p *pipeline) resolveRefSoft(ref any) (triple.Eid, bool, error) {
	if eid, ok := ref.(triple.Eid); ok {
		return eid, true, nil
	}
	if ref == nil {
		return 0, false, nil
	}
	if IsTempId(ref) {
		eid, ok := p.tempIds[ref]
		return eid, ok, nil
	}
	return p.db.Entid(ref)
}

// resolveAttr normalizes a raw attribute reference (required to be a
// keyword or string per spec.md §4.5) and looks up its schema record.
func (p *pipeline) resolveAttr(aRef any) (triple.Keyword, triple.AttrSchema, error) {
	var k triple.Keyword
	switch t := aRef.(type) {
	case triple.Keyword:
		k = t
	case string:
		k = triple.NewKeyword(t)
	default:
		return triple.Keyword{}, triple.AttrSchema{}, terr.Newf(terr.KindTransactSyntax,
			map[string]any{"a": aRef}, "attribute must be a keyword or string, got %T", aRef)
	}
	attr, ok := p.db.AttrByIdent(k)
	if !ok {
		return k, triple.AttrSchema{}, terr.Newf(terr.KindTransactSyntax,
			map[string]any{"a": k.String()}, "unknown attribute %s", k)
	}
	return k, attr, nil
}

// resolveValue normalizes a raw value for assertion against attr: ref
// attributes resolve their value as an entity reference (tempid-aware),
// everything else is passed through triple.Normalize and checked against
// attr's declared valueType (spec.md §3 invariant 5).
func (p *pipeline) resolveValue(attr triple.AttrSchema, vRef any) (triple.Value, error) {
	if vRef == nil {
		return nil, terr.New(terr.KindTransactSyntax, "value must not be nil", nil)
	}
	if attr.ValueType == triple.TypeRef {
		eid, err := p.resolveRef(vRef)
		if err != nil {
			return nil, err
		}
		return eid, nil
	}
	v := triple.Normalize(vRef)
	vt, err := triple.TypeOf(v)
	if err != nil {
		return nil, terr.Wrap(terr.KindTransactSyntax, err,
			fmt.Sprintf("value for %s", attr.Ident), map[string]any{"a": attr.Ident.String()})
	}
	if vt != attr.ValueType {
		return nil, terr.Newf(terr.KindSchemaValidation,
			map[string]any{"a": attr.Ident.String(), "want": attr.ValueType.String(), "got": vt.String()},
			"value for %s has type %s, attribute declares %s", attr.Ident, vt, attr.ValueType)
	}
	return v, nil
}

func cloneMapEntity(m MapEntity) MapEntity {
	out := make(MapEntity, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// asLookupRef reports whether v is a [attr value] lookup-ref form.
func asLookupRef(v any) (store.LookupRef, bool) {
	switch t := v.(type) {
	case store.LookupRef:
		return t, true
	case []any:
		if len(t) == 2 {
			if k, ok := t[0].(triple.Keyword); ok {
				return store.LookupRef{Attr: k, Value: t[1]}, true
			}
		}
	}
	return store.LookupRef{}, false
}

// isLookupRefShaped reports whether v looks like a 2-element [attr
// value] lookup ref, the one case where a collection-valued attribute's
// value is NOT folded element-by-element (spec.md §4.5 explode).
func isLookupRefShaped(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return false
	}
	_, ok = arr[0].(triple.Keyword)
	return ok
}

// valuesOf expands v into the list of values an attribute's slot should
// be exploded into: every element of v if many is set and v is a
// collection (other than a lookup ref), otherwise v as a single value.
func valuesOf(v any, many bool) []any {
	if many {
		if arr, ok := v.([]any); ok && !isLookupRefShaped(arr) {
			return arr
		}
	}
	return []any{v}
}

// reverseRefShorthand reports whether k is a reverse-ref shorthand
// (":ns/_attr" or "_attr") and, if so, returns the straight attribute it
// refers to.
func reverseRefShorthand(k triple.Keyword) (triple.Keyword, bool) {
	s := k.String()
	prefix, local := "", s
	if slash := strings.LastIndexByte(s, '/'); slash >= 0 {
		prefix, local = s[:slash+1], s[slash+1:]
	} else if strings.HasPrefix(s, ":") {
		prefix, local = ":", s[1:]
	}
	if !strings.HasPrefix(local, "_") {
		return triple.Keyword{}, false
	}
	return triple.NewKeyword(prefix + local[1:]), true
}

// injectedReverseKey builds the reverse-ref shorthand for k, the inverse
// of reverseRefShorthand, used when a nested map value under a ref
// attribute is re-fed as its own map-entity (spec.md §4.5 explode).
func injectedReverseKey(k triple.Keyword) triple.Keyword {
	s := k.String()
	if slash := strings.LastIndexByte(s, '/'); slash >= 0 {
		return triple.NewKeyword(s[:slash+1] + "_" + s[slash+1:])
	}
	if strings.HasPrefix(s, ":") {
		return triple.NewKeyword(":_" + s[1:])
	}
	return triple.NewKeyword("_" + s)
}
