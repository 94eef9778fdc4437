package triple

import "sync"

// keywordIntern provides keyword interning so repeated attribute lookups
// don't keep reallocating the same string. Ported from the teacher's
// datalog/intern.go KeywordIntern; the Identity half of that file has no
// analogue here since entity ids are plain integers, not content hashes.
type keywordIntern struct {
	cache sync.Map // map[string]*Keyword
}

var globalKeywordIntern = &keywordIntern{}

// InternKeyword returns a shared, pointer-stable Keyword instance for s.
func InternKeyword(s string) *Keyword {
	if val, ok := globalKeywordIntern.cache.Load(s); ok {
		return val.(*Keyword)
	}
	kw := &Keyword{value: s}
	actual, _ := globalKeywordIntern.cache.LoadOrStore(s, kw)
	return actual.(*Keyword)
}

// ClearInterns drops the keyword intern cache. Useful for tests.
func ClearInterns() {
	globalKeywordIntern = &keywordIntern{}
}
