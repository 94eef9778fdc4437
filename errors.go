package chrono

import (
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

func unknownAttrErr(attr triple.Keyword) error {
	return terr.Newf(terr.KindTransactSyntax, map[string]any{"attr": attr.String()}, "unknown attribute %s", attr)
}
