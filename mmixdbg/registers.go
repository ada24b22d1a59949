package mmixdbg

import (
	"strings"

	"github.com/beevik/prefixtree/v2"

	"github.com/jac18281828/checksmix/isa"
)

// specialField associates a special register's canonical name with its
// index into vm.VM.Special, the same name/index pairing the teacher's
// settingsField carries for struct fields.
type specialField struct {
	name  string
	index int
}

var (
	specialTree   = prefixtree.New[*specialField]()
	specialFields []specialField
)

func init() {
	specialFields = make([]specialField, len(isa.SpecialNames))
	for i, name := range isa.SpecialNames {
		specialFields[i] = specialField{name: name, index: i}
		specialTree.Add(strings.ToLower(name), &specialFields[i])
	}
}

// lookupSpecial resolves an abbreviated special-register name (e.g. "rj"
// for "rJ") via prefix matching, reporting the full name and index.
func lookupSpecial(abbrev string) (name string, index int, ok bool) {
	f, err := specialTree.FindValue(strings.ToLower(abbrev))
	if err != nil {
		return "", 0, false
	}
	return f.name, f.index, true
}
