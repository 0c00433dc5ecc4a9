package decl

import "github.com/lexcodex/docmark/source"

// Kind is the closed set of declaration kinds the extractor understands.
type Kind int

const (
	KindUnknown Kind = iota
	KindModule
	KindNamespace
	KindStruct
	KindEnum
	KindEnumCase
	KindFunc
	KindParam
	KindVar
	KindTypeAlias
	KindAssocType
	KindGeneric
	KindGenericTypeParam
	KindGenericValueParam
	KindExtension
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindModule:            "module",
	KindNamespace:         "namespace",
	KindStruct:            "struct",
	KindEnum:              "enum",
	KindEnumCase:          "enum_case",
	KindFunc:              "func",
	KindParam:             "param",
	KindVar:               "var",
	KindTypeAlias:         "type_alias",
	KindAssocType:         "assoc_type",
	KindGeneric:           "generic",
	KindGenericTypeParam:  "generic_type_param",
	KindGenericValueParam: "generic_value_param",
	KindExtension:         "extension",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Decl is one declaration node. A KindGeneric node wraps its declared inner
// declaration via Inner and lists its type/value parameters as Members.
type Decl struct {
	Kind    Kind
	Name    string
	Loc     source.Loc
	NameLoc source.Loc
	Inner   *Decl
	Members []*Decl
}

// AnchorLoc returns the location documentation searches start from: the
// primary location, falling back to the name location.
func (d *Decl) AnchorLoc() (source.Loc, bool) {
	if d.Loc.IsValid() {
		return d.Loc, true
	}
	if d.NameLoc.IsValid() {
		return d.NameLoc, true
	}
	return 0, false
}

// Collect flattens the tree under module into the list of documentable
// declarations, in source order. Generic wrappers contribute both themselves
// (so their inner kind drives the search) and their parameter members.
// Declarations without any resolvable location are returned separately so
// the caller can flag them; they are never silently dropped.
func Collect(module *Decl) (decls []*Decl, missing []*Decl) {
	for _, child := range module.Members {
		collectRec(child, &decls, &missing)
	}
	return decls, missing
}

func collectRec(d *Decl, out, missing *[]*Decl) {
	if d == nil {
		return
	}
	if _, ok := d.AnchorLoc(); ok {
		*out = append(*out, d)
	} else {
		*missing = append(*missing, d)
	}
	if d.Kind == KindGeneric {
		collectRec(d.Inner, out, missing)
	}
	for _, child := range d.Members {
		collectRec(child, out, missing)
	}
}
