package domain

// ArgKind tags the variant held by an ArgValue.
type ArgKind int

const (
	ArgScalar ArgKind = iota
	ArgBool
	ArgList
)

// ArgValue is a CLI argument value: a boolean switch, a list, or a scalar.
type ArgValue struct {
	kind   ArgKind
	flag   bool
	items  []string
	scalar string
}

func BoolArg(v bool) ArgValue {
	return ArgValue{kind: ArgBool, flag: v}
}

func ListArg(items ...string) ArgValue {
	return ArgValue{kind: ArgList, items: append([]string(nil), items...)}
}

func ScalarArg(v string) ArgValue {
	return ArgValue{kind: ArgScalar, scalar: v}
}

func (v ArgValue) Kind() ArgKind { return v.kind }

func (v ArgValue) Bool() bool { return v.flag }

func (v ArgValue) List() []string { return append([]string(nil), v.items...) }

func (v ArgValue) Scalar() string { return v.scalar }

// Argument is a named CLI argument.
type Argument struct {
	Name  string
	Value ArgValue
}

// Arguments preserves the order in which the caller supplied its keys.
type Arguments []Argument
