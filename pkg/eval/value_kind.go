package eval

// ValueKind tags the variants of Value.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindString
	KindBoolean
	KindNumber
	KindList
	KindClosure
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "STRING"
	case KindBoolean:
		return "BOOLEAN"
	case KindNumber:
		return "NUMBER"
	case KindList:
		return "LIST"
	case KindClosure:
		return "FUNCTION"
	default:
		return "INVALID"
	}
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}
