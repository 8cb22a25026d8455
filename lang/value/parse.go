package value

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLiteral constructs the Value denoted by a typed literal argument: kind
// is one of KindInt, KindString, KindBool or KindNil and text is its textual
// form. For KindString, text is expected to already be escape-decoded (the
// loader runs Unescape once, at load time, per spec §4.1) — this function
// does not decode it again. Parse failures are returned as plain errors; the
// caller (operand resolution in the machine package) is responsible for
// mapping them to the OperandType fault.
func ParseLiteral(kind Kind, text string) (Value, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q: %w", text, err)
		}
		return Int(n), nil
	case KindString:
		return String(text), nil
	case KindBool:
		switch strings.ToLower(text) {
		case "true":
			return True, nil
		case "false":
			return False, nil
		default:
			return nil, fmt.Errorf("invalid bool literal %q", text)
		}
	case KindNil:
		return Nil, nil
	default:
		return nil, fmt.Errorf("unknown literal type %q", kind)
	}
}
