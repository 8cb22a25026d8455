// Package xmlload implements the XmlLoader component from spec §4.1: it
// turns an XML document into a *program.Program, enforcing the document
// grammar and the two historical argument-tag conventions, and fails with a
// typed *ipperr.Error (XmlMalformed or XmlStructure) on any violation.
//
// No third-party XML library appears anywhere in the retrieved example
// pack — every XML-touching file in it either wraps encoding/xml or is a
// single, non-importable reference implementation of one — so this loader
// is built directly on the standard library's streaming xml.Decoder. The
// decoder's tokens are first assembled into a minimal element tree covering
// the whole document, and the grammar is validated on that tree afterwards.
package xmlload

import (
	"encoding/xml"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

const wantLanguage = "IPPcode23"

var argTagRx = regexp.MustCompile(`^arg([1-9][0-9]*)$`)

// LoadFile opens path and loads it as described by Load.
func LoadFile(path string) (*program.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ipperr.Wrap(ipperr.InputOpen, path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses r as an IPPcode23 XML document and returns the resulting
// Program, or an *ipperr.Error of kind XmlMalformed or XmlStructure.
func Load(r io.Reader) (*program.Program, error) {
	root, err := decodeElement(r)
	if err != nil {
		return nil, err
	}

	if root.Name.Local != "program" {
		return nil, ipperr.Newf(ipperr.XmlStructure, "root element is %q, want <program>", root.Name.Local)
	}

	lang, hasLang := attr(root.Attrs, "language")
	if !hasLang {
		return nil, ipperr.New(ipperr.XmlMalformed)
	}
	if lang != wantLanguage {
		return nil, ipperr.Newf(ipperr.XmlStructure, "language attribute is %q, want %q", lang, wantLanguage)
	}

	instrs, err := decodeInstructions(root.Children)
	if err != nil {
		return nil, err
	}

	sort.Slice(instrs, func(i, j int) bool { return instrs[i].Order < instrs[j].Order })

	return program.New(instrs)
}

func decodeInstructions(children []element) ([]program.Instruction, error) {
	seenOrders := make(map[int]bool, len(children))
	instrs := make([]program.Instruction, 0, len(children))

	for _, child := range children {
		if child.Name.Local != "instruction" {
			return nil, ipperr.Newf(ipperr.XmlStructure, "unexpected element <%s>, want <instruction>", child.Name.Local)
		}
		if len(child.Attrs) != 2 {
			return nil, ipperr.Newf(ipperr.XmlStructure, "<instruction> must have exactly the order and opcode attributes")
		}

		orderText, hasOrder := attr(child.Attrs, "order")
		opcode, hasOpcode := attr(child.Attrs, "opcode")
		if !hasOrder || !hasOpcode {
			return nil, ipperr.Newf(ipperr.XmlStructure, "<instruction> must have exactly the order and opcode attributes")
		}
		if opcode == "" {
			return nil, ipperr.Newf(ipperr.XmlStructure, "<instruction> opcode must not be empty")
		}

		order, err := strconv.Atoi(orderText)
		if err != nil || order <= 0 {
			return nil, ipperr.Newf(ipperr.XmlStructure, "<instruction> order %q must be a positive integer", orderText)
		}
		if seenOrders[order] {
			return nil, ipperr.Newf(ipperr.XmlStructure, "duplicate instruction order %d", order)
		}
		seenOrders[order] = true

		args, err := decodeArgs(child.Children)
		if err != nil {
			return nil, err
		}

		instrs = append(instrs, program.Instruction{
			Order:  order,
			OpName: strings.ToUpper(opcode),
			Args:   args,
		})
	}

	return instrs, nil
}

// decodeArgs decodes an instruction's argument children, honoring both the
// positional (arg1, arg2, arg3) and historical descending (arg3, arg2, arg1)
// tag conventions: each tag's own trailing digit gives its final slot,
// independent of document order, which is the generalization of "both
// conventions, and reversed document order is un-reversed on load" spec §4.1
// asks for.
func decodeArgs(children []element) ([]program.Arg, error) {
	n := len(children)
	if n > 3 {
		return nil, ipperr.Newf(ipperr.XmlStructure, "instruction has %d arguments, at most 3 allowed", n)
	}

	slots := make([]program.Arg, n)
	filled := make([]bool, n)

	for _, child := range children {
		m := argTagRx.FindStringSubmatch(child.Name.Local)
		if m == nil {
			return nil, ipperr.Newf(ipperr.XmlStructure, "unexpected argument element <%s>", child.Name.Local)
		}
		pos, _ := strconv.Atoi(m[1])
		if pos < 1 || pos > n {
			return nil, ipperr.Newf(ipperr.XmlStructure, "argument tag <%s> out of range for %d argument(s)", child.Name.Local, n)
		}
		if filled[pos-1] {
			return nil, ipperr.Newf(ipperr.XmlStructure, "duplicate argument position %d", pos)
		}

		arg, err := decodeArg(child)
		if err != nil {
			return nil, err
		}
		slots[pos-1] = arg
		filled[pos-1] = true
	}

	return slots, nil
}

func decodeArg(el element) (program.Arg, error) {
	typ, ok := attr(el.Attrs, "type")
	if !ok {
		return nil, ipperr.Newf(ipperr.XmlStructure, "argument <%s> is missing its type attribute", el.Name.Local)
	}

	text := el.Text

	switch typ {
	case "var":
		frame, name, err := splitVariable(text)
		if err != nil {
			return nil, err
		}
		return program.Variable{Frame: frame, Name: name}, nil
	case "label":
		if text == "" {
			return nil, ipperr.New(ipperr.XmlStructure)
		}
		return program.Label{Name: text}, nil
	case "type":
		kind := value.Kind(text)
		if !kind.Valid() {
			return nil, ipperr.Newf(ipperr.XmlStructure, "invalid type name %q", text)
		}
		return program.TypeTag{Kind: kind}, nil
	case "int", "string", "bool", "nil":
		kind := value.Kind(typ)
		if kind == value.KindString {
			text = value.Unescape(text)
		}
		return program.Literal{Kind: kind, Text: text}, nil
	default:
		return nil, ipperr.Newf(ipperr.XmlStructure, "invalid argument type %q", typ)
	}
}

func splitVariable(text string) (program.FrameKind, string, error) {
	frame, name, ok := strings.Cut(text, "@")
	if !ok || name == "" {
		return 0, "", ipperr.Newf(ipperr.XmlStructure, "malformed variable reference %q", text)
	}
	switch frame {
	case "GF":
		return program.GlobalFrame, name, nil
	case "TF":
		return program.TemporaryFrame, name, nil
	case "LF":
		return program.LocalFrame, name, nil
	default:
		return 0, "", ipperr.Newf(ipperr.XmlStructure, "unknown frame %q in variable reference %q", frame, text)
	}
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// element is a minimal materialized tree node: just enough structure
// (attributes, element children, and text content) to validate the
// program/instruction/argument grammar without pulling in a DOM library.
type element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []element
}

// decodeElement streams r with an xml.Decoder and builds the single root
// element tree, failing with XmlMalformed on any token-level error (not
// well-formed XML) as opposed to the structural errors raised once the tree
// is validated.
func decodeElement(r io.Reader) (element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return element{}, ipperr.New(ipperr.XmlMalformed)
		}
		if err != nil {
			return element{}, ipperr.Wrap(ipperr.XmlMalformed, "", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return buildElement(dec, start)
		}
		// skip leading ProcInst/Comment/CharData before the root element
	}
}

func buildElement(dec *xml.Decoder, start xml.StartElement) (element, error) {
	el := element{Name: start.Name, Attrs: append([]xml.Attr(nil), start.Attr...)}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return element{}, ipperr.Wrap(ipperr.XmlMalformed, "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := buildElement(dec, t)
			if err != nil {
				return element{}, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			el.Text = text.String()
			return el, nil
		}
	}
}
