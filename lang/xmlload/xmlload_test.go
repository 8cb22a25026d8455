package xmlload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
)

func mustLoad(t *testing.T, doc string) *program.Program {
	t.Helper()
	p, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	return p
}

func kindOf(t *testing.T, err error) ipperr.Kind {
	t.Helper()
	var e *ipperr.Error
	require.ErrorAs(t, err, &e)
	return e.Kind
}

func TestLoadValidProgram(t *testing.T) {
	p := mustLoad(t, `<?xml version="1.0" encoding="UTF-8"?>
<program language="IPPcode23">
	<instruction order="2" opcode="write">
		<arg1 type="var">GF@m</arg1>
	</instruction>
	<instruction order="1" opcode="MOVE">
		<arg1 type="var">GF@m</arg1>
		<arg2 type="string">hi</arg2>
	</instruction>
</program>`)

	require.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.At(0).Order)
	assert.Equal(t, "MOVE", p.At(0).OpName)
	assert.Equal(t, 2, p.At(1).Order)
	assert.Equal(t, "WRITE", p.At(1).OpName)
}

func TestLoadAcceptsDescendingArgTags(t *testing.T) {
	p := mustLoad(t, `<program language="IPPcode23">
	<instruction order="1" opcode="ADD">
		<arg3 type="int">40</arg3>
		<arg2 type="int">2</arg2>
		<arg1 type="var">GF@r</arg1>
	</instruction>
</program>`)

	instr := p.At(0)
	require.Len(t, instr.Args, 3)
	v, ok := instr.Args[0].(program.Variable)
	require.True(t, ok)
	assert.Equal(t, "r", v.Name)
	lit1, ok := instr.Args[1].(program.Literal)
	require.True(t, ok)
	assert.Equal(t, "2", lit1.Text)
	lit2, ok := instr.Args[2].(program.Literal)
	require.True(t, ok)
	assert.Equal(t, "40", lit2.Text)
}

func TestLoadDecodesStringEscapes(t *testing.T) {
	p := mustLoad(t, `<program language="IPPcode23">
	<instruction order="1" opcode="WRITE">
		<arg1 type="string">a\032b</arg1>
	</instruction>
</program>`)

	lit := p.At(0).Args[0].(program.Literal)
	assert.Equal(t, "a b", lit.Text)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		desc string
		doc  string
		kind ipperr.Kind
	}{
		{"not well formed", `<program language="IPPcode23">`, ipperr.XmlMalformed},
		{"missing language attribute", `<program></program>`, ipperr.XmlMalformed},
		{"wrong root element", `<prog language="IPPcode23"></prog>`, ipperr.XmlStructure},
		{"wrong language", `<program language="IPPcode22"></program>`, ipperr.XmlStructure},
		{
			"non instruction child",
			`<program language="IPPcode23"><foo/></program>`,
			ipperr.XmlStructure,
		},
		{
			"missing order attribute",
			`<program language="IPPcode23"><instruction opcode="BREAK"/></program>`,
			ipperr.XmlStructure,
		},
		{
			"non positive order",
			`<program language="IPPcode23"><instruction order="0" opcode="BREAK"/></program>`,
			ipperr.XmlStructure,
		},
		{
			"duplicate order",
			`<program language="IPPcode23">
				<instruction order="1" opcode="BREAK"/>
				<instruction order="1" opcode="BREAK"/>
			</program>`,
			ipperr.XmlStructure,
		},
		{
			"too many arguments",
			`<program language="IPPcode23">
				<instruction order="1" opcode="BREAK">
					<arg1 type="int">1</arg1>
					<arg2 type="int">2</arg2>
					<arg3 type="int">3</arg3>
					<arg4 type="int">4</arg4>
				</instruction>
			</program>`,
			ipperr.XmlStructure,
		},
		{
			"unknown argument type",
			`<program language="IPPcode23">
				<instruction order="1" opcode="WRITE">
					<arg1 type="float">1.0</arg1>
				</instruction>
			</program>`,
			ipperr.XmlStructure,
		},
		{
			"malformed variable reference",
			`<program language="IPPcode23">
				<instruction order="1" opcode="WRITE">
					<arg1 type="var">nope</arg1>
				</instruction>
			</program>`,
			ipperr.XmlStructure,
		},
	}

	for _, tt := range cases {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.kind, kindOf(t, err))
		})
	}
}

func TestLoadDuplicateLabelIsSemanticError(t *testing.T) {
	_, err := Load(strings.NewReader(`<program language="IPPcode23">
		<instruction order="1" opcode="LABEL"><arg1 type="label">L</arg1></instruction>
		<instruction order="2" opcode="LABEL"><arg1 type="label">L</arg1></instruction>
	</program>`))
	require.Error(t, err)
	assert.Equal(t, ipperr.SemanticError, kindOf(t, err))
}
