// Package stimulus loads text files describing per-cycle ALU stimulus.
//
// Each non-empty line describes one clock cycle:
//
//	# comment
//	.equ MASK 0x0F        ; define a named constant (no cycle)
//	reset [count]         ; hold reset for count cycles (default 1, at most
//	                      ; clock.MaxResetCycles)
//	and MASK 0xF0         ; mnemonic A B
//	shl 0x80              ; single-operand operations take only A
//	add 0xFF 1 carry      ; trailing "carry" drives carry-in high
//	op 0x1D 0x42          ; raw 5-bit opcode A [B]
//	mul $(MASK + 1) 16    ; $(...) is a Starlark expression over equates
//
// Numbers use Go literal syntax (0x, 0b, 0o, underscores). Every operand must
// fit in 8 bits.
package stimulus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/sarchlab/alu8/emu"
	"github.com/sarchlab/alu8/insts"
	"github.com/sarchlab/alu8/timing/clock"
	"github.com/sarchlab/alu8/timing/core"
)

const carryToken = "carry"

// Program is a parsed stimulus file.
type Program struct {
	// Vectors holds one entry per clock cycle.
	Vectors []core.Vector
	// Lines holds the source line number of each vector.
	Lines []int
}

// Source returns a core.Source replaying the program.
func (p *Program) Source() *core.SliceSource {
	return core.NewSliceSource(p.Vectors)
}

// Parser reads stimulus text.
type Parser struct {
	// Equate holds constants defined with .equ, and may be pre-populated.
	Equate map[string]int64

	inputs emu.Inputs
}

// Load reads and parses the stimulus file at path.
func Load(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stimulus: %w", err)
	}
	defer file.Close()

	p := &Parser{}
	return p.Parse(file)
}

// Parse reads stimulus text from r.
func (p *Parser) Parse(r io.Reader) (*Program, error) {
	if p.Equate == nil {
		p.Equate = map[string]int64{}
	}

	prog := &Program{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		words, err := tokenize(line)
		if err == nil && len(words) != 0 {
			err = p.parseWords(prog, lineNo, words)
		}
		if err != nil {
			return nil, ErrSyntax{LineNo: lineNo, Line: strings.TrimSpace(line), Err: err}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stimulus: %w", err)
	}

	return prog, nil
}

func (p *Parser) parseWords(prog *Program, lineNo int, words []string) error {
	switch strings.ToLower(words[0]) {
	case ".equ":
		return p.parseEquate(words[1:])
	case "reset":
		return p.parseReset(prog, lineNo, words[1:])
	case "op":
		if len(words) < 2 {
			return ErrOperandMissing
		}
		code, err := p.valueOf(words[1])
		if err != nil {
			return err
		}
		if code < 0 || code > int64(insts.OpcodeMask) {
			return ErrOpcodeRange
		}
		opcode := insts.Opcode(code)
		return p.parseOperands(prog, lineNo, opcode, opcode.Op().Unary(), words[2:])
	}

	op, ok := insts.ParseOp(words[0])
	if !ok {
		return ErrMnemonic(words[0])
	}

	return p.parseOperands(prog, lineNo, op.Code(), op.Unary(), words[1:])
}

func (p *Parser) parseEquate(args []string) error {
	if len(args) != 2 || !isIdentifier(args[0]) {
		return ErrEquateSyntax
	}
	if _, ok := p.Equate[args[0]]; ok {
		return ErrEquateDuplicate
	}

	value, err := p.valueOf(args[1])
	if err != nil {
		return err
	}

	p.Equate[args[0]] = value
	return nil
}

func (p *Parser) parseReset(prog *Program, lineNo int, args []string) error {
	count := int64(1)
	switch len(args) {
	case 0:
	case 1:
		var err error
		count, err = p.valueOf(args[0])
		if err != nil {
			return err
		}
		if count < 1 || count > clock.MaxResetCycles {
			return ErrResetSyntax
		}
	default:
		return ErrOperandExtra
	}

	for range count {
		prog.Vectors = append(prog.Vectors, core.Vector{Inputs: p.inputs, Reset: true})
		prog.Lines = append(prog.Lines, lineNo)
	}
	return nil
}

func (p *Parser) parseOperands(
	prog *Program,
	lineNo int,
	code insts.Opcode,
	unary bool,
	args []string,
) error {
	in := emu.Inputs{Code: code}

	if n := len(args); n != 0 && strings.EqualFold(args[n-1], carryToken) {
		in.CarryIn = true
		args = args[:n-1]
	}

	need := 2
	if unary {
		need = 1
	}
	switch {
	case len(args) < need:
		return ErrOperandMissing
	case len(args) > 2:
		return ErrOperandExtra
	}

	operands := [2]uint8{}
	for n, arg := range args {
		value, err := p.valueOf(arg)
		if err != nil {
			return err
		}
		if value < 0 || value > 0xFF {
			return ErrOperandRange
		}
		operands[n] = uint8(value)
	}
	in.A, in.B = operands[0], operands[1]

	p.inputs = in
	prog.Vectors = append(prog.Vectors, core.Vector{Inputs: in})
	prog.Lines = append(prog.Lines, lineNo)
	return nil
}

// valueOf resolves a number, equate or $(...) expression.
func (p *Parser) valueOf(word string) (int64, error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return p.parenEval(word[2 : len(word)-1])
	}

	if value, ok := p.Equate[word]; ok {
		return value, nil
	}

	value, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		return 0, ErrParseValue(word)
	}
	return value, nil
}

// parenEval evaluates a $(...) expression with the equates predeclared.
func (p *Parser) parenEval(expr string) (int64, error) {
	thread := starlark.Thread{Name: "stimulus"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range p.Equate {
		pred[key] = starlark.MakeInt64(value)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return 0, ErrParseExpression(expr)
	}

	stInt, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	value, ok := stInt.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	return value, nil
}

// tokenize splits a line into words, keeping $(...) expressions whole and
// dropping comments.
func tokenize(line string) ([]string, error) {
	var (
		words []string
		word  strings.Builder
		depth int
	)

	flush := func() {
		if word.Len() != 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case depth == 0 && r == '#':
			i = len(runes)
		case depth == 0 && unicode.IsSpace(r):
			flush()
		case r == '$' && i+1 < len(runes) && runes[i+1] == '(':
			word.WriteString("$(")
			depth++
			i++
		case depth > 0 && r == '(':
			word.WriteRune(r)
			depth++
		case depth > 0 && r == ')':
			word.WriteRune(r)
			depth--
		default:
			word.WriteRune(r)
		}
	}

	if depth != 0 {
		return nil, ErrExpressionOpen
	}
	flush()

	return words, nil
}

func isIdentifier(word string) bool {
	for n, r := range word {
		if r == '_' || unicode.IsLetter(r) || (n > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return word != "" && !strings.EqualFold(word, carryToken)
}
