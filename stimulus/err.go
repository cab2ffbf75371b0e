package stimulus

import (
	"errors"

	"github.com/sarchlab/alu8/translate"
)

var f = translate.From

var (
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOperandRange    = errors.New(f("operand exceeds 8 bits"))
	ErrOpcodeRange     = errors.New(f("opcode exceeds 5 bits"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrResetSyntax     = errors.New(f("reset syntax"))
	ErrExpressionOpen  = errors.New(f("unterminated $( expression"))
)

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("'%v' is not an operation", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a number or equate", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
