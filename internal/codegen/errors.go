package codegen

import (
	"fmt"
	"strings"

	"imperat/internal/ast"
	"imperat/internal/diag"
	"imperat/internal/typesys"
)

func nodeError(kind error, node ast.Node, format string, args ...interface{}) *diag.CodeError {
	pos := node.Pos()
	err := diag.Errorf(kind, pos.Line, pos.Column, format, args...)
	err.Context = strings.TrimSpace(node.String())
	return err
}

func internalError(format string, args ...interface{}) *diag.CodeError {
	return &diag.CodeError{Kind: diag.ErrInternal, Message: fmt.Sprintf(format, args...)}
}

func outOfRange(lit *ast.IntegerLiteral, typ typesys.Type) *diag.CodeError {
	pos := lit.Pos()
	return nodeError(diag.ErrIndexOutOfRange, lit,
		"Index %d out of range for %s at line %d and column %d", lit.Value, typ, pos.Line, pos.Column)
}
