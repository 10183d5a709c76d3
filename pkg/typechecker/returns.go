package typechecker

import (
	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/diag"
)

// checkSingleReturn rejects a block containing more than one direct return
// statement, recursing into every nested block.
func checkSingleReturn(block *ast.Block) error {
	direct := 0
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.ReturnStatement:
			direct++
			if direct > 1 {
				return diag.Errorf(diag.KindStructure,
					"multiple return statements in one block").At(s.Position.Line, s.Position.Column)
			}
		case *ast.IfStatement:
			if err := checkSingleReturn(s.Then); err != nil {
				return err
			}
			if s.Else != nil {
				if err := checkSingleReturn(s.Else); err != nil {
					return err
				}
			}
		case *ast.WhileStatement:
			if err := checkSingleReturn(s.Body); err != nil {
				return err
			}
		case *ast.Block:
			if err := checkSingleReturn(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// guaranteesReturn reports whether every execution path through the block
// reaches a return. An if counts only when both branches do; a while never
// counts because its body may not run at all.
func guaranteesReturn(block *ast.Block) bool {
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.ReturnStatement:
			return true
		case *ast.IfStatement:
			if s.Else != nil && guaranteesReturn(s.Then) && guaranteesReturn(s.Else) {
				return true
			}
		case *ast.Block:
			if guaranteesReturn(s) {
				return true
			}
		}
	}
	return false
}
