package checks

import (
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"golang.org/x/net/html"

	"github.com/lcalzada-xor/auditlens/pkg/document"
	"github.com/lcalzada-xor/auditlens/pkg/models"
)

var scriptTypes = map[string]bool{
	"":                       true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/ecmascript": true,
	"text/ecmascript":        true,
	"module":                 true,
}

func isInlineScript(n *html.Node) bool {
	if !document.IsElement(n, "script") || document.HasAttr(n, "src") {
		return false
	}
	t := strings.ToLower(strings.TrimSpace(document.AttrOr(n, "type", "")))
	return scriptTypes[t]
}

// resolveCallee names a callee such as document.write; it returns "" for
// anything that is not a plain identifier chain.
func resolveCallee(node ast.Expression) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return string(n.Name)
	case *ast.DotExpression:
		left := resolveCallee(n.Left)
		if left == "" {
			return ""
		}
		return left + "." + string(n.Identifier.Name)
	case *ast.BracketExpression:
		left := resolveCallee(n.Left)
		if lit, ok := n.Member.(*ast.StringLiteral); ok && left != "" {
			return left + "." + string(lit.Value)
		}
	}
	return ""
}

func isDocumentWrite(name string) bool {
	name = strings.TrimPrefix(name, "window.")
	return name == "document.write" || name == "document.writeln"
}

// writeCounter walks a script AST counting document.write calls.
type writeCounter struct {
	calls int
}

func (w *writeCounter) stmts(list []ast.Statement) {
	for _, s := range list {
		w.walk(s)
	}
}

func (w *writeCounter) exprs(list []ast.Expression) {
	for _, e := range list {
		w.walk(e)
	}
}

func (w *writeCounter) walk(node ast.Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Program:
		w.stmts(n.Body)
	case *ast.BlockStatement:
		if n != nil {
			w.stmts(n.List)
		}
	case *ast.ExpressionStatement:
		w.walk(n.Expression)
	case *ast.IfStatement:
		w.walk(n.Test)
		w.walk(n.Consequent)
		w.walk(n.Alternate)
	case *ast.ReturnStatement:
		w.walk(n.Argument)
	case *ast.VariableStatement:
		for _, b := range n.List {
			w.walk(b.Initializer)
		}
	case *ast.LexicalDeclaration:
		for _, b := range n.List {
			w.walk(b.Initializer)
		}
	case *ast.FunctionDeclaration:
		if n.Function != nil {
			w.walk(n.Function.Body)
		}
	case *ast.FunctionLiteral:
		if n != nil {
			w.walk(n.Body)
		}
	case *ast.ArrowFunctionLiteral:
		switch body := n.Body.(type) {
		case *ast.BlockStatement:
			w.walk(body)
		case *ast.ExpressionBody:
			w.walk(body.Expression)
		}
	case *ast.ForStatement:
		w.walk(n.Test)
		w.walk(n.Update)
		w.walk(n.Body)
	case *ast.ForInStatement:
		w.walk(n.Source)
		w.walk(n.Body)
	case *ast.ForOfStatement:
		w.walk(n.Source)
		w.walk(n.Body)
	case *ast.WhileStatement:
		w.walk(n.Test)
		w.walk(n.Body)
	case *ast.DoWhileStatement:
		w.walk(n.Body)
		w.walk(n.Test)
	case *ast.TryStatement:
		w.walk(n.Body)
		if n.Catch != nil {
			w.walk(n.Catch.Body)
		}
		if n.Finally != nil {
			w.walk(n.Finally)
		}
	case *ast.SwitchStatement:
		w.walk(n.Discriminant)
		for _, c := range n.Body {
			w.walk(c.Test)
			w.stmts(c.Consequent)
		}
	case *ast.LabelledStatement:
		w.walk(n.Statement)

	case *ast.CallExpression:
		if isDocumentWrite(resolveCallee(n.Callee)) {
			w.calls++
		}
		w.walk(n.Callee)
		w.exprs(n.ArgumentList)
	case *ast.NewExpression:
		w.walk(n.Callee)
		w.exprs(n.ArgumentList)
	case *ast.AssignExpression:
		w.walk(n.Left)
		w.walk(n.Right)
	case *ast.BinaryExpression:
		w.walk(n.Left)
		w.walk(n.Right)
	case *ast.ConditionalExpression:
		w.walk(n.Test)
		w.walk(n.Consequent)
		w.walk(n.Alternate)
	case *ast.UnaryExpression:
		w.walk(n.Operand)
	case *ast.SequenceExpression:
		w.exprs(n.Sequence)
	case *ast.DotExpression:
		w.walk(n.Left)
	case *ast.BracketExpression:
		w.walk(n.Left)
		w.walk(n.Member)
	case *ast.OptionalChain:
		w.walk(n.Expression)
	case *ast.Optional:
		w.walk(n.Expression)
	case *ast.AwaitExpression:
		w.walk(n.Argument)
	case *ast.YieldExpression:
		w.walk(n.Argument)
	case *ast.SpreadElement:
		w.walk(n.Expression)

	case *ast.ArrayLiteral:
		w.exprs(n.Value)
	case *ast.ObjectLiteral:
		for _, prop := range n.Value {
			switch p := prop.(type) {
			case *ast.PropertyKeyed:
				if p.Computed {
					w.walk(p.Key)
				}
				w.walk(p.Value)
			case *ast.PropertyShort:
				w.walk(p.Initializer)
			case *ast.SpreadElement:
				w.walk(p.Expression)
			}
		}
	case *ast.TemplateLiteral:
		w.walk(n.Tag)
		w.exprs(n.Expressions)

	case *ast.ClassDeclaration:
		if n.Class != nil {
			w.walk(n.Class)
		}
	case *ast.ClassLiteral:
		if n == nil {
			return
		}
		w.walk(n.SuperClass)
		for _, el := range n.Body {
			switch m := el.(type) {
			case *ast.MethodDefinition:
				w.walk(m.Body)
			case *ast.FieldDefinition:
				w.walk(m.Initializer)
			case *ast.ClassStaticBlock:
				w.walk(m.Block)
			}
		}
	}
}

var docWriteCheck = Check{
	ID: "docwrite", Name: "document.write Usage", Category: models.CategoryPerformance, Weight: 2,
	Eval: func(in *Input) Outcome {
		parsed, calls := 0, 0
		for _, s := range in.Doc.FindAllFunc(isInlineScript) {
			src := document.Text(s)
			if strings.TrimSpace(src) == "" {
				continue
			}
			program, err := parser.ParseFile(nil, "", src, 0)
			if err != nil {
				continue
			}
			parsed++
			wc := &writeCounter{}
			wc.walk(program)
			calls += wc.calls
		}

		value := fmt.Sprintf("%d inline scripts analysed - %d document.write calls", parsed, calls)
		switch {
		case parsed == 0:
			return Outcome{models.StatusInfo, "(no inline scripts to analyse)",
				"No inline JavaScript was found or it could not be parsed.", nil}
		case calls > 0:
			return Outcome{models.StatusWarn, value,
				"<code>document.write</code> blocks the parser and browsers may skip it on slow connections. Insert content with DOM APIs instead.", nil}
		}
		return Outcome{models.StatusPass, value, "No <code>document.write</code> calls in inline scripts.", nil}
	},
}
