// Package noexit содержит анализатор, который запрещает завершать процесс
// напрямую из функции main пакета main: os.Exit, log.Fatal* и Fatal логгеров zap.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer запрещает os.Exit, log.Fatal* и Fatal логгеров zap в функции main.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает os.Exit, log.Fatal* и zap Fatal в функции main пакета main",
	Run:  run,
}

// forbidden содержит полные имена запрещённых функций и методов.
var forbidden = map[string]bool{
	"os.Exit":        true,
	"log.Fatal":      true,
	"log.Fatalf":     true,
	"log.Fatalln":    true,
	"syscall.Exit":   true,
	"runtime.Goexit": true,

	"(*go.uber.org/zap.Logger).Fatal":         true,
	"(*go.uber.org/zap.SugaredLogger).Fatal":  true,
	"(*go.uber.org/zap.SugaredLogger).Fatalf": true,
	"(*go.uber.org/zap.SugaredLogger).Fatalw": true,
}

// NewAnalyzer возвращает анализатор noexit.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil || fn.Body == nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				// Замыкания внутри main выполняются позже, их не проверяем
				if _, ok := n.(*ast.FuncLit); ok {
					return false
				}

				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				// Проверяем по объекту, а не по имени: импорт может быть переименован
				obj, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
				if !ok || obj.Pkg() == nil {
					return true
				}
				if name := obj.FullName(); forbidden[name] {
					pass.Reportf(call.Pos(), "вызов %s в функции main запрещён", name)
				}
				return true
			})
		}
	}
	return nil, nil
}
