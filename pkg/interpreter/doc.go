// Package interpreter evaluates nano expression trees.
//
// Evaluation is a direct walk over the AST. Each function call runs on a
// fresh runtime.Stack holding only its arguments, so a body sees its own
// parameters, its own let bindings and the global function table, never the
// caller's locals. The first runtime failure stops evaluation and is returned
// as a *diag.Diagnostic.
package interpreter
