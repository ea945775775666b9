// Package bop implements the Bop scripting language: a small,
// dynamically-typed language meant for embedding inside a host
// application. The package exposes the full pipeline (lexer, parser,
// and tree-walking evaluator) behind a single entry point, Run.
//
// A host supplies source text, an implementation of Host for output and
// custom functions, and a Limits value bounding the number of evaluation
// steps and the amount of memory a script may use. Run executes the
// script to completion, to a returned Value, or to a halt: both syntax
// and runtime failures surface as *Error, never as a panic; an error
// returned by Host.Call is passed back unchanged.
//
// Bop has no imports, no file or network access, and no user-defined
// types: everything a script can touch is one of six Value kinds
// (number, string, bool, none, array, dict), a fixed catalog of
// built-in functions and methods, and whatever the host chooses to
// expose through Host.Call.
package bop
