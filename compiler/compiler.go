// Copyright © 2025 The DWSLS authors

// Package compiler defines the contract between dwsls and the script
// compiler front end. The compiler itself lives in the embedder; dwsls
// only consumes the declaration tree and diagnostics a Provider returns
// from each parse of the workspace.
package compiler

import "context"

// Implicit base names every declared type carries. Edges to these are
// never recorded in the type-reference index.
const (
	// ImplicitInterface is the universal base interface implemented by
	// every class.
	ImplicitInterface = "IInterface"

	// ImplicitRoot is the universal root class every class descends from.
	ImplicitRoot = "TObject"
)

// Severity classifies a compiler diagnostic.
type Severity int

const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityHint:
		return "hint"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Span is a 1-based source region as reported by the compiler. A zero
// Line means the compiler had no position for the node. Consumers
// convert to zero-based ranges; spans whose converted form is invalid
// map to the undefined range rather than rejecting the declaration.
type Span struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// Diagnostic is a single compiler message. Path may be empty when the
// message is not attributable to a file (e.g. unit resolution failures);
// such diagnostics are attributed to the workspace root.
type Diagnostic struct {
	Path     string
	Span     Span
	Severity Severity
	Message  string
}

// TypeKind classifies a type declaration.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// VarDecl is a field, parameter, local, or script-level variable.
// Implicit is set for variables created by dynamic reference without a
// declaration node; they carry no usable span.
type VarDecl struct {
	Name     string
	Type     string
	Span     Span
	Implicit bool
}

// MethodDecl is a method with its parameters and block-scoped locals.
// ReturnType is empty for procedures.
type MethodDecl struct {
	Name       string
	ReturnType string
	Span       Span
	Params     []VarDecl
	Locals     []VarDecl
}

// TypeDecl is a declared class, interface, or enum, possibly nested.
type TypeDecl struct {
	Name       string
	Kind       TypeKind
	Span       Span
	Super      string   // extended supertype, if any
	Interfaces []string // implemented interfaces
	Fields     []VarDecl
	Methods    []MethodDecl
	Nested     []TypeDecl
}

// FileDecls holds all declarations of one compiled source file.
type FileDecls struct {
	// Path is the original path of the file (never the shadow path, even
	// when the compiler read a shadow).
	Path  string
	Types []TypeDecl
	// Vars are whole-file script-level declarations.
	Vars []VarDecl
}

// Result is the outcome of one compile pass over the workspace.
type Result struct {
	Diagnostics []Diagnostic
	Files       []FileDecls
}

// Provider parses the workspace rooted at root and returns diagnostics
// plus the per-file declaration tree. The overlay maps original file
// paths to shadow paths holding unsaved content; the provider must read
// the shadow when an entry exists. A non-nil error is reserved for
// environment failures — source problems are diagnostics, not errors.
type Provider interface {
	Parse(ctx context.Context, root string, overlay map[string]string) (*Result, error)
}
