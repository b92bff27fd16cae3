package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node types from the tree-sitter Java grammar that the intention
// machinery matches on. Every shape check in the advisor goes through
// these tags so that a non-matching node yields false, never a panic.
const (
	NodeIdentifier         = "identifier"
	NodeScopedIdentifier   = "scoped_identifier"
	NodeMethodInvocation   = "method_invocation"
	NodeFieldAccess        = "field_access"
	NodeArgumentList       = "argument_list"
	NodeModifiers          = "modifiers"
	NodeMarkerAnnotation   = "marker_annotation"
	NodeAnnotation         = "annotation"
	NodeMethodDeclaration  = "method_declaration"
	NodeClassBody          = "class_body"
	NodePackageDeclaration = "package_declaration"
	NodeImportDeclaration  = "import_declaration"
	NodeAsterisk           = "asterisk"
	NodeStatic             = "static"

	NodeClassDeclaration          = "class_declaration"
	NodeInterfaceDeclaration      = "interface_declaration"
	NodeEnumDeclaration           = "enum_declaration"
	NodeRecordDeclaration         = "record_declaration"
	NodeAnnotationTypeDeclaration = "annotation_type_declaration"
)

// JavaTypeDeclarations maps tree-sitter type declaration node types to
// their declaration kind.
var JavaTypeDeclarations = map[string]string{
	NodeClassDeclaration:          "class",
	NodeInterfaceDeclaration:      "interface",
	NodeEnumDeclaration:           "enum",
	NodeRecordDeclaration:         "record",
	NodeAnnotationTypeDeclaration: "annotation",
}

// IsTypeDeclaration checks if a node declares a Java type (class,
// interface, enum, record, or annotation type).
func IsTypeDeclaration(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	_, ok := JavaTypeDeclarations[node.Type()]
	return ok
}

// TypeDeclarationKind returns the declaration kind for a node, or an
// empty string if the node is not a type declaration.
func TypeDeclarationKind(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return JavaTypeDeclarations[node.Type()]
}

// IsIdentifier checks if a node is an identifier leaf.
func IsIdentifier(node *sitter.Node) bool {
	return node != nil && node.Type() == NodeIdentifier
}
