package edit

import (
	"strings"

	"github.com/anthropics/jfix/internal/java"
)

// Shorten decides how a type reference should be rendered in the given
// unit and which import edits make the short form legal. It returns the
// name to write at the use site and any import-declaration edits.
//
// The short form is used when the FQN is already imported (directly or
// via a wildcard) or when a new single-type import can be added without
// colliding with an existing import or a type declared in the file.
// Otherwise the fully-qualified name is kept and no edits are returned.
func Shorten(u *java.Unit, fqn string) (string, []TextEdit) {
	simple := java.SimpleName(fqn)
	if simple == fqn {
		// Nothing to shorten for an unqualified name.
		return fqn, nil
	}

	if u.HasSingleImport(fqn) || u.WildcardCovers(fqn) {
		return simple, nil
	}
	if u.SimpleNameTaken(fqn) {
		return fqn, nil
	}

	return simple, []TextEdit{importEdit(u, fqn)}
}

// importEdit builds the insertion of a single-type import, placed after
// the last import, after the package declaration, or at the top of the
// file, in that order of preference.
func importEdit(u *java.Unit, fqn string) TextEdit {
	stmt := "import " + fqn + ";"

	if off := u.LastImportEnd(); off >= 0 {
		return TextEdit{Start: off, End: off, NewText: "\n" + stmt}
	}
	if off := u.PackageEnd(); off >= 0 {
		return TextEdit{Start: off, End: off, NewText: "\n\n" + stmt}
	}

	suffix := "\n\n"
	if strings.HasPrefix(string(u.Result.Source), "\n") {
		suffix = "\n"
	}
	return TextEdit{Start: 0, End: 0, NewText: stmt + suffix}
}
