package models

const (
	NamespacePrivate = "private"
	NamespacePublic  = "public"
)

// IsNamespace reports whether parent is one of the two root sentinels rather
// than a folder id.
func IsNamespace(parent string) bool {
	return parent == NamespacePrivate || parent == NamespacePublic
}
