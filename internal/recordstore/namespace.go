package recordstore

import (
	"fmt"
	"strings"
)

// Namespace names one record category stored under an id.
type Namespace string

const (
	NamespaceVideoSnippet  Namespace = "videoSnippet"
	NamespaceVideoGame     Namespace = "videoGame"
	NamespaceChessCom      Namespace = "chessCom"
	NamespaceChesstempoCom Namespace = "chesstempoCom"
)

// idKey is the reserved key holding the record's own id.
const idKey = "_id"

// Namespaces returns the allow-list in a fixed order.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceVideoSnippet,
		NamespaceVideoGame,
		NamespaceChessCom,
		NamespaceChesstempoCom,
	}
}

// Valid reports whether ns is one of the allowed namespaces.
func (ns Namespace) Valid() bool {
	switch ns {
	case NamespaceVideoSnippet, NamespaceVideoGame, NamespaceChessCom, NamespaceChesstempoCom:
		return true
	}
	return false
}

func checkNamespace(ns Namespace) error {
	if !ns.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, string(ns))
	}
	return nil
}

func checkID(id string) error {
	if id == "" {
		return ErrMissingID
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
