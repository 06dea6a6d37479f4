// Package merge implements the denormalizing merge engine: it expands a
// compact textual merge specification into child relationships, composes
// the aggregation pipelines that fan those relationships into temporary
// collections, and writes the accumulated result back onto the parent
// collection with ordered bulk updates.
package merge

import (
	"fmt"
	"strings"
)

// Relation is the kind of child relationship a SpecEntry describes.
type Relation int

const (
	// RelationOne embeds a single referenced child document under parent_key.
	RelationOne Relation = iota
	// RelationMany attaches an array of dependent child documents under parent_key.
	RelationMany
)

func (r Relation) String() string {
	if r == RelationMany {
		return "many"
	}
	return "one"
}

// SpecEntry is one resolved entry of a merge specification: a single child
// relationship to fan into the parent collection.
type SpecEntry struct {
	Relation  Relation
	ParentKey string
	ChildName string
	ChildKey  string
}

// reservedFieldNames are names the merge pipelines use internally; a parent_key
// colliding with one of these would corrupt the temp-collection documents.
var reservedFieldNames = map[string]bool{
	"_id":        true,
	"parent_id":  true,
	"child_name": true,
	"merge_id":   true,
}

// ParseSpec parses an ordered list of merge spec strings for parentName into
// resolved SpecEntry records, following the grammar:
//
//	spec       := parent_key [ ":" child_part ]
//	child_part := simple | many
//	simple     := [ child_name ] [ "." child_key ]
//	many       := "[" [ child_name ] [ "." child_key ] "]"
//
// Order is preserved in the returned slice; it is the caller's job to group
// "one" entries ahead of "many" entries (phase ordering, not spec ordering).
// A parse error anywhere in the list is fatal for the whole list.
func ParseSpec(parentName string, specs []string) ([]SpecEntry, error) {
	entries := make([]SpecEntry, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		entry, err := parseOne(parentName, s)
		if err != nil {
			return nil, fmt.Errorf("merge: spec[%d] %q: %w", i, s, err)
		}
		if seen[entry.ParentKey] {
			return nil, fmt.Errorf("merge: spec[%d] %q: %w: duplicate parent_key %q", i, s, ErrSpecParse, entry.ParentKey)
		}
		seen[entry.ParentKey] = true
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseOne(parentName, s string) (SpecEntry, error) {
	parentKey, childPart, _ := strings.Cut(s, ":")

	if err := validateFieldName(parentKey); err != nil {
		return SpecEntry{}, fmt.Errorf("%w: parent_key: %v", ErrSpecParse, err)
	}

	relation := RelationOne
	if strings.HasPrefix(childPart, "[") {
		relation = RelationMany
		if !strings.HasSuffix(childPart, "]") {
			return SpecEntry{}, fmt.Errorf("%w: unclosed '[' in %q", ErrSpecParse, childPart)
		}
		childPart = childPart[1 : len(childPart)-1]
		if strings.Contains(childPart, "]") {
			return SpecEntry{}, fmt.Errorf("%w: trailing content after ']' in %q", ErrSpecParse, s)
		}
	}

	childName, childKey, hasDot := strings.Cut(childPart, ".")
	if hasDot && strings.Contains(childKey, ".") {
		return SpecEntry{}, fmt.Errorf("%w: at most one '.' allowed in %q", ErrSpecParse, childPart)
	}

	if childName == "" {
		childName = parentKey
	} else if err := validateFieldName(childName); err != nil {
		return SpecEntry{}, fmt.Errorf("%w: child_name: %v", ErrSpecParse, err)
	}

	if childKey == "" {
		if relation == RelationOne {
			childKey = "_id"
		} else {
			childKey = parentName
		}
	} else if err := validateFieldName(childKey); err != nil {
		return SpecEntry{}, fmt.Errorf("%w: child_key: %v", ErrSpecParse, err)
	}

	if reservedFieldNames[parentKey] {
		return SpecEntry{}, fmt.Errorf("%w: parent_key %q is reserved", ErrSpecParse, parentKey)
	}

	return SpecEntry{
		Relation:  relation,
		ParentKey: parentKey,
		ChildName: childName,
		ChildKey:  childKey,
	}, nil
}

// validateFieldName rejects empty names and names containing characters that
// cannot appear in a BSON field name used as a pipeline field key: '.', '$',
// and whitespace/control characters (which would almost certainly be a typo
// rather than an intended field name).
func validateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("empty field name")
	}
	if strings.ContainsAny(name, ".$") {
		return fmt.Errorf("illegal character in field name %q", name)
	}
	for _, r := range name {
		if r <= ' ' {
			return fmt.Errorf("illegal whitespace/control character in field name %q", name)
		}
	}
	return nil
}

// String renders a SpecEntry back in the grammar it was parsed from for the
// given parentName, modulo defaults — i.e. ParseSpec(p,[s]).String(p) may
// differ from s when s relied on a default, but re-parsing the rendered
// string always yields an equal SpecEntry.
func (e SpecEntry) String(parentName string) string {
	defaultKey := "_id"
	if e.Relation == RelationMany {
		defaultKey = parentName
	}

	var childPart string
	switch {
	case e.ChildName == e.ParentKey && e.ChildKey == defaultKey:
		childPart = ""
	case e.ChildKey == defaultKey:
		childPart = e.ChildName
	default:
		childPart = e.ChildName + "." + e.ChildKey
	}

	spec := e.ParentKey
	if e.Relation == RelationMany {
		spec += ":[" + childPart + "]"
	} else if childPart != "" {
		spec += ":" + childPart
	}
	return spec
}
