// Package identifier implements the {ByID, ByName} sum type used to address
// players, servers, maps and courses interchangeably across the HTTP and WS
// surfaces.
package identifier

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind distinguishes the two Identifier variants.
type Kind int

const (
	KindID Kind = iota
	KindName
)

// Identifier is a sum type over a numeric id and a human name. Exactly one
// of ID/Name is meaningful, selected by Kind.
type Identifier struct {
	kind Kind
	id   uint64
	name string
}

// ByID constructs an id-addressed Identifier.
func ByID(id uint64) Identifier {
	return Identifier{kind: KindID, id: id}
}

// ByName constructs a name-addressed Identifier.
func ByName(name string) Identifier {
	return Identifier{kind: KindName, name: name}
}

// Kind reports which variant this Identifier holds.
func (i Identifier) Kind() Kind { return i.kind }

// ID returns the numeric id and whether the Identifier is id-addressed.
func (i Identifier) ID() (uint64, bool) {
	return i.id, i.kind == KindID
}

// Name returns the name and whether the Identifier is name-addressed.
func (i Identifier) Name() (string, bool) {
	return i.name, i.kind == KindName
}

func (i Identifier) String() string {
	if i.kind == KindID {
		return strconv.FormatUint(i.id, 10)
	}
	return i.name
}

// MarshalJSON emits the id as a bare number, or the name as a string.
func (i Identifier) MarshalJSON() ([]byte, error) {
	if i.kind == KindID {
		return json.Marshal(i.id)
	}
	return json.Marshal(i.name)
}

// UnmarshalJSON prefers the ID variant: a JSON number decodes directly to
// ByID; a JSON string first attempts a uint64 parse (ByID), falling back to
// treating it as a name (ByName).
func (i *Identifier) UnmarshalJSON(data []byte) error {
	var asNumber uint64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*i = ByID(asNumber)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("identifier: cannot decode %s as id or name", data)
	}

	if parsed, err := strconv.ParseUint(asString, 10, 64); err == nil {
		*i = ByID(parsed)
		return nil
	}

	*i = ByName(asString)
	return nil
}

// ParseFromPathParam implements the HTTP façade's "{id|name}" route
// convention: an all-digit segment is treated as an id, anything else as a
// name.
func ParseFromPathParam(raw string) Identifier {
	if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return ByID(parsed)
	}
	return ByName(raw)
}
