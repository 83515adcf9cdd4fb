// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import "strconv"

// RefKind is the variant of a Reference.
//
type RefKind uint8

// Reference kinds. The zero Reference has kind RefNone and stands for an
// unconnected input slot.
//
const (
	RefNone RefKind = iota
	RefComponent
	RefBuffer
)

// A Reference addresses one output of a signal producer.
//
// Component references identify the output pin Index of component ID in the
// current blueprint. Buffer references identify the junction ID in the buffer
// network of the blueprint named Blueprint; their Index is always -1.
//
// References are plain values: equality is structural and they can be used as
// map keys.
//
type Reference struct {
	Kind      RefKind
	ID        int
	Index     int
	Blueprint string
}

// ComponentRef returns a reference to output index of component id.
//
func ComponentRef(id, index int) Reference {
	return Reference{Kind: RefComponent, ID: id, Index: index}
}

// BufferRef returns a reference to buffer id in the named blueprint.
//
func BufferRef(id int, blueprint string) Reference {
	return Reference{Kind: RefBuffer, ID: id, Index: -1, Blueprint: blueprint}
}

// IsNil returns true for unconnected references.
//
func (r Reference) IsNil() bool { return r.Kind == RefNone }

// IsBuffer returns true if r references a buffer.
//
func (r Reference) IsBuffer() bool { return r.Kind == RefBuffer }

func (r Reference) String() string {
	switch r.Kind {
	case RefComponent:
		return strconv.Itoa(r.ID) + "." + strconv.Itoa(r.Index)
	case RefBuffer:
		return r.Blueprint + ":b" + strconv.Itoa(r.ID)
	}
	return "<nil>"
}
