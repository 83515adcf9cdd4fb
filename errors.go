// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trisim

import (
	"strconv"

	"github.com/pkg/errors"
)

// NameCollisionError is returned when creating a blueprint whose name is
// reserved or already in use.
//
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return "blueprint name " + strconv.Quote(e.Name) + " is already taken"
}

// DependencyCycleError is returned when adding an instance of Gate to
// Blueprint would make Blueprint depend on itself.
//
type DependencyCycleError struct {
	Blueprint string
	Gate      string
}

func (e *DependencyCycleError) Error() string {
	return "adding " + e.Gate + " to " + e.Blueprint + " creates a dependency loop"
}

// NotFoundError is returned on lookups of unknown blueprints, components or
// buffers.
//
type NotFoundError struct {
	What string // "blueprint", "component" or "buffer"
	Name string
	ID   int
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return e.What + " " + strconv.Quote(e.Name) + " not found"
	}
	return e.What + " " + strconv.Itoa(e.ID) + " not found"
}

// ArityMismatchError is returned when a gate function or a blueprint is
// evaluated with the wrong number of inputs.
//
type ArityMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityMismatchError) Error() string {
	return e.Name + ": expected " + strconv.Itoa(e.Want) + " inputs, got " + strconv.Itoa(e.Got)
}

func notFound(what string, id int) error {
	return errors.WithStack(&NotFoundError{What: what, ID: id})
}

// IsNotFound returns true if the cause of err is a *NotFoundError.
//
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// IsDependencyCycle returns true if the cause of err is a
// *DependencyCycleError.
//
func IsDependencyCycle(err error) bool {
	_, ok := errors.Cause(err).(*DependencyCycleError)
	return ok
}
