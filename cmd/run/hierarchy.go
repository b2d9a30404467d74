package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/sim-vpi/vpi"
)

// walkTypes are the children listed under each module, in display order.
var walkTypes = []vpi.ObjectType{vpi.ObjPort, vpi.ObjNet, vpi.ObjReg, vpi.ObjModule}

// node is one object of a hierarchy snapshot. Snapshots hold no handles, so
// they stay valid after the simulation ends.
type node struct {
	Name     string
	FullName string
	Value    string
	Children []*node
	Type     vpi.ObjectType
	Size     int32
}

// snapshot walks every top-level module. Must run on the simulation thread
// after startup.
func snapshot(s *vpi.Session) ([]*node, error) {
	it, err := s.IterateRoots(vpi.ObjModule)
	if err != nil {
		return nil, err
	}
	var roots []*node
	for h := range it.All() {
		n, err := walkModule(h)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, it.Err()
}

func walkModule(h *vpi.ObjectHandle) (*node, error) {
	n, err := describe(h, vpi.ObjModule)
	if err != nil {
		return nil, err
	}
	for _, t := range walkTypes {
		it, err := h.Children(t)
		if err != nil {
			return nil, err
		}
		for c := range it.All() {
			var child *node
			if t == vpi.ObjModule {
				child, err = walkModule(c)
			} else {
				child, err = describe(c, t)
			}
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		if err := it.Err(); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func describe(h *vpi.ObjectHandle, t vpi.ObjectType) (*node, error) {
	name, err := h.Name()
	if err != nil {
		return nil, err
	}
	full, err := h.FullName()
	if err != nil {
		return nil, err
	}
	n := &node{Name: name, FullName: full, Type: t}
	if t == vpi.ObjModule {
		return n, nil
	}
	// Width and value are optional: ports of some simulators report neither.
	if size, err := h.PropertyInt32(vpi.PropSize); err == nil {
		n.Size = size
	}
	if v, err := h.Value(vpi.FormatBinStr); err == nil {
		n.Value = v.Str
	}
	return n, nil
}

func (n *node) label() string {
	if n.Type == vpi.ObjModule {
		return fmt.Sprintf("%s (%s)", n.Name, n.Type)
	}
	s := fmt.Sprintf("%s %s[%d]", n.Name, n.Type, n.Size)
	if n.Value != "" {
		s += " = " + n.Value
	}
	return s
}

// writeTree prints the snapshot indented by depth, one object per line.
func writeTree(w io.Writer, roots []*node) error {
	var b strings.Builder
	var walk func(ns []*node, depth int)
	walk = func(ns []*node, depth int) {
		for _, n := range ns {
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(n.label())
			b.WriteByte('\n')
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	_, err := io.WriteString(w, b.String())
	return err
}
