/*
NAME
  xmldoc.go

DESCRIPTION
  xmldoc.go provides a generic XML element tree used by the format
  adapters. Vendor ECG schemas differ in element names, nesting and case,
  so adapters search the tree rather than unmarshalling into fixed structs.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xmldoc parses XML documents into a generic element tree with
// case-insensitive search helpers.
package xmldoc

import (
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"
)

// Node is one element of a parsed document.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Parse unmarshals an XML document into its root Node.
func Parse(b []byte) (*Node, error) {
	var root Node
	if err := xml.Unmarshal(b, &root); err != nil {
		return nil, errors.Wrap(err, "could not parse XML document")
	}
	return &root, nil
}

// Local returns the element's local name.
func (n *Node) Local() string {
	return n.XMLName.Local
}

// Attr returns the value of the named attribute, ignoring case and
// namespace, or the empty string if absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// TrimmedText returns the element's character data with surrounding
// whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}

// Find returns the first descendant (or n itself) whose local name matches
// local, ignoring case, in depth-first document order. It returns nil if
// there is no match.
func (n *Node) Find(local string) *Node {
	if strings.EqualFold(n.XMLName.Local, local) {
		return n
	}
	for i := range n.Children {
		if m := n.Children[i].Find(local); m != nil {
			return m
		}
	}
	return nil
}

// FindAll returns every descendant (and possibly n itself) whose local name
// matches local, ignoring case, in depth-first document order.
func (n *Node) FindAll(local string) []*Node {
	var out []*Node
	if strings.EqualFold(n.XMLName.Local, local) {
		out = append(out, n)
	}
	for i := range n.Children {
		out = append(out, n.Children[i].FindAll(local)...)
	}
	return out
}

// FirstText returns the trimmed text of the first descendant matching any
// of the given local names, searched in the order supplied. It returns the
// empty string if none match or the match is empty.
func (n *Node) FirstText(locals ...string) string {
	for _, name := range locals {
		if m := n.Find(name); m != nil {
			if s := m.TrimmedText(); s != "" {
				return s
			}
		}
	}
	return ""
}
