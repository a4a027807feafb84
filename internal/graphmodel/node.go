/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graphmodel

import (
	"fmt"
	"strings"
)

/*
Node is the unit of analysis. The set of implementations is closed: header()
is unexported, so only variants declared in this package (ProjectFile,
JavaClassNode, PackageNode) can satisfy it. Additional variants may be
added here in the future but must embed Header to keep the contract.
*/
type Node interface {
	header() *Header

	ID() string
	NodeType() NodeType
	DisplayLabel() string
	Property(key string) (interface{}, bool)
	PropertyKeys() []string
	Properties() map[string]interface{}
	Metric(name string) (float64, bool)
	Metrics() map[string]float64
	HasTag(token string) bool
	Tags() []string
}

/*
ProjectFile is a file on disk: an absolute path, its extension, size in
bytes, and a language detected by a file-level inspector (empty until
detected).
*/
type ProjectFile struct {
	Header
	Path      string
	Extension string
	Size      int64
	Language  string
}

/*
NewProjectFile creates a ProjectFile node. The id is the file's absolute
path.
*/
func NewProjectFile(path string, extension string, size int64) *ProjectFile {
	return &ProjectFile{
		Header:    newHeader(path, NodeTypeFile, path),
		Path:      path,
		Extension: extension,
		Size:      size,
	}
}

/*
JavaClassNode is a Java type: fully-qualified name, simple name, owning
package, source/binary origin marker, and the parent class / implemented
interfaces as references by fully-qualified name (edges carry the
corresponding `extends`/`implements` relationships; these fields record
the raw names as observed, independent of whether a JavaClassNode for them
exists in this repository).
*/
type JavaClassNode struct {
	Header
	FullyQualifiedName string
	SimpleName         string
	Package            string
	Origin             string // "source" or "binary"
	ParentClass        string // fully-qualified name, empty if none observed
	Interfaces         []string
}

const (
	JavaOriginSource = "source"
	JavaOriginBinary = "binary"
)

/*
NewJavaClassNode creates a JavaClassNode. The id is the fully-qualified
class name.
*/
func NewJavaClassNode(fqn string, simpleName string, pkg string, origin string) *JavaClassNode {
	return &JavaClassNode{
		Header:             newHeader(fqn, NodeTypeClass, simpleName),
		FullyQualifiedName: fqn,
		SimpleName:         simpleName,
		Package:            pkg,
		Origin:             origin,
	}
}

/*
PackageNode is a Java package.
*/
type PackageNode struct {
	Header
	Name string
}

/*
NewPackageNode creates a PackageNode. The id is the package's dotted name.
*/
func NewPackageNode(name string) *PackageNode {
	return &PackageNode{
		Header: newHeader(name, NodeTypePackage, name),
		Name:   name,
	}
}

/*
NodeOfType constructs an empty Node for a given NodeType and id, used by
the persistent store when rehydrating a row whose variant-specific fields
are then filled in from its variant data. The display label is the id,
except for a class, whose label is the simple name after the id's last
dot, as the collectors' NewJavaClassNode calls produce it. An unknown
variant is a configuration-level failure, never silently mapped to a
default.
*/
func NodeOfType(t NodeType, id string) (Node, error) {
	switch t {
	case NodeTypeFile:
		return &ProjectFile{Header: newHeader(id, NodeTypeFile, id)}, nil
	case NodeTypeClass:
		label := id
		if idx := strings.LastIndex(id, "."); idx >= 0 {
			label = id[idx+1:]
		}
		return &JavaClassNode{Header: newHeader(id, NodeTypeClass, label)}, nil
	case NodeTypePackage:
		return &PackageNode{Header: newHeader(id, NodeTypePackage, id)}, nil
	default:
		return nil, fmt.Errorf("graphmodel: unknown node variant %q", t)
	}
}
