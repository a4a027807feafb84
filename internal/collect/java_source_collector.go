/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package collect

import (
	"context"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"jgraph/internal/graphmodel"
)

/*
SourceFileProperty is the property a source collector sets on every class
node it produces, naming the ProjectFile node (by id, i.e. absolute path)
the class was read from. Inspectors use it to link classes back to their
files with contains edges.
*/
const SourceFileProperty = "source_file"

/*
JavaSourceCollector parses .java files with tree-sitter and yields one
JavaClassNode per top-level or nested type declaration (class, interface,
enum, record, annotation type). It is not a compiler: unresolved simple
names in extends/implements clauses are qualified heuristically from the
file's imports and package, and that is good enough for the structural
edges downstream inspectors derive.
*/
type JavaSourceCollector struct {
	parser *sitter.Parser
}

var _ Collector[*graphmodel.ProjectFile, *graphmodel.JavaClassNode] = (*JavaSourceCollector)(nil)

/*
NewJavaSourceCollector creates a JavaSourceCollector with its own parser.
A sitter.Parser is not safe for concurrent use; callers wanting parallel
collection create one collector per worker.
*/
func NewJavaSourceCollector() *JavaSourceCollector {
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	return &JavaSourceCollector{parser: p}
}

func (c *JavaSourceCollector) Name() string { return "java-source-collector" }

/*
Close releases the underlying parser.
*/
func (c *JavaSourceCollector) Close() {
	c.parser.Close()
}

/*
CanCollect reports whether f names a Java source file.
*/
func (c *JavaSourceCollector) CanCollect(f *graphmodel.ProjectFile) bool {
	return strings.EqualFold(f.Extension, ".java")
}

/*
Collect parses f and returns the JavaClassNode(s) declared in it, each
with origin "source", a source_file property pointing back at f, and the
extends/implements names, qualified through the file's imports or its
package, recorded on the variant fields. A file that
fails to read or parse is a per-input error on the Result; the caller
moves on to the next file.
*/
func (c *JavaSourceCollector) Collect(cctx *CollectionContext, f *graphmodel.ProjectFile) ([]*graphmodel.JavaClassNode, *Result) {
	result := &Result{}

	content, err := os.ReadFile(f.Path)
	if err != nil {
		result.recordError(f.Path, "could not read source file", err)
		return nil, result
	}

	tree, err := c.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		result.recordError(f.Path, "could not parse source file", err)
		return nil, result
	}
	defer tree.Close()

	root := tree.RootNode()
	pkg := packageName(root, content)
	imports := importedTypes(root, content)

	var out []*graphmodel.JavaClassNode
	collectTypes(root, content, pkg, "", func(decl typeDecl) {
		fqn := decl.name
		if decl.outer != "" {
			fqn = decl.outer + "." + decl.name
		} else if pkg != "" {
			fqn = pkg + "." + decl.name
		}

		if alreadyCollected(cctx, fqn) {
			return
		}

		n := graphmodel.NewJavaClassNode(fqn, decl.name, pkg, graphmodel.JavaOriginSource)
		if decl.superclass != "" {
			n.ParentClass = qualify(decl.superclass, pkg, imports)
		}
		for _, iface := range decl.interfaces {
			n.Interfaces = append(n.Interfaces, qualify(iface, pkg, imports))
		}

		dec := graphmodel.NewDecorator(n, nil)
		if err := dec.SetProperty(SourceFileProperty, f.Path); err != nil {
			result.recordError(f.Path, "could not record source file on "+fqn, err)
			return
		}

		out = append(out, n)
		result.Added++
	})

	return out, result
}

// typeDecl is one type declaration found in a source file. outer is the
// fully-qualified name of the enclosing type for nested declarations,
// empty for top-level ones.
type typeDecl struct {
	name       string
	outer      string
	superclass string
	interfaces []string
}

var typeDeclKinds = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

// collectTypes walks the tree depth-first and invokes emit for every type
// declaration, tracking the enclosing type's fully-qualified name so
// nested types get Outer.Inner ids.
func collectTypes(node *sitter.Node, content []byte, pkg, outer string, emit func(typeDecl)) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		if !typeDeclKinds[child.Type()] {
			collectTypes(child, content, pkg, outer, emit)
			continue
		}

		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		decl := typeDecl{name: nameNode.Content(content), outer: outer}

		if sup := child.ChildByFieldName("superclass"); sup != nil {
			// the superclass node is the "extends X" clause; its named
			// child is the type itself
			if t := sup.NamedChild(0); t != nil {
				decl.superclass = typeName(t, content)
			}
		}
		if ifaces := child.ChildByFieldName("interfaces"); ifaces != nil {
			decl.interfaces = typeList(ifaces, content)
		}
		// an interface's "extends A, B" clause appears as a child node
		// rather than a field
		for j := 0; j < int(child.NamedChildCount()); j++ {
			if child.NamedChild(j).Type() == "extends_interfaces" {
				decl.interfaces = append(decl.interfaces, typeList(child.NamedChild(j), content)...)
			}
		}

		emit(decl)

		selfFQN := decl.name
		if outer != "" {
			selfFQN = outer + "." + decl.name
		} else if pkg != "" {
			selfFQN = pkg + "." + decl.name
		}
		if body := child.ChildByFieldName("body"); body != nil {
			collectTypes(body, content, pkg, selfFQN, emit)
		}
	}
}

// packageName returns the file's declared package, or "" for the default
// package.
func packageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "package_declaration" {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				sub := child.NamedChild(j)
				if sub.Type() == "scoped_identifier" || sub.Type() == "identifier" {
					return sub.Content(content)
				}
			}
		}
	}
	return ""
}

// importedTypes maps simple type names to the fully-qualified names their
// import declarations bind. Wildcard imports carry no simple name and are
// skipped; a type only reachable through one is qualified against the
// file's own package instead, which is the best a non-resolving parser
// can do.
func importedTypes(root *sitter.Node, content []byte) map[string]string {
	out := make(map[string]string)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_declaration" {
			continue
		}
		text := child.Content(content)
		if strings.Contains(text, "*") || strings.Contains(text, "static") {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			sub := child.NamedChild(j)
			if sub.Type() == "scoped_identifier" {
				fqn := sub.Content(content)
				if idx := strings.LastIndex(fqn, "."); idx >= 0 {
					out[fqn[idx+1:]] = fqn
				}
			}
		}
	}
	return out
}

// typeList extracts the type names from a super_interfaces /
// extends_interfaces clause.
func typeList(node *sitter.Node, content []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "type_identifier", "scoped_type_identifier":
			out = append(out, typeName(n, content))
			return
		case "generic_type":
			// List<Foo> implements only List
			if t := n.NamedChild(0); t != nil {
				out = append(out, typeName(t, content))
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(node)
	return out
}

// typeName renders a type node as its dotted name, dropping any generic
// arguments.
func typeName(node *sitter.Node, content []byte) string {
	text := node.Content(content)
	if idx := strings.Index(text, "<"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// qualify resolves a possibly-simple type name against the file's imports
// and, failing that, its own package.
func qualify(name, pkg string, imports map[string]string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if fqn, ok := imports[name]; ok {
		return fqn
	}
	if pkg != "" {
		return pkg + "." + name
	}
	return name
}
