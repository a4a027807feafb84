/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspectors

import (
	"jgraph/internal/collect"
	"jgraph/internal/graphmodel"
	"jgraph/internal/inspect"
)

/*
JavaClassLink turns the raw references a collector recorded on a
JavaClassNode into graph structure:

  - tags the node java:class plus java:source or java:binary by origin,
  - a contains edge from the owning ProjectFile (via the source_file
    property) and from the owning PackageNode, where those nodes exist,
  - extends / implements edges to the named supertypes, where class nodes
    for them exist, plus a depends_on edge mirroring each.

Edges to types outside the analyzed graph are simply not created; the raw
names stay available on the variant fields for consumers that want them.
*/
type JavaClassLink struct{}

func NewJavaClassLink() *JavaClassLink { return &JavaClassLink{} }

func (i *JavaClassLink) Descriptor() inspect.Descriptor {
	return inspect.Descriptor{
		Name:          NameJavaClassLink,
		Produces:      []string{TagJavaClass},
		SupportedKind: graphmodel.NodeTypeClass,
	}
}

func (i *JavaClassLink) Inspect(ctx *inspect.Context, dec *graphmodel.Decorator) error {
	cls, ok := dec.Node().(*graphmodel.JavaClassNode)
	if !ok {
		return nil
	}

	if err := dec.EnableTag(TagJavaClass); err != nil {
		return err
	}
	switch cls.Origin {
	case graphmodel.JavaOriginSource:
		if err := dec.EnableTag(TagJavaSource); err != nil {
			return err
		}
	case graphmodel.JavaOriginBinary:
		if err := dec.EnableTag(TagJavaBinary); err != nil {
			return err
		}
	}

	if raw, ok := cls.Property(collect.SourceFileProperty); ok {
		if path, ok := raw.(string); ok {
			if _, exists := ctx.Repo.GetNode(path); exists {
				if err := i.link(ctx, path, cls.ID(), graphmodel.EdgeContains); err != nil {
					return err
				}
			}
		}
	}

	if cls.Package != "" {
		if _, exists := ctx.Repo.GetNode(cls.Package); exists {
			if err := i.link(ctx, cls.Package, cls.ID(), graphmodel.EdgeContains); err != nil {
				return err
			}
		}
	}

	if cls.ParentClass != "" {
		if _, exists := ctx.Repo.GetNode(cls.ParentClass); exists {
			if err := i.link(ctx, cls.ID(), cls.ParentClass, graphmodel.EdgeExtends); err != nil {
				return err
			}
			if err := i.link(ctx, cls.ID(), cls.ParentClass, graphmodel.EdgeDependsOn); err != nil {
				return err
			}
		}
	}
	for _, iface := range cls.Interfaces {
		if _, exists := ctx.Repo.GetNode(iface); !exists {
			continue
		}
		if err := i.link(ctx, cls.ID(), iface, graphmodel.EdgeImplements); err != nil {
			return err
		}
		if err := i.link(ctx, cls.ID(), iface, graphmodel.EdgeDependsOn); err != nil {
			return err
		}
	}

	return nil
}

func (i *JavaClassLink) link(ctx *inspect.Context, source, target, edgeType string) error {
	_, _, err := ctx.Repo.GetOrCreateEdge(graphmodel.NewEdge(source, target, edgeType))
	return err
}
