/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package collect turns raw inputs - files on disk, class files inside
archives, Java source text - into graphmodel.Node values. A Collector
never produces edges and never sets tags an inspector produces; it only
populates node headers and variant fields.
*/
package collect

import (
	"jgraph/internal/graphutil"
	"jgraph/internal/jlog"
	"jgraph/internal/repository"
)

/*
CollectionContext is passed to every Collect call. It exposes the
in-progress repository for existence checks and the normalized project
root for path handling.
*/
type CollectionContext struct {
	Repo        *repository.Repository
	ProjectRoot string
}

/*
Collector[S, T] converts source items of type S into nodes of type T.
CanCollect decides membership without side effects; Collect yields zero or
more nodes and must not produce duplicates. Per-input failures land on
the returned Result rather than aborting the collection.
*/
type Collector[S any, T any] interface {
	Name() string
	CanCollect(input S) bool
	Collect(ctx *CollectionContext, input S) ([]T, *Result)
}

var log = jlog.Get(jlog.ScopeCollect)

/*
Result aggregates what a collection pass produced, for the run report:
nodes successfully added to the repository and per-input errors that did
not abort the rest of the collection.
*/
type Result struct {
	Added  int
	Errors []*graphutil.CollectionError
}

func (r *Result) recordError(path, detail string, cause error) {
	err := graphutil.NewCollectionError(path, detail, cause)
	r.Errors = append(r.Errors, err)
	log.Warning(err.Error())
}
