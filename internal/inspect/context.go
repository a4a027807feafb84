/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package inspect

import (
	"context"

	"jgraph/internal/repository"
)

/*
Context is handed to every Inspector invocation. It exposes read access
to the repository (for global inspectors that need to traverse the
complete graph, e.g. walking edges of other nodes) and the standard
context.Context the scheduler polls for cancellation between nodes.
*/
type Context struct {
	Std  context.Context
	Repo *repository.Repository
}
