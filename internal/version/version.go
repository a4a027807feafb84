/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package version

/*
VERSION is the version of jgraph
*/
const VERSION = "1.0"

/*
REV is the revision of jgraph
*/
const REV = "0"
