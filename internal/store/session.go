/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

import (
	"context"
	"database/sql"
	"fmt"
)

/*
SessionHandle wraps a single *sql.Conn acquired from the Store's pool. All
reads performed through a session must fully decode their result rows
before the session is closed - closing first and decoding after is the
defect class this type exists to make structurally hard to write, since
every row is scanned and decoded while its *sql.Rows is still open (node
rows through scanNodeRow, which takes the open *sql.Rows), never handed
back to the caller as a detached byte slice to read later.
*/
type SessionHandle struct {
	conn *sql.Conn
}

/*
Session acquires a SessionHandle. Callers must Close it, typically via
defer immediately after a successful call.
*/
func (s *Store) Session(ctx context.Context) (*SessionHandle, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: acquire session: %w", err)
	}
	return &SessionHandle{conn: conn}, nil
}

/*
Close releases the underlying connection back to the pool.
*/
func (h *SessionHandle) Close() error {
	return h.conn.Close()
}
