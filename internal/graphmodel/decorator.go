/*
 * jgraph
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package graphmodel

import "reflect"

/*
Decorator is a short-lived handle that scopes writes to a single node and
forwards them to the owning repository, which bumps its revision counter
on every write that changes the node (rewriting an identical value, or
enabling a tag already present, is a no-op). A Decorator does not outlive the inspection of the node it
wraps - callers obtain one from the repository for the duration of a
single inspector invocation and discard it afterwards.

Decorator is the only write path to a node's properties, metrics and
tags, for every node variant alike. There is deliberately no per-variant
handle type.
*/
type Decorator struct {
	node    Node
	onWrite func()
}

/*
NewDecorator wraps node with a Decorator that invokes onWrite after every
successful mutation. onWrite is how the owning repository bumps its
logical revision counter; it must be cheap and non-blocking.
*/
func NewDecorator(node Node, onWrite func()) *Decorator {
	return &Decorator{node: node, onWrite: onWrite}
}

/*
Node returns the node this decorator wraps, for read access.
*/
func (d *Decorator) Node() Node { return d.node }

/*
HasTag reports whether token is set on the wrapped node.
*/
func (d *Decorator) HasTag(token string) bool { return d.node.HasTag(token) }

/*
SetProperty overwrites a property. Keys must be non-empty; values must lie
in the permitted value space. Writing a value equal to the one already
stored is a no-op that does not count as a change - the scheduler's
convergence detection relies on repeated identical writes going quiet.
*/
func (d *Decorator) SetProperty(key string, val interface{}) error {
	if old, ok := d.node.header().Property(key); ok && reflect.DeepEqual(old, normalizedOrSelf(val)) {
		return nil
	}
	if err := d.node.header().setProperty(key, val); err != nil {
		return err
	}
	d.notify()
	return nil
}

/*
SetMetric overwrites a metric. NaN and infinite values are rejected.
Writing the value already stored is a no-op, as with SetProperty.
*/
func (d *Decorator) SetMetric(name string, val float64) error {
	if old, ok := d.node.header().Metric(name); ok && old == val {
		return nil
	}
	if err := d.node.header().setMetric(name, val); err != nil {
		return err
	}
	d.notify()
	return nil
}

// normalizedOrSelf widens val the way the header's write path would, so
// the equality check above compares stored int64/float64 forms rather
// than raw caller-supplied widths. Invalid values pass through unchanged;
// the write path rejects them with a proper error.
func normalizedOrSelf(val interface{}) interface{} {
	nv, err := normalizeValue(val)
	if err != nil {
		return val
	}
	return nv
}

/*
EnableTag idempotently adds token to the node's tag set.
*/
func (d *Decorator) EnableTag(token string) error {
	if d.node.header().HasTag(token) {
		return nil
	}
	if err := d.node.header().enableTag(token); err != nil {
		return err
	}
	d.notify()
	return nil
}

/*
DisableTag idempotently removes token from the node's tag set.
*/
func (d *Decorator) DisableTag(token string) {
	if !d.node.header().HasTag(token) {
		return
	}
	d.node.header().disableTag(token)
	d.notify()
}

func (d *Decorator) notify() {
	if d.onWrite != nil {
		d.onWrite()
	}
}
