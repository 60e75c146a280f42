/*
Package multikey provides search trees which key a single set of items by
multiple orderings at once.

Multi-Key Trees

A multi-key tree manages one logical collection of items together with M
comparison functions. Every item added to the tree is entered into M balanced
search trees under the covers, one per comparison function, with all M entries
denoting the same item. Clients may then look up items in O(log n) by
whichever key happens to be relevant.

The classic example is an employee directory where each employee carries a
unique ID and a phone number. A multi-key tree created with two comparators,
one over IDs and one over phone numbers, lets clients resolve an employee
efficiently by either field, without maintaining two containers by hand and
without the risk of the two drifting apart.

A second use is O(log n) lookup of non-unique fields. Keying employees by
<LastName | ID> and searching greater-or-equal for <"Smith" | 0> positions a
client at the first employee named Smith, from where it can step forward
through all Smiths.

Lookups come in relational flavors: besides exact matches, a tree answers
greater-than, less-than, greater-or-equal and less-or-equal queries, and the
query key need not itself be present in the tree. Iterators and whole-tree
walks enumerate the item set in the order of whichever index they are bound
to.

All indexes of a tree stay synchronized. The one invariant clients must
uphold is identity agreement: whenever two items compare equal under one of
the tree's comparators, they must compare equal under all of them. Aggregate
operations verify agreement among the indexes and report ErrOutOfSync when a
comparator violates it. Partial (single-index) operations deliberately break
the symmetry for re-keying and put the burden of restoring it on the caller.

The balanced trees backing the indexes come from github.com/google/btree.
This package adds the cross-index synchronization, relational lookups,
iteration and lifecycle management on top.

Trees are not safe for concurrent use; clients needing concurrent access
must serialize externally.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package multikey

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to a global core-tracer. The customary accessor name T is
// not available here: inside this package's generic code it would be
// shadowed by the type parameter.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// TreeError is an error type for the multikey module.
type TreeError string

func (e TreeError) Error() string {
	return string(e)
}

// ErrInvalidArgument is flagged for nil or dead trees, nil comparators or
// callbacks where one is required, out-of-range index ordinals and invalid
// find modes. Calls failing this way have no effect and are safe to retry
// with corrected input.
const ErrInvalidArgument = TreeError("invalid argument")

// ErrNoMemory signals that the tree's allocator refused to provide another
// item slot (see Allocator.MaxItems). The failing operation leaves no partial
// state behind.
const ErrNoMemory = TreeError("allocator capacity exhausted")

// ErrOutOfSync signals that the indexes of a tree disagreed about an item's
// presence during an aggregate operation. This points at a comparator
// violating identity agreement, or at a partial single-index state that was
// not restored. The operation attempts to roll back before reporting.
const ErrOutOfSync = TreeError("indexes out of sync")

// ErrBuilderCompleted signals that a builder has already handed out its tree
// and it's illegal to further add items.
const ErrBuilderCompleted = TreeError("forbidden to add items; builder has completed a tree")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
