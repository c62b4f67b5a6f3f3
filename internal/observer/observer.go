// Package observer watches mutations to a document's object graph and
// computes the subset of indirect objects that must be written in an
// incremental save: every object added, replaced or directly updated
// since the graph was loaded, plus every already-monitored ancestor a
// mutation's reference chain reaches back to.
package observer

import (
	"github.com/coregx/pdfcore/internal/object"
)

// identity is the stable (object number, generation) pair an Observer
// tracks objects by, independent of any particular *object.IndirectReference
// value pointing at that pair.
type identity struct {
	number     int
	generation int
}

func identityOf(ref *object.IndirectReference) identity {
	return identity{number: ref.Number, generation: ref.Generation}
}

func (id identity) ref() *object.IndirectReference {
	return object.NewIndirectReference(id.number, id.generation)
}

// EventKind classifies a mutation reported to an Observer.
type EventKind int

const (
	// EventAdd reports a newly created indirect object.
	EventAdd EventKind = iota
	// EventReplace reports an indirect object whose value was wholesale
	// replaced.
	EventReplace
	// EventDirectUpdate reports an in-place mutation of a direct
	// (non-indirect) value reachable from an indirect object.
	EventDirectUpdate
	// EventDereference reports that an indirect object was resolved for
	// reading. On its own this never marks anything updated.
	EventDereference
	// EventRemove reports that a reference-holder dropped its reference to
	// an indirect object. Use Unlink to report which holder and target are
	// involved; Record's EventRemove case is a no-op placeholder for
	// callers that only want to log the event kind.
	EventRemove
)

// Event is one reported mutation.
type Event struct {
	Kind   EventKind
	Target *object.IndirectReference
}

// Observer maintains the three sets an incremental save needs: monitored
// objects (everything the observer is watching), pre-existing objects
// (objects that were already indirect when the document was loaded, as
// opposed to ones created during this session), and updated objects (the
// subset to actually write). A reverse reference-holder map lets a direct
// object's mutation propagate up to every indirect ancestor that holds a
// path to it.
type Observer struct {
	trailer     identity
	monitored   map[identity]bool
	preExisting map[identity]bool
	updated     map[identity]bool
	// holders maps a referenced object's identity to the set of indirect
	// objects' identities that hold a reference to it.
	holders map[identity]map[identity]bool
}

// New creates an Observer with the document's trailer permanently
// monitored; the trailer can never be unmonitored regardless of how many
// times its last reference-holder is removed, since it has none to begin
// with.
func New(trailer *object.IndirectReference) *Observer {
	o := &Observer{
		trailer:     identityOf(trailer),
		monitored:   map[identity]bool{},
		preExisting: map[identity]bool{},
		updated:     map[identity]bool{},
		holders:     map[identity]map[identity]bool{},
	}
	o.monitored[o.trailer] = true
	return o
}

// MarkPreExisting records ref as having been indirect already at load
// time, and begins monitoring it.
func (o *Observer) MarkPreExisting(ref *object.IndirectReference) {
	id := identityOf(ref)
	o.preExisting[id] = true
	o.monitored[id] = true
}

// Monitor begins watching ref without marking it pre-existing (used for
// objects created after load).
func (o *Observer) Monitor(ref *object.IndirectReference) {
	o.monitored[identityOf(ref)] = true
}

// IsMonitored reports whether ref is currently being watched.
func (o *Observer) IsMonitored(ref *object.IndirectReference) bool {
	return o.monitored[identityOf(ref)]
}

// IsPreExisting reports whether ref was already indirect at load time.
func (o *Observer) IsPreExisting(ref *object.IndirectReference) bool {
	return o.preExisting[identityOf(ref)]
}

// Link records that holder's value contains a reference to target, so a
// later mutation to target can propagate up to holder.
func (o *Observer) Link(holder, target *object.IndirectReference) {
	tid := identityOf(target)
	hid := identityOf(holder)
	set, ok := o.holders[tid]
	if !ok {
		set = map[identity]bool{}
		o.holders[tid] = set
	}
	set[hid] = true
}

// Unlink removes the holder → target reference link. If target has no
// remaining holders, it is unmonitored and dropped from the updated and
// pre-existing sets — unless target is the trailer, which is never
// unmonitored.
func (o *Observer) Unlink(holder, target *object.IndirectReference) {
	tid := identityOf(target)
	hid := identityOf(holder)

	set, ok := o.holders[tid]
	if !ok {
		return
	}
	delete(set, hid)
	if len(set) > 0 {
		return
	}
	delete(o.holders, tid)
	if tid == o.trailer {
		return
	}
	delete(o.monitored, tid)
	delete(o.updated, tid)
	delete(o.preExisting, tid)
}

// Record reports a mutation event. EventDereference is a deliberate
// no-op: reading a pre-existing indirect object does not by itself mark
// it for inclusion in an incremental save.
func (o *Observer) Record(e Event) {
	switch e.Kind {
	case EventAdd, EventReplace, EventDirectUpdate:
		o.markUpdated(identityOf(e.Target))
	case EventDereference, EventRemove:
		// no-op: dereference never marks updated on its own; removal is
		// reported through Unlink, not Record.
	}
}

// markUpdated marks id updated and recurses into every holder of id, so a
// mutation nested several indirect objects deep still marks every
// ancestor that needs rewriting. Already-updated identities short-circuit
// the recursion, which also makes this safe against reference cycles.
func (o *Observer) markUpdated(id identity) {
	if !o.monitored[id] {
		return
	}
	if o.updated[id] {
		return
	}
	o.updated[id] = true
	for holderID := range o.holders[id] {
		o.markUpdated(holderID)
	}
}

// UpdatedRefs returns every object currently marked for inclusion in an
// incremental save.
func (o *Observer) UpdatedRefs() []*object.IndirectReference {
	out := make([]*object.IndirectReference, 0, len(o.updated))
	for id := range o.updated {
		out = append(out, id.ref())
	}
	return out
}

// MonitoredRefs returns every object currently being watched.
func (o *Observer) MonitoredRefs() []*object.IndirectReference {
	out := make([]*object.IndirectReference, 0, len(o.monitored))
	for id := range o.monitored {
		out = append(out, id.ref())
	}
	return out
}
