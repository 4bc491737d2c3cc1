package stomp

import "container/list"

// Subscription represents one client-registered interest in a
// destination. Created on SUBSCRIBE, removed on UNSUBSCRIBE or session
// teardown. client-individual ack mode is only legal at STOMP 1.1+;
// that rule is enforced by the dialect layer at SUBSCRIBE time, not
// here.
type Subscription struct {
	ID          string
	Destination string
	Ack         AckMode
	Selector    string
	Headers     map[string]string

	// release, if non-nil, returns a process-allocated integer id to
	// the pool. It is nil when the caller supplied their own id.
	release func()
}

// Release returns any process-allocated id backing this subscription
// to the pool. Safe to call on a Subscription with no allocated id.
func (s *Subscription) Release() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// SubscriptionTable is an insertion-ordered, container/list-backed
// registry of active subscriptions: lookup by id for UNSUBSCRIBE, and
// advisory lookup by inbound MESSAGE frame.
type SubscriptionTable struct {
	items *list.List
}

// NewSubscriptionTable returns an empty table.
func NewSubscriptionTable() *SubscriptionTable {
	return &SubscriptionTable{items: list.New()}
}

// Add appends sub to the back of the table.
func (t *SubscriptionTable) Add(sub *Subscription) {
	t.items.PushBack(sub)
}

// Len reports the number of active subscriptions.
func (t *SubscriptionTable) Len() int { return t.items.Len() }

// First returns the oldest subscription without removing it, or nil
// if the table is empty.
func (t *SubscriptionTable) First() *Subscription {
	if t.items.Len() == 0 {
		return nil
	}
	return t.items.Front().Value.(*Subscription)
}

// FindByID returns the subscription with the exact id, or nil.
func (t *SubscriptionTable) FindByID(id string) *Subscription {
	for e := t.items.Front(); e != nil; e = e.Next() {
		if sub := e.Value.(*Subscription); sub.ID == id {
			return sub
		}
	}
	return nil
}

// FindByFrame returns the first subscription whose id matches the
// frame's "subscription" header, or nil if the frame carries no such
// header or matches none. This dispatch is advisory:
// callers must still surface frames that match nothing, not drop them.
func (t *SubscriptionTable) FindByFrame(f *Frame) *Subscription {
	subID, ok := f.Header(HKSubscription)
	if !ok {
		return nil
	}
	return t.FindByID(subID)
}

// RemoveByID removes and returns the subscription with the exact id,
// or nil if not present. It does not release the subscription's
// allocated id; callers decide when that happens, typically on
// successful unsubscribe.
func (t *SubscriptionTable) RemoveByID(id string) *Subscription {
	for e := t.items.Front(); e != nil; e = e.Next() {
		if sub := e.Value.(*Subscription); sub.ID == id {
			t.items.Remove(e)
			return sub
		}
	}
	return nil
}
