/**
 *
 * (c) Copyright Ascensio System SIA 2023
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package events

import (
	"sort"
	"sync"
)

// Dispatcher is the full contract shared by the base dispatcher, the
// service-bound dispatcher and the decorators around them.
//
// The empty event name passed to HasListeners means "any event". Listeners,
// AllListeners and HasListeners may fail on the service-bound variant, where
// inspection forces deferred bindings to resolve first.
type Dispatcher interface {
	Dispatch(eventName string, event Event) (Event, error)
	AddListener(eventName string, listener Listener, priority int) error
	RemoveListener(eventName string, listener Listener) error
	AddSubscriber(subscriber Subscriber) error
	RemoveSubscriber(subscriber Subscriber) error
	Listeners(eventName string) ([]Listener, error)
	AllListeners() (map[string][]Listener, error)
	HasListeners(eventName string) (bool, error)
}

// EventDispatcher is the base synchronous dispatcher. Listeners are stored
// per event per priority, flattened into a lazily built sorted view that is
// invalidated on every mutation of the event's listener set.
type EventDispatcher struct {
	locker    sync.Mutex
	listeners map[string]map[int][]Listener
	sorted    map[string][]Listener
}

// NewEventDispatcher creates an empty dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make(map[string]map[int][]Listener),
		sorted:    make(map[string][]Listener),
	}
}

// AddListener appends a listener to the event's priority bucket. The same
// listener registered twice is invoked twice.
func (d *EventDispatcher) AddListener(eventName string, listener Listener, priority int) error {
	d.locker.Lock()
	defer d.locker.Unlock()

	buckets, ok := d.listeners[eventName]
	if !ok {
		buckets = make(map[int][]Listener)
		d.listeners[eventName] = buckets
	}

	buckets[priority] = append(buckets[priority], listener)
	delete(d.sorted, eventName)

	return nil
}

// RemoveListener removes every occurrence of the listener across all priority
// buckets of the event. Removing an unknown listener or event is a no-op.
func (d *EventDispatcher) RemoveListener(eventName string, listener Listener) error {
	d.locker.Lock()
	defer d.locker.Unlock()
	d.removeLocked(eventName, listener)
	return nil
}

func (d *EventDispatcher) removeLocked(eventName string, listener Listener) {
	buckets, ok := d.listeners[eventName]
	if !ok {
		return
	}

	for priority, bucket := range buckets {
		kept := make([]Listener, 0, len(bucket))
		for _, registered := range bucket {
			if !sameCallable(registered, listener) {
				kept = append(kept, registered)
			}
		}
		if len(kept) == 0 {
			delete(buckets, priority)
		} else {
			buckets[priority] = kept
		}
	}

	if len(buckets) == 0 {
		delete(d.listeners, eventName)
	}

	delete(d.sorted, eventName)
}

// AddSubscriber registers every binding the subscriber declares, in
// declaration order per event.
func (d *EventDispatcher) AddSubscriber(subscriber Subscriber) error {
	for eventName, bindings := range subscriber.SubscribedEvents() {
		for _, binding := range bindings {
			if err := d.AddListener(eventName, Method(subscriber, binding.Method), binding.Priority); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveSubscriber derives the same handles the subscriber was registered
// with and removes all identity matches, whatever priority they ended up at.
func (d *EventDispatcher) RemoveSubscriber(subscriber Subscriber) error {
	for eventName, bindings := range subscriber.SubscribedEvents() {
		for _, binding := range bindings {
			if err := d.RemoveListener(eventName, Method(subscriber, binding.Method)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Dispatch invokes the event's listeners ordered by descending priority,
// insertion order breaking ties, until one of them stops propagation or
// fails. A nil event yields a fresh BasicEvent. The carrier is always
// returned, mutated or not.
func (d *EventDispatcher) Dispatch(eventName string, event Event) (Event, error) {
	return d.dispatch(eventName, event, d)
}

// dispatch runs the engine on behalf of self, so layered dispatchers stamp
// and pass themselves rather than the embedded base.
func (d *EventDispatcher) dispatch(eventName string, event Event, self Dispatcher) (Event, error) {
	if event == nil {
		event = NewBasicEvent()
	}
	event.SetName(eventName)
	event.SetDispatcher(self)

	d.locker.Lock()
	if _, ok := d.listeners[eventName]; !ok {
		d.locker.Unlock()
		return event, nil
	}
	chain := d.sortLocked(eventName)
	d.locker.Unlock()

	// The chain is a snapshot: listeners registering or removing listeners
	// mid-dispatch only affect the next dispatch call.
	for _, listener := range chain {
		if err := listener.Handle(event, eventName, self); err != nil {
			return event, err
		}
		if event.IsPropagationStopped() {
			break
		}
	}

	return event, nil
}

// Listeners returns the flattened, priority-ordered listeners of the event,
// or nil if the event is unknown.
func (d *EventDispatcher) Listeners(eventName string) ([]Listener, error) {
	d.locker.Lock()
	defer d.locker.Unlock()

	if _, ok := d.listeners[eventName]; !ok {
		return nil, nil
	}

	return d.sortLocked(eventName), nil
}

// AllListeners builds every event's sorted view and returns the full mapping.
func (d *EventDispatcher) AllListeners() (map[string][]Listener, error) {
	d.locker.Lock()
	defer d.locker.Unlock()

	all := make(map[string][]Listener, len(d.listeners))
	for eventName := range d.listeners {
		all[eventName] = d.sortLocked(eventName)
	}

	return all, nil
}

// HasListeners reports whether the event has any listeners. The empty name
// checks every event. Present events always hold at least one listener, so
// presence is sufficient.
func (d *EventDispatcher) HasListeners(eventName string) (bool, error) {
	d.locker.Lock()
	defer d.locker.Unlock()

	if eventName == "" {
		return len(d.listeners) > 0, nil
	}

	_, ok := d.listeners[eventName]
	return ok, nil
}

// sortLocked returns the cached flattened view for the event, rebuilding it
// from the priority buckets when stale: priorities descending, insertion
// order within a priority.
func (d *EventDispatcher) sortLocked(eventName string) []Listener {
	if flat, ok := d.sorted[eventName]; ok {
		return flat
	}

	buckets := d.listeners[eventName]
	priorities := make([]int, 0, len(buckets))
	for priority := range buckets {
		priorities = append(priorities, priority)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(priorities)))

	flat := make([]Listener, 0)
	for _, priority := range priorities {
		flat = append(flat, buckets[priority]...)
	}
	d.sorted[eventName] = flat

	return flat
}
