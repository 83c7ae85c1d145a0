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
	"sync"
)

// Locator resolves service instances by string identifier. Implementations
// are free to return a different instance on every call for the same id
// (non-shared scope); the service dispatcher reconciles against that.
type Locator interface {
	Get(id string) (any, error)
}

type serviceBinding struct {
	service  string
	method   string
	priority int
}

// ServiceDispatcher defers listener construction to a Locator. Bindings are
// recorded as (service, method, priority) triples and materialized into the
// embedded base dispatcher right before the first operation that needs them.
// When the locator hands out a new instance for an already materialized
// binding, the stale listener is replaced so dispatch always reaches the most
// recently observed instance, never an accumulation of old ones.
type ServiceDispatcher struct {
	*EventDispatcher
	locator  Locator
	locker   sync.Mutex
	deferred map[string][]serviceBinding
	resolved map[string]map[string]any
}

// NewServiceDispatcher creates a dispatcher backed by the given locator.
func NewServiceDispatcher(locator Locator) *ServiceDispatcher {
	return &ServiceDispatcher{
		EventDispatcher: NewEventDispatcher(),
		locator:         locator,
		deferred:        make(map[string][]serviceBinding),
		resolved:        make(map[string]map[string]any),
	}
}

// AddListenerService records a deferred binding without touching the
// locator. A blank event name, service id or method is a caller error.
func (d *ServiceDispatcher) AddListenerService(eventName, serviceID, method string, priority int) error {
	if eventName == "" || serviceID == "" || method == "" {
		return &InvalidBindingError{Event: eventName, Service: serviceID, Method: method}
	}

	d.locker.Lock()
	defer d.locker.Unlock()

	d.deferred[eventName] = append(d.deferred[eventName], serviceBinding{
		service:  serviceID,
		method:   method,
		priority: priority,
	})

	return nil
}

// AddSubscriberService converts a subscriber declaration into deferred
// bindings against the given service id. Only SubscribedEvents is consulted;
// the handling instance is resolved from the locator later.
func (d *ServiceDispatcher) AddSubscriberService(serviceID string, declaration Subscriber) error {
	if serviceID == "" || declaration == nil {
		return &InvalidBindingError{Service: serviceID}
	}

	for eventName, bindings := range declaration.SubscribedEvents() {
		for _, binding := range bindings {
			if err := d.AddListenerService(eventName, serviceID, binding.Method, binding.Priority); err != nil {
				return err
			}
		}
	}

	return nil
}

// Dispatch materializes the event's deferred bindings and delegates to the
// base engine. A resolution failure propagates with the stamped carrier;
// bindings reconciled before the failure stay reconciled.
func (d *ServiceDispatcher) Dispatch(eventName string, event Event) (Event, error) {
	if event == nil {
		event = NewBasicEvent()
	}
	event.SetName(eventName)
	event.SetDispatcher(d)

	if err := d.lazyLoad(eventName); err != nil {
		return event, err
	}

	return d.EventDispatcher.dispatch(eventName, event, d)
}

func (d *ServiceDispatcher) Listeners(eventName string) ([]Listener, error) {
	if err := d.lazyLoad(eventName); err != nil {
		return nil, err
	}
	return d.EventDispatcher.Listeners(eventName)
}

func (d *ServiceDispatcher) AllListeners() (map[string][]Listener, error) {
	if err := d.lazyLoadAll(); err != nil {
		return nil, err
	}
	return d.EventDispatcher.AllListeners()
}

func (d *ServiceDispatcher) HasListeners(eventName string) (bool, error) {
	if eventName == "" {
		if err := d.lazyLoadAll(); err != nil {
			return false, err
		}
	} else if err := d.lazyLoad(eventName); err != nil {
		return false, err
	}

	return d.EventDispatcher.HasListeners(eventName)
}

// RemoveListener materializes the event's deferred bindings first, so a
// binding can be matched and dropped before it was ever dispatched, then
// delegates identity-based removal to the base registry.
func (d *ServiceDispatcher) RemoveListener(eventName string, listener Listener) error {
	d.locker.Lock()
	defer d.locker.Unlock()

	if err := d.lazyLoadLocked(eventName); err != nil {
		return err
	}

	cache := d.resolved[eventName]
	kept := make([]serviceBinding, 0, len(d.deferred[eventName]))
	for _, binding := range d.deferred[eventName] {
		key := binding.service + "." + binding.method
		if sameCallable(Method(cache[key], binding.method), listener) {
			delete(cache, key)
			continue
		}
		kept = append(kept, binding)
	}

	if len(kept) == 0 {
		delete(d.deferred, eventName)
	} else {
		d.deferred[eventName] = kept
	}

	return d.EventDispatcher.RemoveListener(eventName, listener)
}

// RemoveSubscriber removes every binding the subscriber declares through the
// lazy-load aware RemoveListener.
func (d *ServiceDispatcher) RemoveSubscriber(subscriber Subscriber) error {
	for eventName, bindings := range subscriber.SubscribedEvents() {
		for _, binding := range bindings {
			if err := d.RemoveListener(eventName, Method(subscriber, binding.Method)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *ServiceDispatcher) lazyLoad(eventName string) error {
	d.locker.Lock()
	defer d.locker.Unlock()
	return d.lazyLoadLocked(eventName)
}

func (d *ServiceDispatcher) lazyLoadAll() error {
	d.locker.Lock()
	defer d.locker.Unlock()

	for eventName := range d.deferred {
		if err := d.lazyLoadLocked(eventName); err != nil {
			return err
		}
	}

	return nil
}

// lazyLoadLocked resolves every deferred binding of the event and syncs the
// base registry with the freshly observed instances. Best-effort: a failing
// resolution does not roll back the bindings already reconciled in this pass.
func (d *ServiceDispatcher) lazyLoadLocked(eventName string) error {
	for _, binding := range d.deferred[eventName] {
		instance, err := d.locator.Get(binding.service)
		if err != nil {
			return err
		}

		key := binding.service + "." + binding.method
		cache := d.resolved[eventName]
		if cache == nil {
			cache = make(map[string]any)
			d.resolved[eventName] = cache
		}

		previous, seen := cache[key]
		switch {
		case !seen:
			d.EventDispatcher.AddListener(eventName, Method(instance, binding.method), binding.priority)
		case !sameInstance(previous, instance):
			d.EventDispatcher.RemoveListener(eventName, Method(previous, binding.method))
			d.EventDispatcher.AddListener(eventName, Method(instance, binding.method), binding.priority)
		}

		cache[key] = instance
	}

	return nil
}
