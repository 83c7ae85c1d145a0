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

// ImmutableDispatcher is a read-only proxy over another dispatcher. Reads
// and dispatching delegate verbatim; every mutating call fails with
// ErrImmutableDispatcher without touching the wrapped dispatcher.
type ImmutableDispatcher struct {
	dispatcher Dispatcher
}

// NewImmutableDispatcher wraps a dispatcher into a read-only façade.
func NewImmutableDispatcher(dispatcher Dispatcher) *ImmutableDispatcher {
	return &ImmutableDispatcher{dispatcher: dispatcher}
}

func (d *ImmutableDispatcher) Dispatch(eventName string, event Event) (Event, error) {
	return d.dispatcher.Dispatch(eventName, event)
}

func (d *ImmutableDispatcher) Listeners(eventName string) ([]Listener, error) {
	return d.dispatcher.Listeners(eventName)
}

func (d *ImmutableDispatcher) AllListeners() (map[string][]Listener, error) {
	return d.dispatcher.AllListeners()
}

func (d *ImmutableDispatcher) HasListeners(eventName string) (bool, error) {
	return d.dispatcher.HasListeners(eventName)
}

func (d *ImmutableDispatcher) AddListener(eventName string, listener Listener, priority int) error {
	return ErrImmutableDispatcher
}

func (d *ImmutableDispatcher) RemoveListener(eventName string, listener Listener) error {
	return ErrImmutableDispatcher
}

func (d *ImmutableDispatcher) AddSubscriber(subscriber Subscriber) error {
	return ErrImmutableDispatcher
}

func (d *ImmutableDispatcher) RemoveSubscriber(subscriber Subscriber) error {
	return ErrImmutableDispatcher
}
