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

// Event is the mutable carrier handed to every listener of a dispatch call.
// Dispatch stamps the name and the dispatcher reference before the first
// listener runs, overwriting whatever the caller pre-set.
type Event interface {
	Name() string
	SetName(name string)
	Dispatcher() Dispatcher
	SetDispatcher(dispatcher Dispatcher)
	// StopPropagation is a one-way latch: once stopped, the remaining
	// listeners of the current dispatch are skipped.
	StopPropagation()
	IsPropagationStopped() bool
}

// BasicEvent is the default Event implementation with a key/value payload.
// Custom events embed it and add typed fields on top.
type BasicEvent struct {
	name       string
	dispatcher Dispatcher
	stopped    bool
	data       map[string]any
}

// NewBasicEvent creates an empty event carrier.
func NewBasicEvent() *BasicEvent {
	return &BasicEvent{
		data: make(map[string]any),
	}
}

func (e *BasicEvent) Name() string {
	return e.name
}

func (e *BasicEvent) SetName(name string) {
	e.name = name
}

func (e *BasicEvent) Dispatcher() Dispatcher {
	return e.dispatcher
}

func (e *BasicEvent) SetDispatcher(dispatcher Dispatcher) {
	e.dispatcher = dispatcher
}

func (e *BasicEvent) StopPropagation() {
	e.stopped = true
}

func (e *BasicEvent) IsPropagationStopped() bool {
	return e.stopped
}

// Get returns a payload value or nil.
func (e *BasicEvent) Get(key string) any {
	return e.data[key]
}

// Set stores a payload value.
func (e *BasicEvent) Set(key string, val any) {
	if e.data == nil {
		e.data = make(map[string]any)
	}
	e.data[key] = val
}
