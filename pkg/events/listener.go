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
	"reflect"
)

// Listener reacts to a dispatched event. A non-nil error aborts the current
// dispatch chain and propagates to the Dispatch caller.
type Listener interface {
	Handle(event Event, eventName string, dispatcher Dispatcher) error
}

// ListenerFunc adapts a plain function to the Listener interface. Two
// ListenerFunc values are the same listener only when they wrap the same
// function.
type ListenerFunc func(event Event, eventName string, dispatcher Dispatcher) error

func (f ListenerFunc) Handle(event Event, eventName string, dispatcher Dispatcher) error {
	return f(event, eventName, dispatcher)
}

// Method binds the named method of an owner instance as a listener. Handles
// derived from the same owner and method name compare equal, which is the
// identity RemoveListener and RemoveSubscriber match on. The method must have
// one of the signatures
//
//	func(events.Event, string, events.Dispatcher) error
//	func(events.Event) error
func Method(owner any, method string) Listener {
	return methodListener{owner: owner, method: method}
}

type methodListener struct {
	owner  any
	method string
}

func (l methodListener) Handle(event Event, eventName string, dispatcher Dispatcher) error {
	if l.owner == nil {
		return &UnknownHandlerError{Owner: "<nil>", Method: l.method}
	}

	target := reflect.ValueOf(l.owner).MethodByName(l.method)
	if !target.IsValid() {
		return &UnknownHandlerError{Owner: reflect.TypeOf(l.owner).String(), Method: l.method}
	}

	switch handler := target.Interface().(type) {
	case func(Event, string, Dispatcher) error:
		return handler(event, eventName, dispatcher)
	case func(Event) error:
		return handler(event)
	default:
		return &UnknownHandlerError{Owner: reflect.TypeOf(l.owner).String(), Method: l.method}
	}
}

// sameCallable reports whether two listener handles refer to the same
// underlying callable. Removal is identity-based, never structural.
func sameCallable(a, b Listener) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if am, ok := a.(methodListener); ok {
		bm, ok := b.(methodListener)
		return ok && am.method == bm.method && sameInstance(am.owner, bm.owner)
	}

	return sameInstance(a, b)
}

// sameInstance compares two values by identity without panicking on
// incomparable dynamic types (functions fall back to pointer identity).
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	at, bt := reflect.TypeOf(a), reflect.TypeOf(b)
	if at != bt {
		return false
	}

	if at.Comparable() {
		return a == b
	}

	switch av := reflect.ValueOf(a); av.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Chan:
		return av.Pointer() == reflect.ValueOf(b).Pointer()
	default:
		return false
	}
}
