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

// Subscriber declares event bindings that are registered and removed as a
// unit. The declaration must be pure: AddSubscriber and RemoveSubscriber both
// derive the same listener handles from it.
type Subscriber interface {
	SubscribedEvents() map[string][]Binding
}

// Binding couples a handler method name with an invocation priority. Within
// one event the bindings are registered in declaration order.
type Binding struct {
	Method   string
	Priority int
}

// Bind declares a handler at the default priority.
func Bind(method string) Binding {
	return Binding{Method: method}
}

// BindPriority declares a handler at an explicit priority. Higher priorities
// run earlier.
func BindPriority(method string, priority int) Binding {
	return Binding{Method: method, Priority: priority}
}
