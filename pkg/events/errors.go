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
	"errors"
	"fmt"
)

// ErrImmutableDispatcher is returned by every mutating call on a read-only
// dispatcher proxy.
var ErrImmutableDispatcher = errors.New("could not modify a read-only dispatcher")

// InvalidBindingError signals a malformed service listener binding. The
// registry state is left untouched.
type InvalidBindingError struct {
	Event   string
	Service string
	Method  string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("could not bind service listener (event=%q service=%q method=%q)", e.Event, e.Service, e.Method)
}

// UnknownHandlerError signals that a listener owner does not expose the bound
// handler method with a supported signature.
type UnknownHandlerError struct {
	Owner  string
	Method string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("%s does not expose a usable handler method %s", e.Owner, e.Method)
}
