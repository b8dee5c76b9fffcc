// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package wire defines the bodies exchanged by the remote methods of the
// connector handle and its sessions.
package wire

// Handle methods.
const (
	MethodVersion   = "version"
	MethodNewClient = "newClient"
)

// Session methods.
const (
	MethodConnectionID                   = "connectionId"
	MethodCreateResource                 = "createResource"
	MethodUnregisterResource             = "unregisterResource"
	MethodGetResourceInstance            = "getResourceInstance"
	MethodQueryResources                 = "queryResources"
	MethodQueryNames                     = "queryNames"
	MethodIsRegistered                   = "isRegistered"
	MethodGetResourceCount               = "getResourceCount"
	MethodGetAttribute                   = "getAttribute"
	MethodGetAttributes                  = "getAttributes"
	MethodSetAttribute                   = "setAttribute"
	MethodSetAttributes                  = "setAttributes"
	MethodInvoke                         = "invoke"
	MethodGetDefaultDomain               = "getDefaultDomain"
	MethodGetDomains                     = "getDomains"
	MethodGetResourceInfo                = "getResourceInfo"
	MethodIsInstanceOf                   = "isInstanceOf"
	MethodAddNotificationListeners       = "addNotificationListeners"
	MethodRemoveNotificationListeners    = "removeNotificationListeners"
	MethodAddResourceListener            = "addResourceListener"
	MethodRemoveResourceListener         = "removeResourceListener"
	MethodRemoveResourceListenerMatching = "removeResourceListenerMatching"
	MethodFetchNotifications             = "fetchNotifications"
	MethodClose                          = "close"
)
