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

package server

import (
	"context"

	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/encoding/json"
	"go.uber.org/mgmtrpc/internal/wire"
	"go.uber.org/mgmtrpc/serialize"
)

// newHandleObject exports h to remote clients.
func newHandleObject(h *handle) *json.Object {
	return json.NewObject(
		json.Procedure(wire.MethodVersion, func(ctx context.Context, _ *wire.Empty) (*wire.VersionResponse, error) {
			v, err := h.Version(ctx)
			if err != nil {
				return nil, err
			}
			return &wire.VersionResponse{Version: v}, nil
		}),
		json.Procedure(wire.MethodNewClient, func(ctx context.Context, req *wire.NewClientRequest) (*wire.NewClientResponse, error) {
			ss, err := h.s.newClient(ctx, json.CallFromContext(ctx).Caller(), req.Credentials)
			if err != nil {
				return nil, err
			}
			return &wire.NewClientResponse{Session: ss.objectID, ConnectionID: ss.id}, nil
		}),
	)
}

// sessionObject adapts a session to remote calls. Values received from
// clients are resolved from reg, which carries the serial filter.
type sessionObject struct {
	ss  *session
	reg *serialize.Registry
}

func newSessionObject(ss *session, reg *serialize.Registry) *json.Object {
	o := sessionObject{ss: ss, reg: reg}
	return json.NewObject(
		json.Procedure(wire.MethodConnectionID, o.connectionID),
		json.Procedure(wire.MethodCreateResource, o.createResource),
		json.Procedure(wire.MethodUnregisterResource, o.unregisterResource),
		json.Procedure(wire.MethodGetResourceInstance, o.getResourceInstance),
		json.Procedure(wire.MethodQueryResources, o.queryResources),
		json.Procedure(wire.MethodQueryNames, o.queryNames),
		json.Procedure(wire.MethodIsRegistered, o.isRegistered),
		json.Procedure(wire.MethodGetResourceCount, o.getResourceCount),
		json.Procedure(wire.MethodGetAttribute, o.getAttribute),
		json.Procedure(wire.MethodGetAttributes, o.getAttributes),
		json.Procedure(wire.MethodSetAttribute, o.setAttribute),
		json.Procedure(wire.MethodSetAttributes, o.setAttributes),
		json.Procedure(wire.MethodInvoke, o.invoke),
		json.Procedure(wire.MethodGetDefaultDomain, o.getDefaultDomain),
		json.Procedure(wire.MethodGetDomains, o.getDomains),
		json.Procedure(wire.MethodGetResourceInfo, o.getResourceInfo),
		json.Procedure(wire.MethodIsInstanceOf, o.isInstanceOf),
		json.Procedure(wire.MethodAddNotificationListeners, o.addNotificationListeners),
		json.Procedure(wire.MethodRemoveNotificationListeners, o.removeNotificationListeners),
		json.Procedure(wire.MethodAddResourceListener, o.addResourceListener),
		json.Procedure(wire.MethodRemoveResourceListener, o.removeResourceListener),
		json.Procedure(wire.MethodRemoveResourceListenerMatching, o.removeResourceListenerMatching),
		json.Procedure(wire.MethodFetchNotifications, o.fetchNotifications),
		json.Procedure(wire.MethodClose, o.close),
	)
}

func (o sessionObject) connectionID(ctx context.Context, _ *wire.Empty) (*wire.StringResponse, error) {
	id, err := o.ss.ConnectionID(ctx)
	return &wire.StringResponse{Value: id}, err
}

func (o sessionObject) createResource(ctx context.Context, req *wire.CreateResourceRequest) (*wire.InstanceResponse, error) {
	params, err := wire.DecodeValues(o.reg, req.Params)
	if err != nil {
		return nil, err
	}
	inst, err := o.ss.CreateResource(ctx, req.Class, req.Name, params, req.Signature, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.InstanceResponse{Instance: inst}, nil
}

func (o sessionObject) unregisterResource(ctx context.Context, req *wire.NameRequest) (*wire.Empty, error) {
	return nil, o.ss.UnregisterResource(ctx, req.Name, req.Delegate)
}

func (o sessionObject) getResourceInstance(ctx context.Context, req *wire.NameRequest) (*wire.InstanceResponse, error) {
	inst, err := o.ss.GetResourceInstance(ctx, req.Name, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.InstanceResponse{Instance: inst}, nil
}

func (o sessionObject) queryResources(ctx context.Context, req *wire.QueryRequest) (*wire.InstancesResponse, error) {
	q, err := wire.DecodeQuery(o.reg, req.Query)
	if err != nil {
		return nil, err
	}
	insts, err := o.ss.QueryResources(ctx, req.Pattern, q, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.InstancesResponse{Instances: insts}, nil
}

func (o sessionObject) queryNames(ctx context.Context, req *wire.QueryRequest) (*wire.NamesResponse, error) {
	q, err := wire.DecodeQuery(o.reg, req.Query)
	if err != nil {
		return nil, err
	}
	names, err := o.ss.QueryNames(ctx, req.Pattern, q, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.NamesResponse{Names: names}, nil
}

func (o sessionObject) isRegistered(ctx context.Context, req *wire.NameRequest) (*wire.BoolResponse, error) {
	ok, err := o.ss.IsRegistered(ctx, req.Name, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.BoolResponse{Value: ok}, nil
}

func (o sessionObject) getResourceCount(ctx context.Context, req *wire.DelegateRequest) (*wire.IntResponse, error) {
	n, err := o.ss.GetResourceCount(ctx, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.IntResponse{Value: n}, nil
}

func (o sessionObject) getAttribute(ctx context.Context, req *wire.GetAttributeRequest) (*wire.ValueResponse, error) {
	v, err := o.ss.GetAttribute(ctx, req.Name, req.Attribute, req.Delegate)
	if err != nil {
		return nil, err
	}
	enc, err := o.reg.Encode(v)
	if err != nil {
		return nil, err
	}
	return &wire.ValueResponse{Value: enc}, nil
}

func (o sessionObject) getAttributes(ctx context.Context, req *wire.GetAttributesRequest) (*wire.AttributesResponse, error) {
	l, err := o.ss.GetAttributes(ctx, req.Name, req.Attributes, req.Delegate)
	if err != nil {
		return nil, err
	}
	attrs, err := wire.EncodeAttributes(o.reg, l)
	if err != nil {
		return nil, err
	}
	return &wire.AttributesResponse{Attributes: attrs}, nil
}

func (o sessionObject) setAttribute(ctx context.Context, req *wire.SetAttributeRequest) (*wire.Empty, error) {
	attr, err := wire.DecodeAttribute(o.reg, req.Attribute)
	if err != nil {
		return nil, err
	}
	return nil, o.ss.SetAttribute(ctx, req.Name, attr, req.Delegate)
}

func (o sessionObject) setAttributes(ctx context.Context, req *wire.SetAttributesRequest) (*wire.AttributesResponse, error) {
	l, err := wire.DecodeAttributes(o.reg, req.Attributes)
	if err != nil {
		return nil, err
	}
	set, err := o.ss.SetAttributes(ctx, req.Name, l, req.Delegate)
	if err != nil {
		return nil, err
	}
	attrs, err := wire.EncodeAttributes(o.reg, set)
	if err != nil {
		return nil, err
	}
	return &wire.AttributesResponse{Attributes: attrs}, nil
}

func (o sessionObject) invoke(ctx context.Context, req *wire.InvokeRequest) (*wire.ValueResponse, error) {
	params, err := wire.DecodeValues(o.reg, req.Params)
	if err != nil {
		return nil, err
	}
	v, err := o.ss.Invoke(ctx, req.Name, req.Operation, params, req.Signature, req.Delegate)
	if err != nil {
		return nil, err
	}
	enc, err := o.reg.Encode(v)
	if err != nil {
		return nil, err
	}
	return &wire.ValueResponse{Value: enc}, nil
}

func (o sessionObject) getDefaultDomain(ctx context.Context, req *wire.DelegateRequest) (*wire.StringResponse, error) {
	d, err := o.ss.GetDefaultDomain(ctx, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.StringResponse{Value: d}, nil
}

func (o sessionObject) getDomains(ctx context.Context, req *wire.DelegateRequest) (*wire.StringsResponse, error) {
	ds, err := o.ss.GetDomains(ctx, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.StringsResponse{Values: ds}, nil
}

func (o sessionObject) getResourceInfo(ctx context.Context, req *wire.NameRequest) (*wire.InfoResponse, error) {
	info, err := o.ss.GetResourceInfo(ctx, req.Name, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.InfoResponse{Info: info}, nil
}

func (o sessionObject) isInstanceOf(ctx context.Context, req *wire.InstanceOfRequest) (*wire.BoolResponse, error) {
	ok, err := o.ss.IsInstanceOf(ctx, req.Name, req.Class, req.Delegate)
	if err != nil {
		return nil, err
	}
	return &wire.BoolResponse{Value: ok}, nil
}

func (o sessionObject) addNotificationListeners(ctx context.Context, req *wire.AddListenersRequest) (*wire.IDsResponse, error) {
	ids, err := o.ss.AddNotificationListeners(ctx, req.Names, req.Filters, req.Delegates)
	if err != nil {
		return nil, err
	}
	return &wire.IDsResponse{IDs: ids}, nil
}

func (o sessionObject) removeNotificationListeners(ctx context.Context, req *wire.RemoveListenersRequest) (*wire.Empty, error) {
	return nil, o.ss.RemoveNotificationListeners(ctx, req.Name, req.IDs, req.Delegate)
}

func (o sessionObject) resourceListener(req *wire.ResourceListenerRequest) (mgmt.Name, mgmt.Name, *mgmt.Filter, interface{}, error) {
	handback, err := wire.DecodeOptional(o.reg, req.Handback)
	return req.Name, req.ListenerName, req.Filter, handback, err
}

func (o sessionObject) addResourceListener(ctx context.Context, req *wire.ResourceListenerRequest) (*wire.Empty, error) {
	name, listener, filter, handback, err := o.resourceListener(req)
	if err != nil {
		return nil, err
	}
	return nil, o.ss.AddResourceListener(ctx, name, listener, filter, handback, req.Delegate)
}

func (o sessionObject) removeResourceListener(ctx context.Context, req *wire.ResourceListenerRequest) (*wire.Empty, error) {
	return nil, o.ss.RemoveResourceListener(ctx, req.Name, req.ListenerName, req.Delegate)
}

func (o sessionObject) removeResourceListenerMatching(ctx context.Context, req *wire.ResourceListenerRequest) (*wire.Empty, error) {
	name, listener, filter, handback, err := o.resourceListener(req)
	if err != nil {
		return nil, err
	}
	return nil, o.ss.RemoveResourceListenerMatching(ctx, name, listener, filter, handback, req.Delegate)
}

func (o sessionObject) fetchNotifications(ctx context.Context, req *wire.FetchRequest) (*wire.FetchResponse, error) {
	res, err := o.ss.FetchNotifications(ctx, req.FromSeq, req.MaxCount, wire.MillisToTimeout(req.TimeoutMillis))
	if err != nil {
		return nil, err
	}
	enc, err := wire.EncodeResult(o.reg, res)
	if err != nil {
		return nil, err
	}
	return &wire.FetchResponse{Result: enc}, nil
}

func (o sessionObject) close(ctx context.Context, _ *wire.Empty) (*wire.Empty, error) {
	return nil, o.ss.Close(ctx)
}
