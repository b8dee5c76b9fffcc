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

package client

import (
	"context"
	"time"

	"go.uber.org/mgmtrpc/api/auth"
	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/api/transport"
	"go.uber.org/mgmtrpc/encoding/json"
	"go.uber.org/mgmtrpc/internal/wire"
	"go.uber.org/mgmtrpc/serialize"
)

// handleStub is the client side of a remote handle.
type handleStub struct {
	ref      connector.Reference
	outbound transport.Outbound
	client   json.Client
	reg      *serialize.Registry
}

var (
	_ connector.RemoteHandle = (*handleStub)(nil)
	_ connector.Kinded       = (*handleStub)(nil)
)

func newHandleStub(ref connector.Reference, out transport.Outbound, reg *serialize.Registry) *handleStub {
	return &handleStub{
		ref:      ref,
		outbound: out,
		client:   json.New(out, ref.Object),
		reg:      reg,
	}
}

func (h *handleStub) Kind() string {
	return h.ref.Kind
}

func (h *handleStub) Version(ctx context.Context) (string, error) {
	var res wire.VersionResponse
	if err := h.client.Call(ctx, wire.MethodVersion, &wire.Empty{}, &res); err != nil {
		return "", err
	}
	return res.Version, nil
}

func (h *handleStub) NewClient(ctx context.Context, creds *auth.Credentials) (connector.Session, error) {
	var res wire.NewClientResponse
	if err := h.client.Call(ctx, wire.MethodNewClient, &wire.NewClientRequest{Credentials: creds}, &res); err != nil {
		return nil, err
	}
	return &sessionStub{
		id:     res.ConnectionID,
		client: json.New(h.outbound, res.Session),
		reg:    h.reg,
	}, nil
}

// sessionStub is the client side of a remote session.
type sessionStub struct {
	id     string
	client json.Client
	reg    *serialize.Registry
}

var _ connector.Session = (*sessionStub)(nil)

func (s *sessionStub) ConnectionID(context.Context) (string, error) {
	return s.id, nil
}

func (s *sessionStub) CreateResource(ctx context.Context, class string, name mgmt.Name, params []interface{}, signature []string, delegate *auth.Subject) (mgmt.Instance, error) {
	enc, err := wire.EncodeValues(s.reg, params)
	if err != nil {
		return mgmt.Instance{}, err
	}
	var res wire.InstanceResponse
	err = s.client.Call(ctx, wire.MethodCreateResource, &wire.CreateResourceRequest{
		Class:     class,
		Name:      name,
		Params:    enc,
		Signature: signature,
		Delegate:  delegate,
	}, &res)
	return res.Instance, err
}

func (s *sessionStub) UnregisterResource(ctx context.Context, name mgmt.Name, delegate *auth.Subject) error {
	return s.client.Call(ctx, wire.MethodUnregisterResource, &wire.NameRequest{Name: name, Delegate: delegate}, nil)
}

func (s *sessionStub) GetResourceInstance(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (mgmt.Instance, error) {
	var res wire.InstanceResponse
	err := s.client.Call(ctx, wire.MethodGetResourceInstance, &wire.NameRequest{Name: name, Delegate: delegate}, &res)
	return res.Instance, err
}

func (s *sessionStub) QueryResources(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) ([]mgmt.Instance, error) {
	q, err := wire.EncodeQuery(s.reg, query)
	if err != nil {
		return nil, err
	}
	var res wire.InstancesResponse
	if err := s.client.Call(ctx, wire.MethodQueryResources, &wire.QueryRequest{Pattern: pattern, Query: q, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return res.Instances, nil
}

func (s *sessionStub) QueryNames(ctx context.Context, pattern mgmt.Name, query *mgmt.Query, delegate *auth.Subject) ([]mgmt.Name, error) {
	q, err := wire.EncodeQuery(s.reg, query)
	if err != nil {
		return nil, err
	}
	var res wire.NamesResponse
	if err := s.client.Call(ctx, wire.MethodQueryNames, &wire.QueryRequest{Pattern: pattern, Query: q, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return res.Names, nil
}

func (s *sessionStub) IsRegistered(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (bool, error) {
	var res wire.BoolResponse
	err := s.client.Call(ctx, wire.MethodIsRegistered, &wire.NameRequest{Name: name, Delegate: delegate}, &res)
	return res.Value, err
}

func (s *sessionStub) GetResourceCount(ctx context.Context, delegate *auth.Subject) (int, error) {
	var res wire.IntResponse
	err := s.client.Call(ctx, wire.MethodGetResourceCount, &wire.DelegateRequest{Delegate: delegate}, &res)
	return res.Value, err
}

func (s *sessionStub) GetAttribute(ctx context.Context, name mgmt.Name, attribute string, delegate *auth.Subject) (interface{}, error) {
	var res wire.ValueResponse
	if err := s.client.Call(ctx, wire.MethodGetAttribute, &wire.GetAttributeRequest{Name: name, Attribute: attribute, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return s.reg.Decode(res.Value)
}

func (s *sessionStub) GetAttributes(ctx context.Context, name mgmt.Name, attributes []string, delegate *auth.Subject) (mgmt.AttributeList, error) {
	var res wire.AttributesResponse
	if err := s.client.Call(ctx, wire.MethodGetAttributes, &wire.GetAttributesRequest{Name: name, Attributes: attributes, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return wire.DecodeAttributes(s.reg, res.Attributes)
}

func (s *sessionStub) SetAttribute(ctx context.Context, name mgmt.Name, attribute mgmt.Attribute, delegate *auth.Subject) error {
	attr, err := wire.EncodeAttribute(s.reg, attribute)
	if err != nil {
		return err
	}
	return s.client.Call(ctx, wire.MethodSetAttribute, &wire.SetAttributeRequest{Name: name, Attribute: attr, Delegate: delegate}, nil)
}

func (s *sessionStub) SetAttributes(ctx context.Context, name mgmt.Name, attributes mgmt.AttributeList, delegate *auth.Subject) (mgmt.AttributeList, error) {
	attrs, err := wire.EncodeAttributes(s.reg, attributes)
	if err != nil {
		return nil, err
	}
	var res wire.AttributesResponse
	if err := s.client.Call(ctx, wire.MethodSetAttributes, &wire.SetAttributesRequest{Name: name, Attributes: attrs, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return wire.DecodeAttributes(s.reg, res.Attributes)
}

func (s *sessionStub) Invoke(ctx context.Context, name mgmt.Name, operation string, params []interface{}, signature []string, delegate *auth.Subject) (interface{}, error) {
	enc, err := wire.EncodeValues(s.reg, params)
	if err != nil {
		return nil, err
	}
	var res wire.ValueResponse
	if err := s.client.Call(ctx, wire.MethodInvoke, &wire.InvokeRequest{
		Name:      name,
		Operation: operation,
		Params:    enc,
		Signature: signature,
		Delegate:  delegate,
	}, &res); err != nil {
		return nil, err
	}
	return s.reg.Decode(res.Value)
}

func (s *sessionStub) GetDefaultDomain(ctx context.Context, delegate *auth.Subject) (string, error) {
	var res wire.StringResponse
	err := s.client.Call(ctx, wire.MethodGetDefaultDomain, &wire.DelegateRequest{Delegate: delegate}, &res)
	return res.Value, err
}

func (s *sessionStub) GetDomains(ctx context.Context, delegate *auth.Subject) ([]string, error) {
	var res wire.StringsResponse
	if err := s.client.Call(ctx, wire.MethodGetDomains, &wire.DelegateRequest{Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return res.Values, nil
}

func (s *sessionStub) GetResourceInfo(ctx context.Context, name mgmt.Name, delegate *auth.Subject) (*mgmt.ResourceInfo, error) {
	var res wire.InfoResponse
	if err := s.client.Call(ctx, wire.MethodGetResourceInfo, &wire.NameRequest{Name: name, Delegate: delegate}, &res); err != nil {
		return nil, err
	}
	return res.Info, nil
}

func (s *sessionStub) IsInstanceOf(ctx context.Context, name mgmt.Name, class string, delegate *auth.Subject) (bool, error) {
	var res wire.BoolResponse
	err := s.client.Call(ctx, wire.MethodIsInstanceOf, &wire.InstanceOfRequest{Name: name, Class: class, Delegate: delegate}, &res)
	return res.Value, err
}

func (s *sessionStub) AddNotificationListeners(ctx context.Context, names []mgmt.Name, filters []*mgmt.Filter, delegates []*auth.Subject) ([]int64, error) {
	var res wire.IDsResponse
	if err := s.client.Call(ctx, wire.MethodAddNotificationListeners, &wire.AddListenersRequest{
		Names:     names,
		Filters:   filters,
		Delegates: delegates,
	}, &res); err != nil {
		return nil, err
	}
	return res.IDs, nil
}

func (s *sessionStub) RemoveNotificationListeners(ctx context.Context, name mgmt.Name, ids []int64, delegate *auth.Subject) error {
	return s.client.Call(ctx, wire.MethodRemoveNotificationListeners, &wire.RemoveListenersRequest{Name: name, IDs: ids, Delegate: delegate}, nil)
}

func (s *sessionStub) resourceListener(ctx context.Context, method string, name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error {
	hb, err := wire.EncodeOptional(s.reg, handback)
	if err != nil {
		return err
	}
	return s.client.Call(ctx, method, &wire.ResourceListenerRequest{
		Name:         name,
		ListenerName: listenerName,
		Filter:       filter,
		Handback:     hb,
		Delegate:     delegate,
	}, nil)
}

func (s *sessionStub) AddResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error {
	return s.resourceListener(ctx, wire.MethodAddResourceListener, name, listenerName, filter, handback, delegate)
}

func (s *sessionStub) RemoveResourceListener(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, delegate *auth.Subject) error {
	return s.resourceListener(ctx, wire.MethodRemoveResourceListener, name, listenerName, nil, nil, delegate)
}

func (s *sessionStub) RemoveResourceListenerMatching(ctx context.Context, name mgmt.Name, listenerName mgmt.Name, filter *mgmt.Filter, handback interface{}, delegate *auth.Subject) error {
	return s.resourceListener(ctx, wire.MethodRemoveResourceListenerMatching, name, listenerName, filter, handback, delegate)
}

func (s *sessionStub) FetchNotifications(ctx context.Context, fromSeq int64, maxCount int, timeout time.Duration) (*connector.NotificationResult, error) {
	var res wire.FetchResponse
	if err := s.client.Call(ctx, wire.MethodFetchNotifications, &wire.FetchRequest{
		FromSeq:       fromSeq,
		MaxCount:      maxCount,
		TimeoutMillis: wire.TimeoutToMillis(timeout),
	}, &res); err != nil {
		return nil, err
	}
	return wire.DecodeResult(s.reg, res.Result)
}

func (s *sessionStub) Close(ctx context.Context) error {
	return s.client.Call(ctx, wire.MethodClose, &wire.Empty{}, nil)
}
