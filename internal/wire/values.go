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

package wire

import (
	"time"

	"go.uber.org/mgmtrpc/api/connector"
	"go.uber.org/mgmtrpc/api/mgmt"
	"go.uber.org/mgmtrpc/serialize"
)

// Attribute is the wire form of mgmt.Attribute.
type Attribute struct {
	Name  string          `json:"name"`
	Value serialize.Value `json:"value"`
}

// Query is the wire form of mgmt.Query.
type Query struct {
	InstanceOf string           `json:"instanceOf,omitempty"`
	Attribute  string           `json:"attribute,omitempty"`
	Equals     *serialize.Value `json:"equals,omitempty"`
}

// Notification is the wire form of mgmt.Notification.
type Notification struct {
	Type      string           `json:"type"`
	Source    mgmt.Name        `json:"source"`
	Sequence  int64            `json:"seq"`
	Timestamp time.Time        `json:"ts"`
	Message   string           `json:"msg,omitempty"`
	UserData  *serialize.Value `json:"data,omitempty"`
	Attribute *serialize.Value `json:"attr,omitempty"`
}

// TargetedNotification is the wire form of
// connector.TargetedNotification.
type TargetedNotification struct {
	ListenerID   int64        `json:"id"`
	Notification Notification `json:"n"`
}

// NotificationResult is the wire form of connector.NotificationResult.
type NotificationResult struct {
	EarliestSeq   int64                  `json:"earliest"`
	NextSeq       int64                  `json:"next"`
	Lost          int64                  `json:"lost,omitempty"`
	Notifications []TargetedNotification `json:"notifs,omitempty"`
}

// EncodeValues encodes operation parameters.
func EncodeValues(r *serialize.Registry, vs []interface{}) ([]serialize.Value, error) {
	return r.EncodeAll(vs)
}

// DecodeValues decodes operation parameters.
func DecodeValues(r *serialize.Registry, vs []serialize.Value) ([]interface{}, error) {
	return r.DecodeAll(vs)
}

// EncodeOptional encodes v, returning nil for a nil value.
func EncodeOptional(r *serialize.Registry, v interface{}) (*serialize.Value, error) {
	if v == nil {
		return nil, nil
	}
	enc, err := r.Encode(v)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

// DecodeOptional reverses EncodeOptional.
func DecodeOptional(r *serialize.Registry, v *serialize.Value) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return r.Decode(*v)
}

// EncodeAttribute encodes one attribute.
func EncodeAttribute(r *serialize.Registry, a mgmt.Attribute) (Attribute, error) {
	v, err := r.Encode(a.Value)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Name: a.Name, Value: v}, nil
}

// DecodeAttribute decodes one attribute.
func DecodeAttribute(r *serialize.Registry, a Attribute) (mgmt.Attribute, error) {
	v, err := r.Decode(a.Value)
	if err != nil {
		return mgmt.Attribute{}, err
	}
	return mgmt.Attribute{Name: a.Name, Value: v}, nil
}

// EncodeAttributes encodes an attribute list.
func EncodeAttributes(r *serialize.Registry, l mgmt.AttributeList) ([]Attribute, error) {
	if l == nil {
		return nil, nil
	}
	out := make([]Attribute, len(l))
	for i, a := range l {
		enc, err := EncodeAttribute(r, a)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

// DecodeAttributes decodes an attribute list.
func DecodeAttributes(r *serialize.Registry, l []Attribute) (mgmt.AttributeList, error) {
	if l == nil {
		return nil, nil
	}
	out := make(mgmt.AttributeList, len(l))
	for i, a := range l {
		dec, err := DecodeAttribute(r, a)
		if err != nil {
			return nil, err
		}
		out[i] = dec
	}
	return out, nil
}

// EncodeQuery encodes a query; nil stays nil.
func EncodeQuery(r *serialize.Registry, q *mgmt.Query) (*Query, error) {
	if q == nil {
		return nil, nil
	}
	out := &Query{InstanceOf: q.InstanceOf, Attribute: q.Attribute}
	if q.Attribute != "" {
		v, err := r.Encode(q.Equals)
		if err != nil {
			return nil, err
		}
		out.Equals = &v
	}
	return out, nil
}

// DecodeQuery decodes a query; nil stays nil.
func DecodeQuery(r *serialize.Registry, q *Query) (*mgmt.Query, error) {
	if q == nil {
		return nil, nil
	}
	equals, err := DecodeOptional(r, q.Equals)
	if err != nil {
		return nil, err
	}
	return &mgmt.Query{InstanceOf: q.InstanceOf, Attribute: q.Attribute, Equals: equals}, nil
}

// EncodeNotification encodes a notification.
func EncodeNotification(r *serialize.Registry, n *mgmt.Notification) (Notification, error) {
	out := Notification{
		Type:      n.Type,
		Source:    n.Source,
		Sequence:  n.Sequence,
		Timestamp: n.Timestamp,
		Message:   n.Message,
	}
	var err error
	if out.UserData, err = EncodeOptional(r, n.UserData); err != nil {
		return out, err
	}
	if n.Attribute != nil {
		if out.Attribute, err = EncodeOptional(r, n.Attribute); err != nil {
			return out, err
		}
	}
	return out, nil
}

// DecodeNotification decodes a notification. The attribute change payload
// must decode to a *mgmt.AttributeChange.
func DecodeNotification(r *serialize.Registry, n Notification) (*mgmt.Notification, error) {
	out := &mgmt.Notification{
		Type:      n.Type,
		Source:    n.Source,
		Sequence:  n.Sequence,
		Timestamp: n.Timestamp,
		Message:   n.Message,
	}
	var err error
	if out.UserData, err = DecodeOptional(r, n.UserData); err != nil {
		return nil, err
	}
	change, err := DecodeOptional(r, n.Attribute)
	if err != nil {
		return nil, err
	}
	out.Attribute, _ = change.(*mgmt.AttributeChange)
	return out, nil
}

// EncodeResult encodes a fetch result; nil stays nil. Notifications whose
// payload cannot be encoded fail the whole result.
func EncodeResult(r *serialize.Registry, res *connector.NotificationResult) (*NotificationResult, error) {
	if res == nil {
		return nil, nil
	}
	out := &NotificationResult{
		EarliestSeq: res.EarliestSeq,
		NextSeq:     res.NextSeq,
		Lost:        res.Lost,
	}
	for _, tn := range res.Notifications {
		n, err := EncodeNotification(r, tn.Notification)
		if err != nil {
			return nil, err
		}
		out.Notifications = append(out.Notifications, TargetedNotification{ListenerID: tn.ListenerID, Notification: n})
	}
	return out, nil
}

// DecodeResult decodes a fetch result; nil stays nil.
func DecodeResult(r *serialize.Registry, res *NotificationResult) (*connector.NotificationResult, error) {
	if res == nil {
		return nil, nil
	}
	out := &connector.NotificationResult{
		EarliestSeq: res.EarliestSeq,
		NextSeq:     res.NextSeq,
		Lost:        res.Lost,
	}
	for _, tn := range res.Notifications {
		n, err := DecodeNotification(r, tn.Notification)
		if err != nil {
			return nil, err
		}
		out.Notifications = append(out.Notifications, connector.TargetedNotification{ListenerID: tn.ListenerID, Notification: n})
	}
	return out, nil
}

// TimeoutToMillis converts a fetch timeout to its wire form.
func TimeoutToMillis(d time.Duration) int64 {
	if d < 0 {
		return -1
	}
	return int64(d / time.Millisecond)
}

// MillisToTimeout reverses TimeoutToMillis.
func MillisToTimeout(ms int64) time.Duration {
	if ms < 0 {
		return connector.WaitForever
	}
	return time.Duration(ms) * time.Millisecond
}
