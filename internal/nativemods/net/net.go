// Package net is the native module wiring WebSocket transport into ox
// scripts (§4.1 Domain stack: gorilla/websocket), grounded on the teacher's
// internal/network/websocket.go (WebSocketConn's dial/send/receive/close
// shape) but rebuilt around internal/ox's blocking-call convention:
// ReadMessage runs directly under Context.Suspend rather than the
// teacher's background-goroutine-plus-channel reader, since a script
// thread has nothing else to do while waiting on the socket anyway and
// Suspend already frees the VM lock for every other Context during that
// wait (§5).
package net

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gongke-cn/ox/internal/errtypes"
	"github.com/gongke-cn/ox/internal/function"
	"github.com/gongke-cn/ox/internal/loader"
	"github.com/gongke-cn/ox/internal/object"
	"github.com/gongke-cn/ox/internal/ox"
	"github.com/gongke-cn/ox/internal/value"
)

// socket is a Socket proxy's private payload.
type socket struct {
	conn   *websocket.Conn
	closed bool
}

// Register installs the "net" module under vm.
func Register(vm *ox.VM) {
	vm.RegisterNativeModule("net", load, exec)
}

func load(c *ox.Context, sc *loader.Script) error {
	tmpl := c.NewObject()
	c.DefineConst(tmpl, "send", c.NativeMethod("send", 1, sendMethod))
	c.DefineConst(tmpl, "sendBinary", c.NativeMethod("sendBinary", 1, sendBinaryMethod))
	c.DefineConst(tmpl, "receive", c.NativeMethod("receive", 0, receiveMethod))
	c.DefineConst(tmpl, "messages", c.NativeMethod("messages", 0, messagesMethod))
	c.DefineConst(tmpl, "ping", c.NativeMethod("ping", 0, pingMethod))
	c.DefineConst(tmpl, "close", c.NativeMethod("close", 0, closeMethod))
	sc.DefineConst("$socketTemplate", tmpl)
	return nil
}

func exec(c *ox.Context, sc *loader.Script) error {
	tmplKey := c.Key("$socketTemplate")
	tmpl, _ := c.Lookup(value.FromObject(sc), tmplKey)
	sc.Export("connect", c.NativeMethod("connect", 1, connectFunc(tmpl)))
	return nil
}

// connectFunc returns the native `connect(url)` function bound to tmpl.
func connectFunc(tmpl value.Value) function.NativeFunc {
	return func(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
		c, ok := fnCtx.(*ox.Context)
		if !ok {
			return value.Nil, fnCtx.Throw(errtypes.NewSystemError("net: connect called outside an ox.Context", nil))
		}
		if len(args) == 0 {
			return value.Nil, c.Throw(errtypes.NewTypeError("connect(url) requires one argument", nil))
		}
		url, ok := ox.AsString(args[0])
		if !ok {
			return value.Nil, c.Throw(errtypes.NewTypeError("connect: url must be a string", nil))
		}

		dialer := websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second

		var conn *websocket.Conn
		err := c.Suspend(func() error {
			var dialErr error
			conn, _, dialErr = dialer.Dial(url, nil)
			return dialErr
		})
		if err != nil {
			return value.Nil, c.Throw(errtypes.NewSystemError(fmt.Sprintf("net: dial %s: %v", url, err), nil))
		}

		p := object.NewProxy(tmpl, &socket{conn: conn})
		c.VM().GC.Track(p)
		return value.FromObject(p), nil
	}
}

func sendMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if len(args) == 0 {
		return value.Nil, c.Throw(errtypes.NewTypeError("send requires a string argument", nil))
	}
	text, ok := ox.AsString(args[0])
	if !ok {
		return value.Nil, c.Throw(errtypes.NewTypeError("send: argument must be a string", nil))
	}
	if writeErr := writeFrame(c, sock, websocket.TextMessage, []byte(text)); writeErr != nil {
		return value.Nil, writeErr
	}
	return value.Nil, nil
}

func sendBinaryMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if len(args) == 0 {
		return value.Nil, c.Throw(errtypes.NewTypeError("sendBinary requires a string argument", nil))
	}
	text, ok := ox.AsString(args[0])
	if !ok {
		return value.Nil, c.Throw(errtypes.NewTypeError("sendBinary: argument must be a string", nil))
	}
	if writeErr := writeFrame(c, sock, websocket.BinaryMessage, []byte(text)); writeErr != nil {
		return value.Nil, writeErr
	}
	return value.Nil, nil
}

func pingMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if writeErr := writeFrame(c, sock, websocket.PingMessage, []byte{}); writeErr != nil {
		return value.Nil, writeErr
	}
	return value.Nil, nil
}

func writeFrame(c *ox.Context, sock *socket, msgType int, data []byte) error {
	if sock.closed {
		return c.Throw(errtypes.NewAccessError("net: connection is closed", nil))
	}
	if err := c.Suspend(func() error { return sock.conn.WriteMessage(msgType, data) }); err != nil {
		return c.Throw(errtypes.NewSystemError(fmt.Sprintf("net: write: %v", err), nil))
	}
	return nil
}

// receiveMethod blocks for exactly one frame and returns it as a string
// (text and binary frames both decode as UTF-8-ish text, matching the
// teacher's WebSocketReceive).
func receiveMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if sock.closed {
		return value.Nil, c.Throw(errtypes.NewAccessError("net: connection is closed", nil))
	}
	var data []byte
	readErr := c.Suspend(func() error {
		_, msg, rerr := sock.conn.ReadMessage()
		data = msg
		return rerr
	})
	if readErr != nil {
		sock.closed = true
		return value.Nil, c.Throw(errtypes.NewSystemError(fmt.Sprintf("net: read: %v", readErr), nil))
	}
	return c.NewString(string(data)), nil
}

// messagesMethod returns an ox.Input yielding one frame per Next call until
// the connection closes or errors — the stream counterpart of receive for
// scripts that want a `for` loop instead of manual polling.
func messagesMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	in := c.NewInput(
		func() (value.Value, bool, error) {
			if sock.closed {
				return value.Nil, false, nil
			}
			var data []byte
			readErr := c.Suspend(func() error {
				_, msg, rerr := sock.conn.ReadMessage()
				data = msg
				return rerr
			})
			if readErr != nil {
				sock.closed = true
				return value.Nil, false, nil
			}
			return c.NewString(string(data)), true, nil
		},
		func() error {
			sock.closed = true
			return sock.conn.Close()
		},
	)
	return in, nil
}

func closeMethod(fnCtx function.Context, this value.Value, args []value.Value) (value.Value, error) {
	c, sock, err := socketFromThis(fnCtx, this)
	if err != nil {
		return value.Nil, err
	}
	if sock.closed {
		return value.Nil, nil
	}
	sock.closed = true
	_ = c.Suspend(func() error {
		sock.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return sock.conn.Close()
	})
	return value.Nil, nil
}

func socketFromThis(fnCtx function.Context, this value.Value) (*ox.Context, *socket, error) {
	c, ok := fnCtx.(*ox.Context)
	if !ok {
		return nil, nil, fnCtx.Throw(errtypes.NewSystemError("net: method called outside an ox.Context", nil))
	}
	p, ok := this.ObjectVal().(*object.Proxy)
	if !ok {
		return c, nil, c.Throw(errtypes.NewTypeError("net: method called on a non-Socket receiver", nil))
	}
	sock, ok := p.Priv().(*socket)
	if !ok {
		return c, nil, c.Throw(errtypes.NewTypeError("net: proxy does not carry a Socket", nil))
	}
	return c, sock, nil
}
