package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	brot "github.com/marben/dist_brot"
)

const helloTimeout = 10 * time.Second

// websocketHandler upgrades worker connections on /ws. A worker must
// introduce itself with a brot.Hello before it is queued for Accept.
func websocketHandler(l *workerListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: l.originPatterns,
		})
		if err != nil {
			log.Println(err)
			return
		}

		ctx, cancel := context.WithTimeout(l.ctx, helloTimeout)
		defer cancel()
		var hello brot.Hello
		if err := wsjson.Read(ctx, c, &hello); err != nil {
			log.Printf("worker %s: reading hello: %v", r.RemoteAddr, err)
			_ = c.Close(websocket.StatusProtocolError, "expected hello")
			return
		}
		if hello.Version != brot.ProtocolVersion {
			log.Printf("worker %s: protocol version %d, want %d", r.RemoteAddr, hello.Version, brot.ProtocolVersion)
			_ = c.Close(websocket.StatusPolicyViolation, "protocol version mismatch")
			return
		}
		if hello.Name == "" {
			hello.Name = r.RemoteAddr
		}

		select {
		case l.ch <- acceptedWorker{c: c, hello: hello}:
		case <-l.ctx.Done():
			_ = c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

type acceptedWorker struct {
	c     *websocket.Conn
	hello brot.Hello
}

// workerConn is a worker's websocket as a byte stream, along with how it
// introduced itself. RemoteAddr carries the Hello on to the irpc
// endpoint built over the conn.
type workerConn struct {
	net.Conn
	Hello brot.Hello
}

func (c *workerConn) RemoteAddr() net.Addr {
	return workerAddr{Hello: c.Hello, remote: c.Conn.RemoteAddr()}
}

// workerAddr names a connected worker.
type workerAddr struct {
	brot.Hello
	remote net.Addr
}

func (a workerAddr) Network() string {
	return "ws"
}

// String is the worker's name.
func (a workerAddr) String() string {
	return a.Name
}

// helloOf recovers the Hello of the worker at addr. Anything that did not
// come through workerListener is known by its address only.
func helloOf(addr net.Addr) brot.Hello {
	if wa, ok := addr.(workerAddr); ok {
		return wa.Hello
	}
	if addr == nil {
		return brot.Hello{Name: "unknown"}
	}
	return brot.Hello{Name: addr.String()}
}

// workerListener is a net.Listener over the websocket endpoint. Accept
// yields *workerConn values.
type workerListener struct {
	ch             chan acceptedWorker
	ctx            context.Context
	cancel         context.CancelFunc
	addr           wsAddr
	originPatterns []string
}

func newWorkerListener(ctx context.Context, addr string, originPatterns []string) *workerListener {
	ctx, cancel := context.WithCancel(ctx)
	return &workerListener{
		ch:             make(chan acceptedWorker),
		ctx:            ctx,
		cancel:         cancel,
		addr:           wsAddr{addr: addr},
		originPatterns: originPatterns,
	}
}

// Accept returns the next worker as a *workerConn.
func (l *workerListener) Accept() (net.Conn, error) {
	select {
	case w := <-l.ch:
		return &workerConn{
			Conn:  websocket.NetConn(l.ctx, w.c, websocket.MessageBinary),
			Hello: w.hello,
		}, nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *workerListener) Addr() net.Addr {
	return l.addr
}

func (l *workerListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr is the endpoint address reported by workerListener.Addr.
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
