// Package httpbridge implements an HTTP long-poll Transport binding,
// demonstrating a non-byte-stream transport analogous to walletserver's
// mux-routed HTTP API: a Bridge exposes POST /send and GET /receive
// endpoints, and Client is a Transport that talks to them with an
// ordinary http.Client. It is an optional transport (spec.md lists TCP
// and UART as the two required byte-stream bindings); this one exists to
// exercise gorilla/mux the way the rest of the domain stack wires its
// bindings.
package httpbridge

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"erpc/runtime/buffer"
	"erpc/runtime/status"
)

// Bridge is the server side: an inbox of messages received via POST
// /send, and an outbox of messages waiting to be delivered to the next
// GET /receive poll. One Bridge serves one logical connection.
type Bridge struct {
	inbox  chan []byte
	outbox chan []byte
}

// NewBridge creates a Bridge with a bounded in-flight message queue.
func NewBridge(queueDepth int) *Bridge {
	return &Bridge{
		inbox:  make(chan []byte, queueDepth),
		outbox: make(chan []byte, queueDepth),
	}
}

// Router builds the mux.Router exposing this Bridge's endpoints, ready to
// be mounted under http.ListenAndServe or a larger router (matching how
// walletserver/routes.Register mounts its controller's routes).
func (b *Bridge) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/send", b.handleSend).Methods("POST")
	r.HandleFunc("/receive", b.handleReceive).Methods("GET")
	return r
}

func (b *Bridge) handleSend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	select {
	case b.inbox <- body:
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "bridge inbox full", http.StatusServiceUnavailable)
	}
}

// handleReceive long-polls up to 30s for a message queued via Send (the
// server Transport's Send, below), returning 204 on timeout so the
// client can retry.
func (b *Bridge) handleReceive(w http.ResponseWriter, r *http.Request) {
	select {
	case msg := <-b.outbox:
		w.Write(msg)
	case <-time.After(30 * time.Second):
		w.WriteHeader(http.StatusNoContent)
	case <-r.Context().Done():
	}
}

// Transport is the server-side Transport backed by a Bridge: Send queues
// a message for the next /receive poll, Receive waits for one queued via
// POST /send.
type Transport struct {
	bridge *Bridge
}

// NewServerTransport wraps bridge as the server-side Transport.
func NewServerTransport(bridge *Bridge) *Transport {
	return &Transport{bridge: bridge}
}

func (t *Transport) Send(buf *buffer.MessageBuffer) status.Status {
	msg := append([]byte(nil), buf.Bytes()...)
	select {
	case t.bridge.outbox <- msg:
		return status.Ok
	default:
		return status.New(status.SendFailed, "bridge outbox full")
	}
}

func (t *Transport) Receive(buf *buffer.MessageBuffer) status.Status {
	msg := <-t.bridge.inbox
	if len(msg) > buf.Cap() {
		return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", len(msg), buf.Cap())
	}
	buf.Reset()
	return buf.WriteBytes(msg)
}

func (t *Transport) HasMessage() bool {
	return len(t.bridge.inbox) > 0
}

func (t *Transport) Close() status.Status {
	return status.Ok
}

// Client is the client-side Transport: it POSTs to /send and long-polls
// /receive against a Bridge mounted at baseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client Transport talking to the Bridge mounted at
// baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 35 * time.Second}}
}

func (c *Client) Send(buf *buffer.MessageBuffer) status.Status {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/send", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return status.New(status.SendFailed, "build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return status.New(status.SendFailed, "http post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return status.New(status.SendFailed, "bridge rejected send: %s", resp.Status)
	}
	return status.Ok
}

// Receive polls GET /receive, retrying on a 204 (long-poll timeout) until
// ctx-less default timeout or a message arrives.
func (c *Client) Receive(buf *buffer.MessageBuffer) status.Status {
	return c.ReceiveContext(context.Background(), buf)
}

// ReceiveContext is Receive with caller-controlled cancellation.
func (c *Client) ReceiveContext(ctx context.Context, buf *buffer.MessageBuffer) status.Status {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/receive", nil)
		if err != nil {
			return status.New(status.ReceiveFailed, "build request: %v", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return status.New(status.Cancelled, "receive cancelled")
			}
			return status.New(status.ReceiveFailed, "http get: %v", err)
		}
		if resp.StatusCode == http.StatusNoContent {
			resp.Body.Close()
			select {
			case <-ctx.Done():
				return status.New(status.Cancelled, "receive cancelled")
			default:
				continue
			}
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return status.New(status.ReceiveFailed, "read body: %v", err)
		}
		if len(body) > buf.Cap() {
			return status.New(status.ReceiveFailed, "message of %d bytes exceeds buffer capacity %d", len(body), buf.Cap())
		}
		buf.Reset()
		return buf.WriteBytes(body)
	}
}

func (c *Client) HasMessage() bool {
	return false
}

func (c *Client) Close() status.Status {
	return status.Ok
}
