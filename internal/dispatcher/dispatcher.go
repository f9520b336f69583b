// Package dispatcher implements the per-connection request loop from
// spec.md §4.3: read one envelope at a time, route requests to registered
// handlers by method name, and write responses, processing requests
// sequentially so response order matches request arrival.
package dispatcher

// file: internal/dispatcher/dispatcher.go

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dkoosis/zedrahost/internal/logging"
	"github.com/dkoosis/zedrahost/internal/paramschema"
	"github.com/dkoosis/zedrahost/internal/protocol"
	"github.com/dkoosis/zedrahost/internal/rpcerr"
	"github.com/dkoosis/zedrahost/internal/transport"
)

// Handler is a registered, asynchronous method implementation: a JSON params
// value in, a JSON result value or error out.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Registry is a name-to-handler mapping. Names are unique; registering the
// same name twice replaces the prior handler.
type Registry struct {
	handlers map[string]Handler
	schemas  *paramschema.Registry
}

// NewRegistry returns an empty Registry. schemas may be nil, in which case
// params are dispatched to handlers unvalidated.
func NewRegistry(schemas *paramschema.Registry) *Registry {
	return &Registry{handlers: make(map[string]Handler), schemas: schemas}
}

// Register installs handler under method, replacing any prior registration.
func (r *Registry) Register(method string, handler Handler) {
	r.handlers[method] = handler
}

func (r *Registry) lookup(method string) (Handler, bool) {
	h, ok := r.handlers[method]
	return h, ok
}

// Dispatcher drives one connection: read, route, respond, until the stream
// closes or errors.
type Dispatcher struct {
	framer   *transport.Framer
	registry *Registry
	logger   logging.Logger
}

// New returns a Dispatcher reading and writing frames over framer, routing
// through registry.
func New(framer *transport.Framer, registry *Registry, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Dispatcher{framer: framer, registry: registry, logger: logger}
}

// Run processes envelopes sequentially until ctx is cancelled or the stream
// ends. It returns nil on a graceful EOF, and the underlying error otherwise.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		payload, err := d.framer.ReadFrame()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		msg, err := protocol.Decode(payload)
		if err != nil {
			// A malformed frame's identifier is unrecoverable; per spec.md
			// §4.1 this terminates the connection rather than replying.
			return rpcerr.Wrap(err, "decode frame")
		}

		if err := d.handle(ctx, msg); err != nil {
			return err
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg *protocol.Message) error {
	switch {
	case msg.IsRequest():
		return d.handleRequest(ctx, msg)
	case msg.IsNotification():
		d.handleNotification(ctx, msg)
		return nil
	default:
		// Responses from a peer are not expected by a server; ignore.
		return nil
	}
}

func (d *Dispatcher) handleRequest(ctx context.Context, msg *protocol.Message) error {
	id := *msg.ID
	handler, ok := d.registry.lookup(msg.Method)
	if !ok {
		resp := protocol.NewErrorResponse(id, protocol.CodeMethodNotFound,
			fmt.Sprintf("unknown method: %s", msg.Method), nil)
		return d.reply(resp)
	}

	if d.registry.schemas != nil {
		if err := d.registry.schemas.Validate(msg.Method, msg.Params); err != nil {
			// Per spec.md §7 the core never distinguishes -32602 from
			// -32603: a schema failure surfaces the same as any other
			// parameter or handler error.
			resp := protocol.NewErrorResponse(id, protocol.CodeInternalError, err.Error(), nil)
			return d.reply(resp)
		}
	}

	result, err := d.invoke(ctx, handler, msg.Params)
	if err != nil {
		wire := rpcerr.ToWireError(err)
		resp := protocol.NewErrorResponse(id, wire.Code, wire.Message, wire.Data)
		return d.reply(resp)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		resp := protocol.NewErrorResponse(id, protocol.CodeInternalError, err.Error(), nil)
		return d.reply(resp)
	}
	return d.reply(protocol.NewResponse(id, resultJSON))
}

func (d *Dispatcher) handleNotification(ctx context.Context, msg *protocol.Message) {
	handler, ok := d.registry.lookup(msg.Method)
	if !ok {
		return
	}
	if _, err := d.invoke(ctx, handler, msg.Params); err != nil {
		d.logger.Warn("notification handler failed", "method", msg.Method, "error", err)
	}
}

// invoke calls handler, recovering a panic into an error so one broken
// handler cannot bring down the dispatcher loop.
func (d *Dispatcher) invoke(ctx context.Context, handler Handler, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = rpcerr.Newf("handler panic: %v", r)
		}
	}()
	return handler(ctx, params)
}

func (d *Dispatcher) reply(msg *protocol.Message) error {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return rpcerr.Wrap(err, "encode response")
	}
	return d.framer.WriteFrame(payload)
}
