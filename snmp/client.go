// Package snmp implements the wire model and client used by discovery and
// polling. The client speaks SNMP v2c over UDP through gosnmp, batches GET
// requests, and classifies failures into the engine's fault kinds.
package snmp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/gosnmp/gosnmp"

	"pagemeter/fault"
	"pagemeter/logger"
)

// maxGetBatch is the most OIDs sent in a single GET PDU. Larger requests
// are split into ordered batches.
const maxGetBatch = 24

// Client is the protocol surface the engine depends on. Production code
// uses NetClient; tests substitute MockClient.
type Client interface {
	Get(ctx context.Context, req Request) (*Response, error)
	Walk(ctx context.Context, req WalkRequest) (*Response, error)
}

// conn is one transport session. The gosnmp handle satisfies it; tests
// swap dialConn to inject fakes.
type conn interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	GetNext(oids []string) (*gosnmp.SnmpPacket, error)
	Close() error
}

// dialConn opens a session for a single request. Retries stay at zero in
// gosnmp because the client runs its own retry loop.
var dialConn = func(addr Address, community string, cfg ClientConfig) (conn, error) {
	g := &gosnmp.GoSNMP{
		Target:    addr.Host,
		Port:      addr.Port,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   cfg.Timeout,
		Retries:   0,
		MaxOids:   maxGetBatch,
	}
	if err := g.Connect(); err != nil {
		return nil, err
	}
	return &gosnmpConn{g}, nil
}

type gosnmpConn struct {
	g *gosnmp.GoSNMP
}

func (c *gosnmpConn) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	return c.g.Get(oids)
}

func (c *gosnmpConn) GetNext(oids []string) (*gosnmp.SnmpPacket, error) {
	return c.g.GetNext(oids)
}

func (c *gosnmpConn) Close() error {
	if c.g.Conn != nil {
		return c.g.Conn.Close()
	}
	return nil
}

// NetClient is the UDP-backed client. Each request opens its own session
// and closes it before returning, so instances are safe for concurrent use.
type NetClient struct {
	cfg ClientConfig
	log *logger.Logger
}

func NewNetClient(cfg ClientConfig, log *logger.Logger) *NetClient {
	if cfg.Community == "" {
		cfg.Community = DefaultClientConfig().Community
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultClientConfig().Timeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	return &NetClient{cfg: cfg, log: log}
}

// Get fetches req.OIDs, splitting into batches of at most maxGetBatch and
// preserving request order in the response.
func (c *NetClient) Get(ctx context.Context, req Request) (*Response, error) {
	community := c.community(req.Community)
	resp := &Response{Address: req.Address}
	for start := 0; start < len(req.OIDs); start += maxGetBatch {
		end := start + maxGetBatch
		if end > len(req.OIDs) {
			end = len(req.OIDs)
		}
		vbs, err := c.getBatch(ctx, req.Address, community, req.OIDs[start:end])
		if err != nil {
			return nil, err
		}
		resp.VarBinds = append(resp.VarBinds, vbs...)
	}
	return resp, nil
}

func (c *NetClient) getBatch(ctx context.Context, addr Address, community string, oids []OID) ([]VarBind, error) {
	names := make([]string, len(oids))
	for i, oid := range oids {
		names[i] = oid.String()
	}
	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vbs, err := c.attemptGet(addr, community, names)
		if err == nil {
			return vbs, nil
		}
		lastErr = err
		// Auth rejections are deterministic; retrying only adds noise.
		if fault.KindOf(err) == fault.KindAuth {
			return nil, err
		}
		c.log.Debug("snmp get attempt failed", "address", addr.String(), "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

func (c *NetClient) attemptGet(addr Address, community string, names []string) ([]VarBind, error) {
	sess, err := dialConn(addr, community, c.cfg)
	if err != nil {
		return nil, c.classify(addr, err)
	}
	defer sess.Close()

	packet, err := sess.Get(names)
	if err != nil {
		return nil, c.classify(addr, err)
	}
	if err := packetError(addr, packet); err != nil {
		return nil, err
	}
	vbs := make([]VarBind, 0, len(packet.Variables))
	for _, pdu := range packet.Variables {
		vbs = append(vbs, varbindFromPDU(pdu))
	}
	return vbs, nil
}

// Walk enumerates the subtree under req.Root with GetNext, one session for
// the whole traversal. It stops on an unparsable cursor, on leaving the
// subtree, on a repeated OID, on end-of-mib, or at MaxResults.
func (c *NetClient) Walk(ctx context.Context, req WalkRequest) (*Response, error) {
	if len(req.Root) == 0 {
		return nil, fault.NewTransport(req.Address.String(), "walk root is empty", nil)
	}
	community := c.community(req.Community)
	sess, err := dialConn(req.Address, community, c.cfg)
	if err != nil {
		return nil, c.classify(req.Address, err)
	}
	defer sess.Close()

	resp := &Response{Address: req.Address}
	cursor := req.Root.Clone()
	// MaxResults bounds GetNext steps; a step that returns several
	// varbinds keeps them all.
	for steps := 0; req.MaxResults == 0 || steps < req.MaxResults; steps++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		packet, err := sess.GetNext([]string{cursor.String()})
		if err != nil {
			return nil, c.classify(req.Address, err)
		}
		if err := packetError(req.Address, packet); err != nil {
			return nil, err
		}
		progressed := false
		for _, pdu := range packet.Variables {
			vb := varbindFromPDU(pdu)
			if len(vb.OID) == 0 || vb.Value.Kind == KindEndOfMibView {
				return resp, nil
			}
			if !vb.OID.HasPrefix(req.Root) {
				return resp, nil
			}
			// A cursor that fails to advance would loop forever.
			if vb.OID.Equal(cursor) {
				return resp, nil
			}
			resp.VarBinds = append(resp.VarBinds, vb)
			cursor = vb.OID
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return resp, nil
}

func (c *NetClient) community(override string) string {
	if override != "" {
		return override
	}
	return c.cfg.Community
}

// classify maps transport errors to fault kinds. UDP gives no explicit
// auth signal at the socket level, so community rejections usually surface
// as timeouts; message text is checked for the cases where the library
// does report them.
func (c *NetClient) classify(addr Address, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authoriz") || strings.Contains(msg, "authentication") || strings.Contains(msg, "incorrect community") {
		return fault.NewAuth(addr.String(), err.Error())
	}
	var nerr net.Error
	if (errors.As(err, &nerr) && nerr.Timeout()) || strings.Contains(msg, "timeout") {
		return fault.NewTimeout(addr.String(), c.cfg.Timeout)
	}
	return fault.NewTransport(addr.String(), "request failed", err)
}

func packetError(addr Address, packet *gosnmp.SnmpPacket) error {
	if packet == nil {
		return fault.NewTransport(addr.String(), "empty response packet", nil)
	}
	switch packet.Error {
	case gosnmp.NoError, gosnmp.NoSuchName:
		return nil
	case gosnmp.AuthorizationError:
		return fault.NewAuth(addr.String(), "agent reported authorization error")
	default:
		return fault.NewTransport(addr.String(), fmt.Sprintf("agent error code %d", packet.Error), nil)
	}
}
