package main

import (
	"net"
	"sync/atomic"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"functools/args"
)

// recorder keeps the last message written by a handler.
type recorder struct {
	dns.ResponseWriter
	msg *dns.Msg
}

func (r *recorder) WriteMsg(m *dns.Msg) error {
	r.msg = m
	return nil
}

func startUpstream(t *testing.T, calls *atomic.Int32) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			calls.Add(1)
			m := new(dns.Msg)
			if req.Question[0].Name == "missing.example." {
				m.SetRcode(req, dns.RcodeNameError)
			} else {
				m.SetReply(req)
				m.RecursionAvailable = true
				rr, err := dns.NewRR(req.Question[0].Name + " 3600 IN A 10.0.0.1")
				if err == nil {
					m.Answer = append(m.Answer, rr)
				}
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func newTestReflector(t *testing.T, upstream string, size int) *Reflector {
	t.Helper()
	r, err := NewReflector(&args.ReflectorArgs{
		Addr:      "127.0.0.1:0",
		Network:   "udp",
		DNSAddr:   upstream,
		CacheSize: size,
	})
	require.NoError(t, err)
	return r
}

func query(t *testing.T, r *Reflector, name string) *dns.Msg {
	t.Helper()
	req := new(dns.Msg)
	req.SetQuestion(dns.Fqdn(name), dns.TypeA)
	w := &recorder{}
	r.handleReflect(w, req)
	require.NotNil(t, w.msg, "no reply for %s", name)
	require.Equal(t, req.Id, w.msg.Id)
	return w.msg
}

func TestReflectorCachesAnswers(t *testing.T) {
	require := require.New(t)
	var calls atomic.Int32
	r := newTestReflector(t, startUpstream(t, &calls), 2)

	first := query(t, r, "a.example")
	require.Len(first.Answer, 1)
	require.Equal(int32(1), calls.Load())

	second := query(t, r, "a.example")
	require.Len(second.Answer, 1)
	require.Equal(first.Answer[0].String(), second.Answer[0].String())
	require.Equal(int32(1), calls.Load(), "answered from cache")
}

func TestReflectorCachedReplyHeader(t *testing.T) {
	require := require.New(t)
	var calls atomic.Int32
	r := newTestReflector(t, startUpstream(t, &calls), 2)

	miss := query(t, r, "a.example")
	hit := query(t, r, "a.example")
	require.Equal(int32(1), calls.Load())

	require.True(miss.RecursionAvailable)
	require.Equal(miss.RecursionAvailable, hit.RecursionAvailable)
	require.Equal(miss.Response, hit.Response)
	require.Equal(miss.Rcode, hit.Rcode)
	require.Equal(miss.Question, hit.Question)
}

func TestReflectorEvictsLeastRecentlyUsed(t *testing.T) {
	require := require.New(t)
	var calls atomic.Int32
	r := newTestReflector(t, startUpstream(t, &calls), 2)

	query(t, r, "a.example")
	query(t, r, "b.example")
	query(t, r, "a.example") // hit, b becomes the oldest
	query(t, r, "c.example") // evicts b
	require.Equal(int32(3), calls.Load())

	query(t, r, "a.example")
	require.Equal(int32(3), calls.Load())
	query(t, r, "b.example")
	require.Equal(int32(4), calls.Load())
}

func TestReflectorSkipsFailures(t *testing.T) {
	require := require.New(t)
	var calls atomic.Int32
	r := newTestReflector(t, startUpstream(t, &calls), 2)

	m := query(t, r, "missing.example")
	require.Equal(dns.RcodeNameError, m.Rcode)
	query(t, r, "missing.example")
	require.Equal(int32(2), calls.Load())
}

func TestReflectorZeroCacheSize(t *testing.T) {
	var calls atomic.Int32
	r := newTestReflector(t, startUpstream(t, &calls), 0)

	query(t, r, "a.example")
	query(t, r, "a.example")
	require.Equal(t, int32(2), calls.Load())
}

func TestReflectorEmptyQuestion(t *testing.T) {
	r := newTestReflector(t, "127.0.0.1:1", 1)
	w := &recorder{}
	r.handleReflect(w, new(dns.Msg))
	require.NotNil(t, w.msg)
	require.Equal(t, dns.RcodeFormatError, w.msg.Rcode)
}
