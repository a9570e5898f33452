package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"

	"functools/args"
	"functools/cache"
)

// Reflector answers DNS queries from an LRU of upstream answers and
// forwards misses to the upstream server.
type Reflector struct {
	args   *args.ReflectorArgs
	server *dns.Server
	client *dns.Client

	// the cache does no locking of its own
	mu    sync.Mutex
	cache cache.LRUCache[key, []dns.RR]
}

type key struct {
	host     string
	respType uint16
}

func NewReflector(a *args.ReflectorArgs) (*Reflector, error) {
	lru, err := cache.NewLRU[key, []dns.RR](a.CacheSize, nil)
	if err != nil {
		return nil, fmt.Errorf("create answer cache: %w", err)
	}

	c := new(dns.Client)
	c.Net = a.Network
	c.Dialer = &net.Dialer{
		Timeout: 300 * time.Millisecond,
	}
	r := &Reflector{
		args:   a,
		client: c,
		cache:  lru,
	}
	r.server = &dns.Server{
		Addr:      a.Addr,
		Net:       a.Network,
		ReusePort: true,
		Handler:   dns.HandlerFunc(r.handleReflect),
	}
	return r, nil
}

func (r *Reflector) cached(q dns.Question) ([]dns.RR, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Get(key{respType: q.Qtype, host: q.Name})
}

func (r *Reflector) remember(q dns.Question, answer []dns.RR) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Add(key{respType: q.Qtype, host: q.Name}, answer)
}

func (r *Reflector) handleReflect(w dns.ResponseWriter, req *dns.Msg) {
	if len(req.Question) == 0 {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeFormatError)
		if err := w.WriteMsg(m); err != nil {
			log.Println(err)
		}
		return
	}

	q := req.Question[0]
	if ans, ok := r.cached(q); ok {
		m := new(dns.Msg)
		m.SetReply(req)
		// only answers of a recursive upstream are cached
		m.RecursionAvailable = true
		m.Answer = ans
		if err := w.WriteMsg(m); err != nil {
			log.Println(err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*200)
	defer cancel()
	res, _, err := r.client.ExchangeContext(ctx, req, r.args.DNSAddr)
	if err != nil {
		log.Println(err)
		return
	}
	if res.Rcode == dns.RcodeSuccess && len(res.Question) > 0 {
		r.remember(res.Question[0], res.Answer)
	}

	if err := w.WriteMsg(res); err != nil {
		log.Println(err)
	}
}

func (r *Reflector) Serve() error {
	log.Printf("reflecting %s on %s/%s\n", r.args.DNSAddr, r.args.Addr, r.args.Network)
	return r.server.ListenAndServe()
}

func (r *Reflector) Shutdown() error {
	return r.server.Shutdown()
}
