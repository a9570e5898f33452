package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"functools/args"
	"functools/memo"
)

type resolv struct {
	resolver *net.Resolver
	args     *args.CmdArgs
	lookup   *memo.Func[string, Response]
}

func newResolv(a *args.CmdArgs) (*resolv, error) {
	r := &resolv{
		resolver: &net.Resolver{
			PreferGo:     true,
			StrictErrors: false,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				d := net.Dialer{Timeout: time.Millisecond * 1000}
				return d.DialContext(ctx, network, net.JoinHostPort(a.DNSAddr, "53"))
			},
		},
		args: a,
	}

	// hosts are resolved concurrently, so the store has to be goroutine-safe
	store, err := memo.NewSyncLRUStore[string, Response](a.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}
	r.lookup = memo.NewWithStore(r.resolve, store)
	return r, nil
}

// resolveAll looks up every host concurrently. Repeated hosts are
// answered from the lookup cache. Responses come in completion order.
func (r *resolv) resolveAll(hosts []string) []Response {
	ch := make(chan Response, len(hosts))
	for _, host := range hosts {
		go r.cmdResolve(ch, host)
	}

	res := make([]Response, 0, len(hosts))
	for i := 0; i < len(hosts); i++ {
		res = append(res, <-ch)
	}
	return res
}

func (r *resolv) cmdResolve(ch chan Response, host string) {
	ch <- r.lookup.Call(host)
}

func (r *resolv) resolve(host string) Response {
	var (
		IPs    []net.IP
		MXs    []*net.MX
		CNAME  string
		err    error
		errors []error
	)
	if r.args.A {
		addr, err := r.resolver.LookupIP(context.TODO(), "ip4", host)
		if err != nil {
			errors = append(errors, fmt.Errorf("get A record: %w", err))
		}
		IPs = append(IPs, addr...)
	}
	if r.args.AAAA {
		addr, err := r.resolver.LookupIP(context.TODO(), "ip6", host)
		if err != nil {
			errors = append(errors, fmt.Errorf("get AAAA record: %w", err))
		}
		IPs = append(IPs, addr...)
	}
	if r.args.MX {
		MXs, err = r.resolver.LookupMX(context.TODO(), host)
		if err != nil {
			errors = append(errors, fmt.Errorf("get MX record: %w", err))
		}
	}
	if r.args.CNAME {
		CNAME, err = r.resolver.LookupCNAME(context.TODO(), host)
		if err != nil {
			errors = append(errors, fmt.Errorf("get CNAME record: %w", err))
		}
	}

	return Response{
		Host:        host,
		IPs:         IPs,
		MXrecord:    MXs,
		CNAMErecord: CNAME,
		Error:       errors,
	}
}
