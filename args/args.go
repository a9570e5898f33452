package args

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

type (
	CmdArgs struct {
		Hosts              []string
		A, AAAA, MX, CNAME bool
		DNSAddr            string
		CacheSize          int
	}

	ReflectorArgs struct {
		Addr      string
		Network   string
		DNSAddr   string
		CacheSize int
	}

	SocketArgs struct {
		Addr      string
		Network   string
		DNSAddr   string
		CacheSize int
		Workers   int
	}
)

var (
	ErrNoHosts          = errors.New("at least one --host is required")
	ErrNetwork          = errors.New("network not supported")
	ErrNegativeCache    = errors.New("cache size must not be negative")
	ErrCacheSize        = errors.New("cache size must be positive")
	ErrNoWorkers        = errors.New("workers must be positive")
	ErrNoRecordSelected = errors.New("no record type selected")
)

func (a *CmdArgs) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&a.A, "a", "a", true, "search for A record")
	fs.BoolVar(&a.AAAA, "aaaa", false, "search for AAAA record")
	fs.BoolVar(&a.CNAME, "cname", false, "search for CNAME record")
	fs.BoolVar(&a.MX, "mx", false, "search for MX record")
	fs.StringVar(&a.DNSAddr, "dns", "1.1.1.1", "set custom dns for resolver")
	fs.StringArrayVar(&a.Hosts, "host", nil, "hosts to get their ip (can be used mutiple times)")
	fs.IntVar(&a.CacheSize, "cachesize", 128, "number of resolved hosts to remember")
}

func (a *CmdArgs) Validate() error {
	if len(a.Hosts) == 0 {
		return ErrNoHosts
	}
	if !(a.A || a.AAAA || a.MX || a.CNAME) {
		return ErrNoRecordSelected
	}
	if a.CacheSize <= 0 {
		return fmt.Errorf("cachesize %d: %w", a.CacheSize, ErrCacheSize)
	}
	return nil
}

func (a *ReflectorArgs) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&a.Addr, "addr", ":8053", "addr to listen on it")
	fs.StringVar(&a.Network, "net", "udp", "socket type (udp or tcp)")
	fs.StringVar(&a.DNSAddr, "dns", "1.1.1.1:53", "upstream dns server")
	fs.IntVar(&a.CacheSize, "cachesize", 128, "cache size list")
}

func (a *ReflectorArgs) Validate() error {
	if a.Network != "udp" && a.Network != "tcp" {
		return fmt.Errorf("%s: %w", a.Network, ErrNetwork)
	}
	if a.CacheSize < 0 {
		return ErrNegativeCache
	}
	return nil
}

func (a *SocketArgs) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&a.Addr, "addr", ":8000", "addr to listen on it")
	fs.StringVar(&a.Network, "net", "udp", "socket type")
	fs.StringVar(&a.DNSAddr, "dns", "1.1.1.1:53", "upstream dns server")
	fs.IntVar(&a.CacheSize, "cachesize", 128, "cache size list")
	fs.IntVar(&a.Workers, "workers", 4, "number of reader and handler goroutines")
}

func (a *SocketArgs) Validate() error {
	if a.Network != "udp" {
		return fmt.Errorf("%s: %w", a.Network, ErrNetwork)
	}
	if a.CacheSize < 0 {
		return ErrNegativeCache
	}
	if a.Workers <= 0 {
		return ErrNoWorkers
	}
	return nil
}
