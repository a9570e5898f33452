package socket

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"golang.org/x/net/dns/dnsmessage"

	"functools/args"
	"functools/cache"
)

const packetSize = 512

type (
	// Socket forwards DNS queries received on a UDP socket to an upstream
	// server and answers repeated questions from an LRU cache.
	Socket struct {
		args     args.SocketArgs
		mu       sync.Mutex
		cache    cache.LRUCache[dnsmessage.Question, []dnsmessage.Resource]
		bufPoll  sync.Pool
		listener *net.UDPConn
		queue    Queue

		readers   sync.WaitGroup
		handlers  sync.WaitGroup
		closeOnce sync.Once
	}
	Queue chan QueueRequest

	QueueRequest struct {
		Data   []byte
		Addr   net.Addr
		Length int
	}
)

func NewSocket(args args.SocketArgs) (*Socket, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}

	lru, err := cache.NewLRU[dnsmessage.Question, []dnsmessage.Resource](args.CacheSize, nil)
	if err != nil {
		return nil, err
	}

	localAddr, err := net.ResolveUDPAddr(args.Network, args.Addr)
	if err != nil {
		return nil, err
	}
	listen, err := net.ListenUDP(args.Network, localAddr)
	if err != nil {
		return nil, err
	}
	log.Printf("started listening on: %s\n", listen.LocalAddr())

	return &Socket{
		args:  args,
		cache: lru,
		bufPoll: sync.Pool{
			New: func() any {
				return make([]byte, packetSize)
			},
		},
		listener: listen,
		queue:    make(Queue, args.Workers*4),
	}, nil
}

// ListenAndServe starts the reader and handler goroutines and returns
// without waiting for them. Call it once; Close stops them.
func (s *Socket) ListenAndServe() {
	for i := 0; i < s.args.Workers; i++ {
		s.readers.Add(1)
		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.dequeuer()
		}()
		go func() {
			defer s.readers.Done()
			s.reader()
		}()
	}
}

// Close stops listening and waits until queued requests are handled.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.listener.Close()
		s.readers.Wait()
		close(s.queue)
		s.handlers.Wait()
	})
	return err
}

func (s *Socket) reader() {
	for {
		buf := s.bufPoll.Get().([]byte)
		n, addr, err := s.listener.ReadFromUDP(buf[0:])
		if err != nil {
			s.bufPoll.Put(buf)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Println(err)
			continue
		}

		s.queue <- QueueRequest{
			Data:   buf,
			Addr:   addr,
			Length: n,
		}
	}
}

func (s *Socket) dequeuer() {
	for req := range s.queue {
		s.udpHandler(req.Addr, req.Data[:req.Length])
		s.bufPoll.Put(req.Data[:cap(req.Data)])
	}
}

func (s *Socket) udpHandler(addr net.Addr, in []byte) {
	resp, err := s.answer(in)
	if err != nil {
		log.Println(err)
		return
	}
	if _, err = s.listener.WriteTo(resp, addr); err != nil {
		log.Println(err)
	}
}

// answer builds the reply to the query in. Cached questions are answered
// locally, the rest is sent upstream and the answers are remembered.
func (s *Socket) answer(in []byte) ([]byte, error) {
	if resp, ok, err := s.fromCache(in); err != nil || ok {
		return resp, err
	}

	resp, err := s.exchange(in)
	if err != nil {
		return nil, err
	}
	if err := s.remember(resp); err != nil {
		log.Println(err)
	}
	return resp, nil
}

func (s *Socket) fromCache(in []byte) ([]byte, bool, error) {
	var parser dnsmessage.Parser
	header, err := parser.Start(in)
	if err != nil {
		return nil, false, err
	}
	question, err := parser.AllQuestions()
	if err != nil {
		return nil, false, err
	}
	if len(question) == 0 {
		return nil, false, fmt.Errorf("query %d has no question", header.ID)
	}

	s.mu.Lock()
	answer, ok := s.cache.Get(question[0])
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	msg := dnsmessage.Message{
		Header: dnsmessage.Header{
			ID:                 header.ID,
			Response:           true,
			RecursionDesired:   header.RecursionDesired,
			RecursionAvailable: true, // only recursive answers are cached
			RCode:              dnsmessage.RCodeSuccess,
		},
		Questions: question,
		Answers:   answer,
	}
	resp, err := msg.Pack()
	if err != nil {
		return nil, false, err
	}
	return resp, true, nil
}

func (s *Socket) exchange(in []byte) ([]byte, error) {
	remoteDns, err := net.DialTimeout(s.args.Network, s.args.DNSAddr, time.Second)
	if err != nil {
		return nil, fmt.Errorf("cant connect to remote dns: %w", err)
	}
	defer func() {
		if err := remoteDns.Close(); err != nil {
			log.Println(err)
		}
	}()

	if err := remoteDns.SetDeadline(time.Now().Add(time.Second)); err != nil {
		return nil, err
	}
	// redirect the query to remoteDns
	if _, err := remoteDns.Write(in); err != nil {
		return nil, err
	}

	resp := make([]byte, packetSize)
	n, err := remoteDns.Read(resp)
	if err != nil {
		return nil, err
	}
	return resp[:n], nil
}

// remember stores the answers of a successful upstream response.
func (s *Socket) remember(resp []byte) error {
	var parser dnsmessage.Parser
	header, err := parser.Start(resp)
	if err != nil {
		return err
	}
	if header.RCode != dnsmessage.RCodeSuccess {
		return nil
	}
	question, err := parser.AllQuestions()
	if err != nil {
		return err
	}
	answers, err := parser.AllAnswers()
	if err != nil {
		return err
	}
	if len(question) == 0 || answers == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(question[0], answers)
	return nil
}
