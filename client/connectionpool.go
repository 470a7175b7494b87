package client

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrPoolDrained  = errors.New("connection pool has been drained, client is dead")
	ErrNoConnection = errors.New("could not get a connection")
)

type connReturn struct {
	conn net.Conn
	err  error
}

// connectionPool hands out up to size connections to one address,
// callers wait at most waitTimeout for a free one
type connectionPool struct {
	address        string
	chanConnGet    chan chan net.Conn
	chanConnReturn chan connReturn
	closed         chan struct{}
	closeOnce      sync.Once
}

func newConnectionPool(address string, size int, waitTimeout time.Duration) *connectionPool {
	connPool := &connectionPool{
		address:        address,
		chanConnGet:    make(chan chan net.Conn),
		chanConnReturn: make(chan connReturn),
		closed:         make(chan struct{}),
	}
	go connPool.run(size, waitTimeout)
	return connPool
}

// get blocks until a connection is free, the wait timed out or ctx is done
func (c *connectionPool) get(ctx context.Context) (net.Conn, error) {
	chanConn := make(chan net.Conn, 1)
	select {
	case <-c.closed:
		return nil, ErrPoolDrained
	case <-ctx.Done():
		return nil, ctx.Err()
	case c.chanConnGet <- chanConn:
	}
	select {
	case <-ctx.Done():
		// hand the connection back once the pool serves it
		go func() {
			if conn := <-chanConn; conn != nil {
				c.put(conn, nil)
			}
		}()
		return nil, ctx.Err()
	case conn := <-chanConn:
		if conn == nil {
			return nil, ErrNoConnection
		}
		return conn, nil
	}
}

// put returns a connection, a non nil err discards it
func (c *connectionPool) put(conn net.Conn, err error) {
	select {
	case <-c.closed:
		_ = conn.Close()
	case c.chanConnReturn <- connReturn{conn: conn, err: err}:
	}
}

func (c *connectionPool) drain() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *connectionPool) isDrained() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *connectionPool) run(size int, waitTimeout time.Duration) {
	type poolEntry struct {
		busy bool
		err  error
		conn net.Conn
	}
	type waitPoolEntry struct {
		entryTime time.Time
		chanConn  chan net.Conn
	}

	var (
		connectionPool = make([]*poolEntry, size)
		waitPool       []*waitPoolEntry
		ticker         = time.NewTicker(waitTimeout)
	)
	defer ticker.Stop()
	for i := range connectionPool {
		connectionPool[i] = &poolEntry{}
	}

	for {
		select {
		case <-c.closed:
			for _, waitPoolEntry := range waitPool {
				waitPoolEntry.chanConn <- nil
			}
			for _, poolEntry := range connectionPool {
				if poolEntry.conn != nil {
					_ = poolEntry.conn.Close()
				}
			}
			return
		case <-ticker.C:
		case chanConn := <-c.chanConnGet:
			waitPool = append(waitPool, &waitPoolEntry{
				chanConn:  chanConn,
				entryTime: time.Now(),
			})
		case connReturn := <-c.chanConnReturn:
			for _, poolEntry := range connectionPool {
				if connReturn.conn == poolEntry.conn {
					poolEntry.busy = false
					if connReturn.err != nil {
						poolEntry.err = connReturn.err
						_ = poolEntry.conn.Close()
						poolEntry.conn = nil
					}
				}
			}
		}
		// refill connection pool while somebody is waiting
		if len(waitPool) > 0 {
			for _, poolEntry := range connectionPool {
				if poolEntry.conn == nil {
					poolEntry.conn, poolEntry.err = net.DialTimeout("tcp", c.address, waitTimeout)
				}
			}
		}
		// redistribute available connections, first come first served
		for _, poolEntry := range connectionPool {
			if len(waitPool) == 0 {
				break
			}
			if poolEntry.err == nil && poolEntry.conn != nil && !poolEntry.busy {
				poolEntry.busy = true
				waitPool[0].chanConn <- poolEntry.conn
				waitPool = waitPool[1:]
			}
		}
		// waitpool cleanup
		now := time.Now()
		waiting := waitPool[:0]
		for _, waitPoolEntry := range waitPool {
			if now.Sub(waitPoolEntry.entryTime) > waitTimeout {
				waitPoolEntry.chanConn <- nil
				continue
			}
			waiting = append(waiting, waitPoolEntry)
		}
		waitPool = waiting
	}
}
