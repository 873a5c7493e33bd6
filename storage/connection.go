package storage

import (
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	log "github.com/sirupsen/logrus"

	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/conf"
	"github.com/quadrantdb/quadrant/errors"
)

// ConnectionPools caches one open connection per storage URL. It is process
// scoped state owned by the process entry point, passed by reference so the
// core stays testable in isolation. Close tears down all cached connections
// on process shutdown.
type ConnectionPools struct {
	cnf   conf.Config
	mu    sync.Mutex
	conns map[string]*Connection
}

func NewConnectionPools(cnf conf.Config) *ConnectionPools {
	return &ConnectionPools{
		cnf:   cnf,
		conns: make(map[string]*Connection),
	}
}

// Get returns the shared connection for a storage URL, opening one if needed.
// A transient closed connection is retried indefinitely with a fixed pause -
// callers wanting bounded retry must impose their own timeout. A failure to
// open surfaces as a typed storage error.
func (p *ConnectionPools) Get(url string) (*Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conn := p.conns[url]
	for {
		if conn == nil || conn.IsClosed() {
			log.Infof("connection to %s is nil or closed, creating a new one", url)
			var err error
			conn, err = openConnection(url, p.cnf)
			if err != nil {
				log.Errorf("error when opening connection %s: %v", url, err)
				return nil, errors.NewStorageError("error when opening connection "+url, err)
			}
			p.conns[url] = conn
		}
		if conn == nil || conn.IsClosed() {
			time.Sleep(p.cnf.ConnectionRetryPause)
		} else {
			break
		}
	}
	return conn, nil
}

// Close closes every cached connection. Called on process shutdown.
func (p *ConnectionPools) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for url, conn := range p.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, url)
	}
	return firstErr
}

// Connection is a handle to one clustered store. It can be shared by multiple
// goroutines and does not require per-use close.
type Connection struct {
	url    string
	cnf    conf.Config
	db     *pebble.DB
	closed common.AtomicBool
}

func openConnection(url string, cnf conf.Config) (*Connection, error) {
	db, err := pebble.Open(url, &pebble.Options{})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	log.Debugf("opened storage connection at %s", url)
	return &Connection{url: url, cnf: cnf, db: db}, nil
}

func (c *Connection) URL() string {
	return c.url
}

func (c *Connection) IsClosed() bool {
	return c.closed.Get()
}

func (c *Connection) Close() error {
	if !c.closed.CompareAndSet(false, true) {
		return nil
	}
	return errors.WithStack(c.db.Close())
}

// withRetry runs an admin operation with bounded client retries, a fixed
// pause between retries and an overall operation timeout.
func (c *Connection) withRetry(opName string, op func() error) error {
	start := time.Now()
	var err error
	for i := 0; i < c.cnf.ClientMaxRetries; i++ {
		if err = op(); err == nil {
			return nil
		}
		if time.Since(start) > c.cnf.ClientOperationTimeout {
			break
		}
		log.Warnf("%s failed, will retry: %v", opName, err)
		time.Sleep(c.cnf.ClientRetryPause)
	}
	return errors.NewStorageError(opName+" failed", err)
}
