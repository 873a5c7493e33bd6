package server

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quadrantdb/quadrant/conf"
	"github.com/quadrantdb/quadrant/errors"
	"github.com/quadrantdb/quadrant/lifecycle"
	"github.com/quadrantdb/quadrant/metrics"
	"github.com/quadrantdb/quadrant/metrics/prometheus"
	"github.com/quadrantdb/quadrant/storage"
)

// Server owns the process scoped state: the storage connection pools, the
// metrics factory and the lifecycle endpoints. Everything is torn down on
// Stop.
type Server struct {
	cnf            conf.Config
	lock           sync.Mutex
	started        bool
	connPools      *storage.ConnectionPools
	metricsFactory metrics.Factory
	lifecycle      *lifecycle.Endpoints
}

func NewServer(cnf conf.Config) (*Server, error) {
	if err := cnf.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &Server{
		cnf:            cnf,
		connPools:      storage.NewConnectionPools(cnf),
		metricsFactory: prometheus.NewFactory(cnf),
		lifecycle:      lifecycle.NewLifecycleEndpoints(cnf),
	}, nil
}

func (s *Server) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.started {
		return nil
	}
	if err := s.lifecycle.Start(); err != nil {
		return errors.WithStack(err)
	}
	if s.cnf.EnableMetrics {
		if err := s.metricsFactory.Start(); err != nil {
			return errors.WithStack(err)
		}
	}
	// open the configured storage connection up front so a bad URL fails at startup
	if _, err := s.connPools.Get(s.cnf.StorageURL); err != nil {
		return errors.WithStack(err)
	}
	s.lifecycle.SetActive(true)
	s.started = true
	log.Infof("quadrant server started on node %d", s.cnf.NodeID)
	return nil
}

func (s *Server) Stop() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.started {
		return nil
	}
	s.lifecycle.SetActive(false)
	if s.cnf.EnableMetrics {
		if err := s.metricsFactory.Stop(); err != nil {
			log.Errorf("failed to stop metrics factory %v", err)
		}
	}
	if err := s.connPools.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := s.lifecycle.Stop(); err != nil {
		return errors.WithStack(err)
	}
	s.started = false
	return nil
}

// ConnectionPools exposes the process wide storage connections.
func (s *Server) ConnectionPools() *storage.ConnectionPools {
	return s.connPools
}

// MetricsFactory exposes the process wide metrics factory.
func (s *Server) MetricsFactory() metrics.Factory {
	return s.metricsFactory
}

func (s *Server) GetConfig() conf.Config {
	return s.cnf
}
