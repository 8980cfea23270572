package server

import (
	"github.com/pkg/errors"

	"writing_assessor/internal/assess"
	"writing_assessor/internal/db"
	"writing_assessor/internal/logging"
)

type Option func(*Service) error

func (s *Service) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Name of this service instance, auto-generated when empty.
func Name(name string) Option {
	return func(s *Service) error {
		if name == "" {
			name = GenerateName()
		}
		s.serviceName = name
		return nil
	}
}

// ID of this service instance, auto-generated when empty.
func ID(id string) Option {
	return func(s *Service) error {
		if id == "" {
			id = GenerateID()
		}
		s.serviceID = id
		return nil
	}
}

func Host(host string) Option {
	return func(s *Service) error {
		if host == "" {
			host = "localhost"
		}
		s.serviceHost = host
		return nil
	}
}

// Port to listen on. Zero picks an available port.
func Port(port int) Option {
	return func(s *Service) error {
		if port < 0 || port > 65535 {
			return errors.Errorf("invalid port %d", port)
		}
		if port == 0 {
			p, err := AvailablePort()
			if err != nil {
				return errors.Wrap(err, "cannot assign a port")
			}
			port = p
		}
		s.servicePort = port
		return nil
	}
}

func Engine(engine *assess.Engine) Option {
	return func(s *Service) error {
		if engine == nil {
			return errors.New("engine must not be nil")
		}
		s.engine = engine
		return nil
	}
}

// Store enables persistence of assessments and the history routes.
func Store(store *db.Store) Option {
	return func(s *Service) error {
		s.store = store
		return nil
	}
}

func Logger(logger logging.Logger) Option {
	return func(s *Service) error {
		s.logger = logging.OrNop(logger)
		return nil
	}
}

// BodyLimit caps request bodies, in echo's size notation (e.g. "64KB").
func BodyLimit(limit string) Option {
	return func(s *Service) error {
		if limit == "" {
			return errors.New("body limit must not be empty")
		}
		s.bodyLimit = limit
		return nil
	}
}

func defaultOptions() []Option {
	return []Option{
		Name(""),
		ID(""),
		Host(""),
		BodyLimit("64KB"),
		Logger(nil),
	}
}
