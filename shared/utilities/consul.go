package utilities

import (
	"fmt"
	"time"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceRegistration describes how the service announces itself to Consul.
type ServiceRegistration struct {
	ID              string
	Name            string
	Address         string
	Port            int
	Tags            []string
	CheckInterval   time.Duration
	DeregisterAfter time.Duration
}

// ConsulAgent is the subset of the Consul agent API used for registration.
type ConsulAgent interface {
	ServiceRegister(service *consulapi.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

// NewConsulAgent connects to the Consul agent at addr.
func NewConsulAgent(addr string) (ConsulAgent, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return client.Agent(), nil
}

// RegisterService registers reg with a gRPC health check and returns a function
// that deregisters it.
func RegisterService(agent ConsulAgent, reg ServiceRegistration) (func() error, error) {
	interval := reg.CheckInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	deregisterAfter := reg.DeregisterAfter
	if deregisterAfter <= 0 {
		deregisterAfter = time.Minute
	}

	registration := &consulapi.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
		Check: &consulapi.AgentServiceCheck{
			GRPC:                           fmt.Sprintf("%s:%d", reg.Address, reg.Port),
			Interval:                       interval.String(),
			DeregisterCriticalServiceAfter: deregisterAfter.String(),
		},
	}

	if err := agent.ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register service %s: %w", reg.ID, err)
	}

	return func() error {
		return agent.ServiceDeregister(reg.ID)
	}, nil
}
