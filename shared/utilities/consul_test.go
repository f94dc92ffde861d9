package utilities

import (
	"errors"
	"testing"
	"time"

	consulapi "github.com/hashicorp/consul/api"
)

type mockConsulAgent struct {
	registered   *consulapi.AgentServiceRegistration
	deregistered string
	registerErr  error
}

func (m *mockConsulAgent) ServiceRegister(service *consulapi.AgentServiceRegistration) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered = service
	return nil
}

func (m *mockConsulAgent) ServiceDeregister(serviceID string) error {
	m.deregistered = serviceID
	return nil
}

func TestRegisterService(t *testing.T) {
	agent := &mockConsulAgent{}

	deregister, err := RegisterService(agent, ServiceRegistration{
		ID:            "registration-service-1",
		Name:          "registration-service",
		Address:       "10.0.0.5",
		Port:          9090,
		Tags:          []string{"grpc"},
		CheckInterval: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("RegisterService() error: %v", err)
	}

	if agent.registered == nil {
		t.Fatal("expected service to be registered")
	}
	if agent.registered.Check.GRPC != "10.0.0.5:9090" {
		t.Errorf("check GRPC = %q", agent.registered.Check.GRPC)
	}
	if agent.registered.Check.Interval != "5s" {
		t.Errorf("check Interval = %q, want 5s", agent.registered.Check.Interval)
	}
	if agent.registered.Check.DeregisterCriticalServiceAfter != "1m0s" {
		t.Errorf("DeregisterCriticalServiceAfter = %q, want 1m0s", agent.registered.Check.DeregisterCriticalServiceAfter)
	}

	if err := deregister(); err != nil {
		t.Fatalf("deregister() error: %v", err)
	}
	if agent.deregistered != "registration-service-1" {
		t.Errorf("deregistered = %q", agent.deregistered)
	}
}

func TestRegisterService_Error(t *testing.T) {
	agent := &mockConsulAgent{registerErr: errors.New("agent unavailable")}

	if _, err := RegisterService(agent, ServiceRegistration{ID: "svc"}); err == nil {
		t.Fatal("expected error when agent rejects registration")
	}
}
