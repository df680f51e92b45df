package consul

import (
	"fmt"

	"github.com/google/uuid"
	consulapi "github.com/hashicorp/consul/api"
)

func NewClient(addr string) (*consulapi.Client, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr
	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return client, nil
}

// Registration builds the agent registration for this process with an http
// check against /ping.
func Registration(name, host string, port int) *consulapi.AgentServiceRegistration {
	return &consulapi.AgentServiceRegistration{
		ID:      fmt.Sprintf("%s-%s", name, uuid.NewString()),
		Name:    name,
		Address: host,
		Port:    port,
		Tags:    []string{"graphql"},
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/ping", host, port),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

// RegisterService registers the service and returns its id for later deregistration.
func RegisterService(client *consulapi.Client, name, host string, port int) (string, error) {
	reg := Registration(name, host, port)
	if err := client.Agent().ServiceRegister(reg); err != nil {
		return "", fmt.Errorf("register %s with consul: %w", name, err)
	}
	return reg.ID, nil
}

func Deregister(client *consulapi.Client, id string) error {
	return client.Agent().ServiceDeregister(id)
}
