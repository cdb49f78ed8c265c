package discovery

import (
	"fmt"
	"log"
	"strconv"

	"devhub/internal/config"

	"github.com/hashicorp/consul/api"
)

type ServiceRegistry struct {
	client *api.Client
	cfg    config.ServerConfig
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %v", err)
	}

	return &ServiceRegistry{
		client: client,
		cfg:    cfg.Server,
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	httpPort, _ := strconv.Atoi(sr.cfg.Port)

	registration := &api.AgentServiceRegistration{
		ID:      sr.cfg.ServiceID + "-http",
		Name:    sr.cfg.ServiceName,
		Port:    httpPort,
		Address: sr.cfg.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.cfg.ServiceAddress, sr.cfg.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"api", "http"},
		Meta: map[string]string{
			"protocol": "http",
		},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with Consul: %v", err)
	}

	log.Println("Successfully registered service with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.cfg.ServiceID + "-http"); err != nil {
		return fmt.Errorf("failed to deregister service: %v", err)
	}
	log.Println("Successfully deregistered service from Consul")
	return nil
}
