package provision

import (
	"context"
	"strings"

	"phone_orders/internal/agent"
	"phone_orders/internal/config"
)

// EnvVar is a KEY=value line the operator should persist in .env.
type EnvVar struct {
	Key   string
	Value string
}

type Result struct {
	Platform config.Platform
	Created  bool
	Env      []EnvVar
}

// Provisioner creates or updates the remote agent definition for one platform.
type Provisioner interface {
	Provision(ctx context.Context) (Result, error)
}

func toolURL(webhookURL, tool string) string {
	return strings.TrimRight(webhookURL, "/") + "/tools/" + tool
}

func profileOf(p config.Profile, callMinutes int) agent.Profile {
	return agent.Profile{
		RestaurantName:      p.RestaurantName,
		WebsiteURL:          p.WebsiteURL,
		CallTimeLimitMinute: callMinutes,
	}
}
