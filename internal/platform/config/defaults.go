package config

// defaults is the bottom configuration layer. Every key a YAML file or
// environment variable may override is present here, which also lets Load
// map APP_ variables with underscores inside key names.
func defaults() map[string]any {
	client := func(baseURL string, extra map[string]any) map[string]any {
		m := map[string]any{
			"base_url": baseURL,
			"timeout":  "10s",
			"retry": map[string]any{
				"max_attempts":     3,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       2.0,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 1,
			},
			"rate_limit": map[string]any{
				"requests_per_second": 0,
				"burst_size":          1,
			},
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	return map[string]any{
		"server": map[string]any{
			"host":                 "0.0.0.0",
			"port":                 8080,
			"read_timeout":         "5s",
			"write_timeout":        "10s",
			"idle_timeout":         "120s",
			"request_timeout":      "30s",
			"health_check_timeout": "2s",
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
		},
		"telemetry": map[string]any{
			"enabled":      false,
			"exporter":     "stdout",
			"endpoint":     "",
			"service_name": "wishlist",
		},
		"actions": map[string]any{
			"fanout_workers":         8,
			"invitation_code_length": 8,
		},
		"clients": map[string]any{
			"pushover": client("https://api.pushover.net", map[string]any{"token": ""}),
			"mail":     client("http://localhost:8025", map[string]any{"sender": "wishlist@localhost"}),
		},
		"images": map[string]any{
			"base_url": "http://localhost:8080",
		},
	}
}
