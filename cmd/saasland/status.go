// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/saasland/saasland/internal/config"
)

// EndpointStatus holds the probe result for one endpoint.
type EndpointStatus struct {
	Endpoint string `json:"endpoint"`
	URL      string `json:"url"`
	Up       bool   `json:"up"`
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running server",
		Long:  `Probe the API and observability endpoints of a running server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 3*time.Second, "probe timeout per endpoint")
	config.BindFlags(cmd.Flags())

	return cmd
}

func runStatus(cmd *cobra.Command, scfg *statusConfig) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client := &http.Client{Timeout: scfg.timeout}
	statuses := map[string]EndpointStatus{
		"api": probeEndpoint(client, "api", probeURL(cfg.Server.Addr, "/healthz")),
	}
	if cfg.Metrics.Addr != "" {
		statuses["liveness"] = probeEndpoint(client, "liveness", probeURL(cfg.Metrics.Addr, "/healthz/liveness"))
		statuses["readiness"] = probeEndpoint(client, "readiness", probeURL(cfg.Metrics.Addr, "/healthz/readiness"))
	}

	if scfg.jsonOutput {
		out, err := json.MarshalIndent(statuses, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(formatStatusTable(statuses))
	return nil
}

// probeURL builds an http URL from a listen address, substituting
// localhost for wildcard hosts.
func probeURL(addr, path string) string {
	host := addr
	if strings.HasPrefix(addr, ":") {
		host = "localhost" + addr
	}
	return "http://" + host + path
}

func probeEndpoint(client *http.Client, name, url string) EndpointStatus {
	status := EndpointStatus{Endpoint: name, URL: url}

	resp, err := client.Get(url)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	status.Status = resp.Status
	status.Up = resp.StatusCode == http.StatusOK
	return status
}

func formatStatusTable(statuses map[string]EndpointStatus) string {
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENDPOINT\tURL\tUP\tDETAIL")
	for _, name := range names {
		s := statuses[name]
		detail := s.Status
		if s.Error != "" {
			detail = s.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", s.Endpoint, s.URL, s.Up, detail)
	}
	_ = w.Flush()
	return sb.String()
}
