// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package client provides a client library for communicating with the
// route agent.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/happy42779/domain-aware-routing/agent"
)

// GetAgentAddr returns the agent address, preferring the DAR_AGENT_ADDR
// env var.
func GetAgentAddr() string {
	if addr := os.Getenv("DAR_AGENT_ADDR"); addr != "" {
		return addr
	}
	return "127.0.0.1:8080"
}

// Send delivers one request to the agent and reads its response.
func Send(req agent.Request) (*agent.Response, error) {
	return SendTo(GetAgentAddr(), req)
}

// SendTo delivers one request to the agent at addr.
func SendTo(addr string, req agent.Request) (*agent.Response, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to agent (is it running?): %w", err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data = append(data, '\n')
	if _, err = conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp agent.Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}
