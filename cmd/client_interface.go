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

// Package cmd implements the CLI commands for the route agent using cobra.
package cmd

import (
	"github.com/happy42779/domain-aware-routing/agent"
	"github.com/happy42779/domain-aware-routing/client"
)

// ClientInterface defines the interface for communicating with the agent.
// This interface allows for easy testing by enabling mock implementations.
type ClientInterface interface {
	Send(req agent.Request) (*agent.Response, error)
}

// realClient wraps the actual client.Send function to implement ClientInterface.
type realClient struct{}

func (r *realClient) Send(req agent.Request) (*agent.Response, error) {
	return client.Send(req)
}

// defaultClient is the default client used by CLI commands.
// Tests can replace this with a mock implementation.
var defaultClient ClientInterface = &realClient{}
