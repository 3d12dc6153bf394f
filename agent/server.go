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

package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/happy42779/domain-aware-routing/agent/logger"
	"github.com/happy42779/domain-aware-routing/metrics"
	"github.com/happy42779/domain-aware-routing/types"
)

// GetListenAddr returns the listen address, preferring the
// DAR_AGENT_ADDR env var. The agent listens on TCP because the
// controller issuing route commands is remote.
func GetListenAddr() string {
	if addr := os.Getenv("DAR_AGENT_ADDR"); addr != "" {
		return addr
	}
	return "0.0.0.0:8080"
}

// handlerFunc is a function that handles an agent command
type handlerFunc func(Request) Response

// Server accepts controller connections and translates protocol
// requests into Manager calls. It is pure boundary glue: all route
// semantics live in the Manager.
type Server struct {
	manager   *Manager
	listener  net.Listener
	done      chan struct{}
	handlers  map[string]handlerFunc
	startedAt time.Time
	version   string
}

// NewServer creates a server listening on addr.
func NewServer(manager *Manager, addr, version string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := newServer(manager, version)
	s.listener = listener
	return s, nil
}

// newServer wires up the handler table without a listener (tests call
// handlers directly).
func newServer(manager *Manager, version string) *Server {
	s := &Server{
		manager:   manager,
		done:      make(chan struct{}),
		startedAt: time.Now(),
		version:   version,
	}

	s.handlers = map[string]handlerFunc{
		"add-route":    s.handleAddRoute,
		"delete-route": s.handleDeleteRoute,
		"batch-add":    s.handleBatchAdd,
		"batch-delete": s.handleBatchDelete,
		"list-routes":  s.handleListRoutes,
		"flush":        s.handleFlush,
		"status":       func(req Request) Response { return s.handleStatus() },
		"stats":        func(req Request) Response { return s.handleStats() },
	}

	return s
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start accepts connections until Stop is called.
func (s *Server) Start() error {
	logger.Info("Agent listening",
		logger.Field{Key: "addr", Value: s.listener.Addr().String()})

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
				logger.Error("Failed to accept connection",
					logger.Field{Key: "error", Value: err.Error()})
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

// Stop shuts the listener down. In-flight mutations run to completion;
// their outcome is just not delivered to disconnected callers.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendResponse(conn, Response{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	resp := s.handleRequest(req)
	s.sendResponse(conn, resp)
}

func (s *Server) handleRequest(req Request) Response {
	handler, exists := s.handlers[req.Command]
	if !exists {
		return Response{
			Success: false,
			Error:   fmt.Sprintf("unknown command: %s", req.Command),
		}
	}

	resp := handler(req)

	outcome := "ok"
	if !resp.Success {
		outcome = "error"
	}
	metrics.Get().RequestsTotal.WithLabelValues(req.Command, outcome).Inc()
	return resp
}

func (s *Server) sendResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to marshal response",
			logger.Field{Key: "error", Value: err.Error()})
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		logger.Debug("Failed to write response",
			logger.Field{Key: "error", Value: err.Error()})
	}
}

func (s *Server) handleAddRoute(req Request) Response {
	if req.Route == nil {
		return Response{Success: false, Error: "missing required field: route"}
	}

	route, err := s.manager.AddRoute(*req.Route, req.ReplaceExisting)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	return Response{
		Success: true,
		Message: fmt.Sprintf("Successfully added route %s via %s", route.Destination, route.Nexthop),
		Route:   &route,
	}
}

func (s *Server) handleDeleteRoute(req Request) Response {
	if req.Destination == "" {
		return Response{Success: false, Error: "missing required field: destination"}
	}

	if err := s.manager.DeleteRoute(req.Destination, req.Nexthop, req.Table); err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	return Response{
		Success: true,
		Message: fmt.Sprintf("Successfully deleted route %s", req.Destination),
	}
}

func (s *Server) handleBatchAdd(req Request) Response {
	if len(req.Routes) == 0 {
		return Response{Success: false, Error: `expected "routes" array in request`}
	}

	results := make([]BatchResult, len(req.Routes))
	failed := 0
	for i, r := range req.Routes {
		route, err := s.manager.AddRoute(r, req.ReplaceExisting)
		if err != nil {
			results[i] = BatchResult{Index: i, Success: false, Error: err.Error()}
			failed++
			continue
		}
		results[i] = BatchResult{
			Index:   i,
			Success: true,
			Message: fmt.Sprintf("added %s", route.String()),
		}
	}

	return Response{
		Success: failed == 0,
		Message: fmt.Sprintf("%d added, %d failed", len(req.Routes)-failed, failed),
		Results: results,
	}
}

func (s *Server) handleBatchDelete(req Request) Response {
	if len(req.Destinations) == 0 {
		return Response{Success: false, Error: `expected "destinations" array in request`}
	}

	results := make([]BatchResult, len(req.Destinations))
	failed := 0
	for i, destination := range req.Destinations {
		if err := s.manager.DeleteRoute(destination, "", req.Table); err != nil {
			results[i] = BatchResult{Index: i, Success: false, Error: err.Error()}
			failed++
			continue
		}
		results[i] = BatchResult{
			Index:   i,
			Success: true,
			Message: fmt.Sprintf("deleted %s", destination),
		}
	}

	return Response{
		Success: failed == 0,
		Message: fmt.Sprintf("%d deleted, %d failed", len(req.Destinations)-failed, failed),
		Results: results,
	}
}

func (s *Server) handleListRoutes(req Request) Response {
	var routes []types.Route
	if req.Table != 0 {
		routes = s.manager.RoutesInTable(req.Table)
	} else {
		routes = s.manager.Routes()
	}

	return Response{
		Success: true,
		Message: fmt.Sprintf("%d routes tracked", len(routes)),
		Routes:  routes,
	}
}

func (s *Server) handleFlush(req Request) Response {
	deleted, errs := s.manager.Flush()
	if len(errs) > 0 {
		return Response{
			Success: false,
			Message: fmt.Sprintf("%d routes deleted, %d failed", deleted, len(errs)),
			Error:   errs[0].Error(),
		}
	}

	return Response{
		Success: true,
		Message: fmt.Sprintf("%d routes deleted", deleted),
	}
}

func (s *Server) handleStatus() Response {
	return Response{
		Success: true,
		Data: map[string]interface{}{
			"version": s.version,
			"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
			"routes":  s.manager.index.Len(),
			"tables":  s.manager.Tables(),
		},
	}
}

func (s *Server) handleStats() Response {
	samples := s.manager.LatencySamples()
	return Response{
		Success: true,
		Data: map[string]interface{}{
			"unit":    "ms",
			"samples": samples,
			"count":   len(samples),
		},
	}
}
