package config

import (
	"github.com/urfave/cli/v3"
)

// Server holds ops HTTP server configuration
type Server struct {
	Addr string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Ops server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("WICKET_ADDR"),
			Destination: &s.Addr,
		},
	}
}
