package server_test

import (
	"testing"

	"cogsaver/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		bind string
		port string
		want string
	}{
		{"Loopback", "127.0.0.1", "7283", "127.0.0.1:7283"},
		{"AllInterfaces", "0.0.0.0", "8080", "0.0.0.0:8080"},
		{"EmptyBind", "", "7283", ":7283"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Bind: tt.bind, Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}
