package consul

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistration(t *testing.T) {
	reg := Registration("ecommerce", "10.0.0.5", 8080)

	assert.True(t, strings.HasPrefix(reg.ID, "ecommerce-"))
	assert.Equal(t, "ecommerce", reg.Name)
	assert.Equal(t, 8080, reg.Port)
	assert.Equal(t, "http://10.0.0.5:8080/ping", reg.Check.HTTP)
	assert.NotEqual(t, reg.ID, Registration("ecommerce", "10.0.0.5", 8080).ID)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("127.0.0.1:8500")
	assert.NoError(t, err)
	assert.NotNil(t, c)
}
