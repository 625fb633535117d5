package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewImagenesServiceSinBucket(t *testing.T) {
	_, err := NewImagenesService("", "us-east-1")
	assert.Error(t, err)
}
